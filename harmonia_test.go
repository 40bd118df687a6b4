package harmonia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIDType(t *testing.T) {
	tests := []struct {
		id       string
		wantType IDType
		wantOK   bool
	}{
		{"it_abcdefghijkl", IDTypeItem, true},
		{"av_abcdefghijkl", IDTypeAvatar, true},
		{GenIDItem(), IDTypeItem, true},
		{GenIDAvatar(), IDTypeAvatar, true},
		{"itabcdefghijkl", "", false},
		{"it_short", "", false},
		{"it_abcdefghijklm", "", false},
		{"xy_abcdefghijkl", "", false},
		{"it_abcdefghij!l", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			typ, ok := GetIDType(tt.id)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantType, typ)
		})
	}
}

func TestIsIDType(t *testing.T) {
	assert.True(t, IsIDType("it_abcdefghijkl", IDTypeItem))
	assert.False(t, IsIDType("it_abcdefghijkl", IDTypeAvatar))
	assert.False(t, IsIDType("not-an-id", IDTypeItem))
}
