package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"the empty string stays the empty string", "", ""},
		{"whitespace is correctly normalized", "  asdf\t  test   bla\r\n", " asdf test bla "},
		{"text is converted to lowercase", "AaBbCcDd", "aabbccdd"},
		{"accents are removed", "öäüàêÇ", "oauaec"},
		{"ß is handled", "Soße auf der STRAẞE", "sosse auf der strasse"},
		{"special characters are removed", "Hello, world!", "hello world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized := NormalizeText(tt.text)
			assert.Equalf(t, tt.want, normalized, "normalized bytes: %v, wanted: %v", []byte(normalized), []byte(tt.want))
		})
	}
}

func TestMap(t *testing.T) {
	assert.Nil(t, Map[int, int](nil, func(i int) int { return i }))
	assert.Equal(t, []int{2, 4, 6}, Map([]int{1, 2, 3}, func(i int) int { return i * 2 }))
}

func TestEqPtrVals(t *testing.T) {
	a := 5
	b := 5
	c := 6
	assert.True(t, EqPtrVals[int](nil, nil))
	assert.True(t, EqPtrVals(&a, &b))
	assert.False(t, EqPtrVals(&a, &c))
	assert.False(t, EqPtrVals(&a, nil))
}
