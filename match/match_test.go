package match_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	harmonia "github.com/juho05/harmonia-server"
	"github.com/juho05/harmonia-server/match"
)

func TestIsUnknown(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"unknown", true},
		{"Unknown Artist", true},
		{"UNKNOWN ALBUM", true},
		{"未知", true},
		{"未知艺术家", true},
		{"未知专辑", true},
		{"Daft Punk", false},
		{"unknown pleasures", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, match.IsUnknown(tt.value))
		})
	}
}

func TestFileBaseName(t *testing.T) {
	assert.Equal(t, "track01", match.FileBaseName("/music/album/track01.flac"))
	assert.Equal(t, "song", match.FileBaseName("song.mp3"))
	assert.Equal(t, "no-ext", match.FileBaseName("/a/no-ext"))
}

func TestIsMissingTitle(t *testing.T) {
	assert.True(t, match.IsMissingTitle("", "/m/track.mp3"))
	assert.True(t, match.IsMissingTitle("track", "/m/track.mp3"))
	assert.True(t, match.IsMissingTitle("unknown", "/m/track.mp3"))
	assert.False(t, match.IsMissingTitle("Harder Better Faster Stronger", "/m/track.mp3"))
}

func TestHasSourceTag(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"[51ape.com] One More Time", true},
		{"(vk.com) song", true},
		{"{tag} song", true},
		{"download from https://example.com", true},
		{"www.example.net rip", true},
		{"best-music.cn", true},
		{"One More Time", false},
		{"", false},
		{"feat. someone", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, match.HasSourceTag(tt.value))
		})
	}
}

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"leading tag", "[51ape.com] One More Time", "One More Time"},
		{"url", "One More Time https://example.com/x", "One More Time"},
		{"bare domain", "One More Time example.com", "One More Time"},
		{"separators", "one_more-time/remix", "one more time remix"},
		{"whitespace", "  one   more  time ", "one more time"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, match.SanitizeQuery(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "One More Time", "one more time"},
		{"brackets stripped", "Song (Live) [2007] {Remaster}", "song"},
		{"feat removed", "Song feat. Someone", "song someone"},
		{"punctuation collapsed", "don't---stop!!", "don t stop"},
		{"cjk kept", "周杰伦 - 晴天", "周杰伦 晴天"},
		{"empty", "()[]", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, match.Normalize(tt.input))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, float64(1), match.Similarity("One More Time", "one more time"))
	assert.Equal(t, float64(0), match.Similarity("", "something"))
	assert.Equal(t, float64(0), match.Similarity("something", ""))

	// "real artist" vs "real artist band": distance 5 over 16 runes.
	score := match.Similarity("Real Artist", "Real Artist Band")
	assert.InDelta(t, 0.6875, score, 0.0001)
	assert.Less(t, score, 0.8)

	// more shared content scores higher
	low := match.Similarity("abc", "xyz")
	high := match.Similarity("abcdef", "abcxyz")
	assert.Greater(t, high, low)
}

func TestShouldOverwrite(t *testing.T) {
	const threshold = 0.8

	tests := []struct {
		name      string
		current   string
		candidate string
		path      string
		reason    harmonia.Reason
		want      bool
	}{
		{"manual always", "Completely Different", "New Title", "", harmonia.ReasonManual, true},
		{"force always", "Completely Different", "New Title", "", harmonia.ReasonForce, true},
		{"source tag", "[51ape.com] Song", "Song", "", harmonia.ReasonPlayback, true},
		{"empty current", "", "Song", "", harmonia.ReasonPlayback, true},
		{"unknown sentinel", "未知艺术家", "周杰伦", "", harmonia.ReasonPlayback, true},
		{"file base name", "track01", "Real Title", "/m/track01.mp3", harmonia.ReasonImportFile, true},
		{"similar enough", "One More Time (Live)", "One More Time", "", harmonia.ReasonPlayback, true},
		{"too different", "Real Artist", "Real Artist Band", "", harmonia.ReasonPlayback, false},
		{"unrelated", "Around the World", "Harder Better", "", harmonia.ReasonImportFile, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := match.ShouldOverwrite(tt.current, tt.candidate, tt.path, tt.reason, threshold)
			assert.Equal(t, tt.want, got)
		})
	}
}
