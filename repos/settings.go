package repos

import (
	"context"
	"time"
)

type LyricsMode string

const (
	// LyricsModeOnline fetches missing lyrics from the network provider.
	LyricsModeOnline LyricsMode = "online"
	// LyricsModeLocalOnly never performs a network lyrics search.
	LyricsModeLocalOnly LyricsMode = "local-only"
)

func (m LyricsMode) Valid() bool {
	return m == LyricsModeOnline || m == LyricsModeLocalOnly
}

const (
	DefaultCorrectionThreshold = 0.8
	MinCorrectionThreshold     = 0.5
	MaxCorrectionThreshold     = 1.0

	DefaultCacheHours = 24
	MinCacheHours     = 1
	MaxCacheHours     = 168
)

// ClampCorrectionThreshold clamps t into the valid threshold range.
func ClampCorrectionThreshold(t float64) float64 {
	return min(max(t, MinCorrectionThreshold), MaxCorrectionThreshold)
}

// ClampCacheHours clamps hours into the valid cache interval range.
func ClampCacheHours(hours int) int {
	return min(max(hours, MinCacheHours), MaxCacheHours)
}

// SettingRepository persists user-tunable enrichment settings as key/value
// pairs. Implementations return the documented defaults when a key was
// never written and clamp values into their valid range on write.
type SettingRepository interface {
	LyricsMode(ctx context.Context) (LyricsMode, error)
	SetLyricsMode(ctx context.Context, mode LyricsMode) error

	// CorrectionThreshold is the minimum similarity score required to
	// overwrite a trusted field value (0.5-1, default 0.8).
	CorrectionThreshold(ctx context.Context) (float64, error)
	SetCorrectionThreshold(ctx context.Context, threshold float64) error

	// CacheInterval is the minimum time between metadata enrichment
	// attempts for the same item (1h-168h, default 24h).
	CacheInterval(ctx context.Context) (time.Duration, error)
	SetCacheHours(ctx context.Context, hours int) error
}
