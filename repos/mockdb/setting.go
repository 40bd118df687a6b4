package mockdb

import (
	"context"
	"time"

	"github.com/juho05/harmonia-server/repos"
)

// SettingRepository returns the documented defaults when the corresponding
// mock func is nil.
type SettingRepository struct {
	LyricsModeMock             func(ctx context.Context) (repos.LyricsMode, error)
	SetLyricsModeMock          func(ctx context.Context, mode repos.LyricsMode) error
	CorrectionThresholdMock    func(ctx context.Context) (float64, error)
	SetCorrectionThresholdMock func(ctx context.Context, threshold float64) error
	CacheIntervalMock          func(ctx context.Context) (time.Duration, error)
	SetCacheHoursMock          func(ctx context.Context, hours int) error
}

func (s SettingRepository) LyricsMode(ctx context.Context) (repos.LyricsMode, error) {
	if s.LyricsModeMock != nil {
		return s.LyricsModeMock(ctx)
	}
	return repos.LyricsModeOnline, nil
}

func (s SettingRepository) SetLyricsMode(ctx context.Context, mode repos.LyricsMode) error {
	if s.SetLyricsModeMock != nil {
		return s.SetLyricsModeMock(ctx, mode)
	}
	return nil
}

func (s SettingRepository) CorrectionThreshold(ctx context.Context) (float64, error) {
	if s.CorrectionThresholdMock != nil {
		return s.CorrectionThresholdMock(ctx)
	}
	return repos.DefaultCorrectionThreshold, nil
}

func (s SettingRepository) SetCorrectionThreshold(ctx context.Context, threshold float64) error {
	if s.SetCorrectionThresholdMock != nil {
		return s.SetCorrectionThresholdMock(ctx, threshold)
	}
	return nil
}

func (s SettingRepository) CacheInterval(ctx context.Context) (time.Duration, error) {
	if s.CacheIntervalMock != nil {
		return s.CacheIntervalMock(ctx)
	}
	return repos.DefaultCacheHours * time.Hour, nil
}

func (s SettingRepository) SetCacheHours(ctx context.Context, hours int) error {
	if s.SetCacheHoursMock != nil {
		return s.SetCacheHoursMock(ctx, hours)
	}
	return nil
}
