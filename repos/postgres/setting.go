package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/juho05/harmonia-server/repos"
	"github.com/nullism/bqb"
)

type settingRepository struct {
	db executer
}

const (
	settingLyricsMode          = "lyrics-mode"
	settingCorrectionThreshold = "correction-threshold"
	settingCacheHours          = "cache-hours"
)

func (s settingRepository) LyricsMode(ctx context.Context) (repos.LyricsMode, error) {
	str, err := s.get(ctx, settingLyricsMode)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return repos.LyricsModeOnline, nil
		}
		return "", fmt.Errorf("get lyrics mode: %w", err)
	}
	mode := repos.LyricsMode(str)
	if !mode.Valid() {
		return repos.LyricsModeOnline, nil
	}
	return mode, nil
}

func (s settingRepository) SetLyricsMode(ctx context.Context, mode repos.LyricsMode) error {
	if !mode.Valid() {
		return repos.NewError(fmt.Sprintf("invalid lyrics mode: %s", mode), repos.ErrInvalidParams, nil)
	}
	return s.set(ctx, settingLyricsMode, string(mode))
}

func (s settingRepository) CorrectionThreshold(ctx context.Context) (float64, error) {
	str, err := s.get(ctx, settingCorrectionThreshold)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return repos.DefaultCorrectionThreshold, nil
		}
		return 0, fmt.Errorf("get correction threshold: %w", err)
	}
	threshold, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return repos.DefaultCorrectionThreshold, nil
	}
	return repos.ClampCorrectionThreshold(threshold), nil
}

func (s settingRepository) SetCorrectionThreshold(ctx context.Context, threshold float64) error {
	threshold = repos.ClampCorrectionThreshold(threshold)
	return s.set(ctx, settingCorrectionThreshold, strconv.FormatFloat(threshold, 'f', -1, 64))
}

func (s settingRepository) CacheInterval(ctx context.Context) (time.Duration, error) {
	str, err := s.get(ctx, settingCacheHours)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return repos.DefaultCacheHours * time.Hour, nil
		}
		return 0, fmt.Errorf("get cache interval: %w", err)
	}
	hours, err := strconv.Atoi(str)
	if err != nil {
		return repos.DefaultCacheHours * time.Hour, nil
	}
	return time.Duration(repos.ClampCacheHours(hours)) * time.Hour, nil
}

func (s settingRepository) SetCacheHours(ctx context.Context, hours int) error {
	return s.set(ctx, settingCacheHours, strconv.Itoa(repos.ClampCacheHours(hours)))
}

func (s settingRepository) get(ctx context.Context, key string) (string, error) {
	q := bqb.New("SELECT value FROM settings WHERE key = ?", key)
	return getQuery[string](ctx, s.db, q)
}

func (s settingRepository) set(ctx context.Context, key, value string) error {
	q := bqb.New(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return executeQuery(ctx, s.db, q)
}
