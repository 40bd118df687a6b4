package handlers

import (
	"net/http"
	"time"

	"github.com/juho05/harmonia-server/repos"
)

type settingsResponse struct {
	LyricsMode          repos.LyricsMode `json:"lyricsMode"`
	CorrectionThreshold float64          `json:"correctionThreshold"`
	CacheHours          int              `json:"cacheHours"`
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings := h.DB.Setting()

	mode, err := settings.LyricsMode(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	threshold, err := settings.CorrectionThreshold(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	interval, err := settings.CacheInterval(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settingsResponse{
		LyricsMode:          mode,
		CorrectionThreshold: threshold,
		CacheHours:          int(interval / time.Hour),
	})
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LyricsMode          *repos.LyricsMode `json:"lyricsMode"`
		CorrectionThreshold *float64          `json:"correctionThreshold"`
		CacheHours          *int              `json:"cacheHours"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.LyricsMode != nil && !body.LyricsMode.Valid() {
		respondBadRequest(w, "invalid lyrics mode")
		return
	}

	err := h.DB.Transaction(r.Context(), func(tx repos.Tx) error {
		if body.LyricsMode != nil {
			err := tx.Setting().SetLyricsMode(r.Context(), *body.LyricsMode)
			if err != nil {
				return err
			}
		}
		if body.CorrectionThreshold != nil {
			err := tx.Setting().SetCorrectionThreshold(r.Context(), *body.CorrectionThreshold)
			if err != nil {
				return err
			}
		}
		if body.CacheHours != nil {
			err := tx.Setting().SetCacheHours(r.Context(), *body.CacheHours)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	h.handleGetSettings(w, r)
}
