package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/juho05/log"

	"github.com/juho05/harmonia-server/repos"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.Errorf("encode response: %s", err)
	}
}

func respondErr(w http.ResponseWriter, err error) {
	if errors.Is(err, repos.ErrNotFound) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	if errors.Is(err, repos.ErrInvalidParams) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	log.Errorf("handler: %s", err)
	respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, body any) bool {
	err := json.NewDecoder(r.Body).Decode(body)
	if err != nil {
		respondBadRequest(w, "invalid request body")
		return false
	}
	return true
}

type itemResponse struct {
	ID         string  `json:"id"`
	Path       string  `json:"path"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	DurationMS int64   `json:"durationMs"`
	HasArtwork bool    `json:"hasArtwork"`
	HasLyrics  bool    `json:"hasLyrics"`
	ArtworkURL *string `json:"artworkUrl,omitempty"`

	MetadataSource *string    `json:"metadataSource,omitempty"`
	LyricsSource   *string    `json:"lyricsSource,omitempty"`
	LastEnrichedAt *time.Time `json:"lastEnrichedAt,omitempty"`

	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

func toItemResponse(item *repos.Item) itemResponse {
	return itemResponse{
		ID:             item.ID,
		Path:           item.Path,
		Title:          item.Title,
		Artist:         item.Artist,
		Album:          item.Album,
		DurationMS:     item.Duration.Millis(),
		HasArtwork:     item.HasArtwork,
		HasLyrics:      item.LyricsPath != nil,
		ArtworkURL:     item.ArtworkURL,
		MetadataSource: item.MetadataSource,
		LyricsSource:   item.LyricsSource,
		LastEnrichedAt: item.LastEnrichedAt,
		Created:        item.Created,
		Updated:        item.Updated,
	}
}
