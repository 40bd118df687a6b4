package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/juho05/log"
)

const defaultCandidateLimit = 10

// artistName extracts the artist name route parameter. chi leaves
// percent-escapes from the request path in place.
func artistName(r *http.Request) string {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		return ""
	}
	return name
}

func (h *Handler) handleGetArtistImage(w http.ResponseWriter, r *http.Request) {
	name := artistName(r)
	if name == "" {
		respondBadRequest(w, "missing artist name")
		return
	}
	path, err := h.ArtistImages.BestImage(r.Context(), name)
	if err != nil {
		respondErr(w, err)
		return
	}
	if path == "" {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "no image"})
		return
	}
	http.ServeFile(w, r, path)
}

func (h *Handler) handleGetArtistImageCandidates(w http.ResponseWriter, r *http.Request) {
	name := artistName(r)
	if name == "" {
		respondBadRequest(w, "missing artist name")
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultCandidateLimit
	}
	candidates, err := h.ArtistImages.Candidates(r.Context(), name, limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, candidates)
}

func (h *Handler) handleDeleteArtistImage(w http.ResponseWriter, r *http.Request) {
	name := artistName(r)
	if name == "" {
		respondBadRequest(w, "missing artist name")
		return
	}
	err := h.ArtistImages.Delete(r.Context(), name)
	if err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetArtistImageLocked(w http.ResponseWriter, r *http.Request) {
	name := artistName(r)
	if name == "" {
		respondBadRequest(w, "missing artist name")
		return
	}
	var body struct {
		Locked bool `json:"locked"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	err := h.ArtistImages.SetLocked(r.Context(), name, body.Locked)
	if err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRefreshArtistImages(w http.ResponseWriter, r *http.Request) {
	go func() {
		err := h.ArtistImages.RefreshAll(context.WithoutCancel(r.Context()))
		if err != nil {
			log.Errorf("refresh artist images: %s", err)
		}
	}()
	w.WriteHeader(http.StatusAccepted)
}
