package handlers

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/juho05/log"

	harmonia "github.com/juho05/harmonia-server"
	"github.com/juho05/harmonia-server/repos"
	"github.com/juho05/harmonia-server/util"
)

func (h *Handler) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	params := repos.ItemFindBySearchParams{
		Query: r.URL.Query().Get("query"),
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		params.Offset = offset
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		params.Limit = &limit
	}

	items, err := h.DB.Item().FindBySearch(r.Context(), params)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, util.Map(items, toItemResponse))
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.findItem(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path       string `json:"path"`
		Title      string `json:"title"`
		Artist     string `json:"artist"`
		Album      string `json:"album"`
		DurationMS int64  `json:"durationMs"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Path == "" {
		respondBadRequest(w, "missing path")
		return
	}
	item, err := h.DB.Item().Create(r.Context(), repos.CreateItemParams{
		Path:     body.Path,
		Title:    body.Title,
		Artist:   body.Artist,
		Album:    body.Album,
		Duration: repos.NewDurationMS(body.DurationMS),
	})
	if err != nil {
		respondErr(w, err)
		return
	}

	// fresh imports get enriched right away
	ctx := context.WithoutCancel(r.Context())
	go func() {
		h.Metadata.Enrich(ctx, item.ID, harmonia.ReasonImportFile)
		h.Lyrics.Enrich(ctx, item.ID, harmonia.ReasonImportFile)
	}()

	respondJSON(w, http.StatusCreated, toItemResponse(item))
}

// handleEnrichBatch launches one independent enrichment task per item.
func (h *Handler) handleEnrichBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs    []string        `json:"ids"`
		Reason harmonia.Reason `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Reason == "" {
		body.Reason = harmonia.ReasonManual
	}
	if !body.Reason.Valid() {
		respondBadRequest(w, "invalid reason")
		return
	}
	for _, id := range body.IDs {
		if !harmonia.IsIDType(id, harmonia.IDTypeItem) {
			respondBadRequest(w, "invalid item id: "+id)
			return
		}
	}
	items, err := h.DB.Item().FindByIDs(r.Context(), body.IDs)
	if err != nil {
		respondErr(w, err)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	for _, item := range items {
		go func() {
			h.Metadata.Enrich(ctx, item.ID, body.Reason)
			h.Lyrics.Enrich(ctx, item.ID, body.Reason)
		}()
	}
	respondJSON(w, http.StatusAccepted, map[string]int{"queued": len(items)})
}

// enrichment endpoints respond immediately; the engines run in the
// background and deduplicate concurrent requests themselves

func (h *Handler) handleEnrichMetadata(w http.ResponseWriter, r *http.Request) {
	item, reason, ok := h.enrichParams(w, r)
	if !ok {
		return
	}
	go h.Metadata.Enrich(context.WithoutCancel(r.Context()), item.ID, reason)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleEnrichLyrics(w http.ResponseWriter, r *http.Request) {
	item, reason, ok := h.enrichParams(w, r)
	if !ok {
		return
	}
	go h.Lyrics.Enrich(context.WithoutCancel(r.Context()), item.ID, reason)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) enrichParams(w http.ResponseWriter, r *http.Request) (*repos.Item, harmonia.Reason, bool) {
	reason := harmonia.Reason(r.URL.Query().Get("reason"))
	if reason == "" {
		reason = harmonia.ReasonManual
	}
	if !reason.Valid() {
		respondBadRequest(w, "invalid reason")
		return nil, "", false
	}
	item, ok := h.findItem(w, r)
	if !ok {
		return nil, "", false
	}
	return item, reason, true
}

func (h *Handler) handleGetArtwork(w http.ResponseWriter, r *http.Request) {
	item, ok := h.findItem(w, r)
	if !ok {
		return
	}
	if !item.HasArtwork || !h.Covers.Exists(item.ID) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "no artwork"})
		return
	}

	path := h.Covers.Path(item.ID)
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		http.ServeFile(w, r, path)
		return
	}

	img, err := imaging.Open(path)
	if err != nil {
		respondErr(w, err)
		return
	}
	thumbnail := imaging.Thumbnail(img, size, size, imaging.Linear)
	w.Header().Set("Content-Type", "image/jpeg")
	err = imaging.Encode(w, thumbnail, imaging.JPEG)
	if err != nil {
		log.Errorf("encode artwork thumbnail: %s", err)
	}
}

func (h *Handler) handleGetLyrics(w http.ResponseWriter, r *http.Request) {
	item, ok := h.findItem(w, r)
	if !ok {
		return
	}
	if item.LyricsPath == nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "no lyrics"})
		return
	}
	text, err := h.LyricsStore.Read(item.ID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			respondJSON(w, http.StatusNotFound, errorResponse{Error: "no lyrics"})
			return
		}
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"itemId": item.ID,
		"lyrics": text,
	})
}

func (h *Handler) findItem(w http.ResponseWriter, r *http.Request) (*repos.Item, bool) {
	id := chi.URLParam(r, "id")
	if !harmonia.IsIDType(id, harmonia.IDTypeItem) {
		respondBadRequest(w, "invalid item id")
		return nil, false
	}
	item, err := h.DB.Item().FindByID(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return nil, false
	}
	return item, true
}
