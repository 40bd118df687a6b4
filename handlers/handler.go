// Package handlers exposes the enrichment engines over a JSON HTTP API.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/juho05/harmonia-server/artistimg"
	"github.com/juho05/harmonia-server/events"
	"github.com/juho05/harmonia-server/lyrics"
	"github.com/juho05/harmonia-server/metadata"
	"github.com/juho05/harmonia-server/repos"
)

type Handler struct {
	router chi.Router

	DB           repos.DB
	Metadata     *metadata.Enricher
	Lyrics       *lyrics.Enricher
	ArtistImages *artistimg.Service
	Covers       *metadata.ArtworkStore
	LyricsStore  *lyrics.Store
	Events       *events.Bus
}

func New(db repos.DB, metadataEnricher *metadata.Enricher, lyricsEnricher *lyrics.Enricher, artistImages *artistimg.Service, covers *metadata.ArtworkStore, lyricsStore *lyrics.Store, bus *events.Bus) *Handler {
	h := &Handler{
		DB:           db,
		Metadata:     metadataEnricher,
		Lyrics:       lyricsEnricher,
		ArtistImages: artistImages,
		Covers:       covers,
		LyricsStore:  lyricsStore,
		Events:       bus,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.handleSearchItems)
			r.Post("/", h.handleCreateItem)
			r.Post("/enrich", h.handleEnrichBatch)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.handleGetItem)
				r.Get("/artwork", h.handleGetArtwork)
				r.Get("/lyrics", h.handleGetLyrics)
				r.Post("/enrich/metadata", h.handleEnrichMetadata)
				r.Post("/enrich/lyrics", h.handleEnrichLyrics)
			})
		})
		r.Route("/artists", func(r chi.Router) {
			r.Post("/refresh-images", h.handleRefreshArtistImages)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/image", h.handleGetArtistImage)
				r.Delete("/image", h.handleDeleteArtistImage)
				r.Get("/image/candidates", h.handleGetArtistImageCandidates)
				r.Put("/image/locked", h.handleSetArtistImageLocked)
			})
		})
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handleUpdateSettings)
		r.Get("/events", h.handleEvents)
	})

	h.router = r
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middleware.StripSlashes(h.router).ServeHTTP(w, r)
}
