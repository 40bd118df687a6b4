package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/juho05/log"

	"github.com/juho05/harmonia-server/artistimg"
	"github.com/juho05/harmonia-server/config"
	"github.com/juho05/harmonia-server/events"
	"github.com/juho05/harmonia-server/handlers"
	"github.com/juho05/harmonia-server/itunes"
	"github.com/juho05/harmonia-server/lastfm"
	"github.com/juho05/harmonia-server/lrclib"
	"github.com/juho05/harmonia-server/lyrics"
	"github.com/juho05/harmonia-server/metadata"
	"github.com/juho05/harmonia-server/musicbrainz"
	"github.com/juho05/harmonia-server/repos/postgres"
	"github.com/juho05/harmonia-server/script"
)

func run(cfg config.Config) error {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := postgres.NewDB(dsn, cfg.AutoMigrate)
	if err != nil {
		return err
	}
	defer db.Close()

	var normalizer script.Normalizer
	normalizer, err = script.NewOpenCC()
	if err != nil {
		log.Warnf("chinese script conversion unavailable: %s", err)
		normalizer = script.Passthrough{}
	}

	covers, err := metadata.NewArtworkStore(cfg.DataDir)
	if err != nil {
		return err
	}
	lyricsStore, err := lyrics.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}
	artistStore, err := artistimg.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}

	itunesClient := itunes.NewClient(cfg.ITunesURL)
	musicbrainzClient := musicbrainz.NewClient(cfg.MusicBrainzURL)
	lrclibClient := lrclib.NewClient(cfg.LrcLibURL)
	lastfmClient := lastfm.New(cfg.LastFMApiKey)

	bus := events.NewBus()
	metadataEnricher := metadata.NewEnricher(db, covers, normalizer,
		metadata.ITunesProvider{Client: itunesClient},
		metadata.MusicBrainzProvider{Client: musicbrainzClient},
	)
	lyricsEnricher := lyrics.NewEnricher(db, metadataEnricher, lyricsStore, bus, normalizer,
		lyrics.LRCLibProvider{Client: lrclibClient},
	)
	artistImages := artistimg.NewService(db, artistStore, itunesClient, lastfmClient)

	handler := handlers.New(db, metadataEnricher, lyricsEnricher, artistImages, covers, lyricsStore, bus)

	server := http.Server{
		Addr:     cfg.ListenAddr,
		Handler:  handler,
		ErrorLog: log.NewStdLogger(log.ERROR),
	}

	closed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		timeout, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
		log.Info("Shutting down...")
		server.Shutdown(timeout)
		cancelTimeout()
		close(closed)
	}()

	log.Infof("Listening on http://%s...", cfg.ListenAddr)
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	if err == nil {
		<-closed
	}
	return err
}

func main() {
	godotenv.Load()
	cfg, errs := config.Load(os.Environ())
	if len(errs) > 0 {
		for _, err := range errs {
			log.Errorf("config: %s", err)
		}
		os.Exit(1)
	}

	log.SetSeverity(cfg.LogLevel)
	if cfg.LogFile != nil {
		log.SetOutput(cfg.LogFile)
		defer cfg.LogFile.Close()
	}

	err := run(cfg)
	if err != nil {
		log.Fatalf("ERROR: %s", err)
	}
	log.Info("Shutdown complete.")
}
