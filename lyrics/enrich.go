// Package lyrics implements the lyrics enrichment engine. It depends on
// the metadata engine: before searching it corrects the item's tags so
// queries use real titles and artists instead of file-derived junk.
package lyrics

import (
	"context"
	"fmt"
	"time"

	"github.com/juho05/log"

	harmonia "github.com/juho05/harmonia-server"
	"github.com/juho05/harmonia-server/coalesce"
	"github.com/juho05/harmonia-server/events"
	"github.com/juho05/harmonia-server/lrclib"
	"github.com/juho05/harmonia-server/match"
	"github.com/juho05/harmonia-server/repos"
	"github.com/juho05/harmonia-server/script"
	"github.com/juho05/harmonia-server/util"
)

// Result is a lyrics provider match.
type Result struct {
	Synced string
	Plain  string
}

// Provider fetches lyrics for an exact track signature. album may be empty
// and durationSeconds may be 0 to relax the match. Implementations return
// nil without error when nothing matches.
type Provider interface {
	Name() string
	Get(ctx context.Context, artist, title, album string, durationSeconds int) (*Result, error)
}

// LRCLibProvider adapts the LRCLIB API.
type LRCLibProvider struct {
	Client *lrclib.Client
}

func (p LRCLibProvider) Name() string {
	return "lrclib"
}

func (p LRCLibProvider) Get(ctx context.Context, artist, title, album string, durationSeconds int) (*Result, error) {
	lyrics, err := p.Client.Get(ctx, artist, title, album, durationSeconds)
	if err != nil {
		return nil, err
	}
	if lyrics == nil {
		return nil, nil
	}
	var result Result
	if lyrics.HasSynced() {
		result.Synced = *lyrics.SyncedLyrics
	}
	if lyrics.HasPlain() {
		result.Plain = *lyrics.PlainLyrics
	}
	if result.Synced == "" && result.Plain == "" {
		return nil, nil
	}
	return &result, nil
}

// MetadataEnricher corrects an item's tags before the lyrics search.
type MetadataEnricher interface {
	Enrich(ctx context.Context, itemID string, reason harmonia.Reason)
}

const (
	attemptCooldown = 5 * time.Minute
	searchBudget    = 30 * time.Second
	callTimeout     = 15 * time.Second
)

type Enricher struct {
	db         repos.DB
	metadata   MetadataEnricher
	store      *Store
	bus        *events.Bus
	normalizer script.Normalizer
	providers  []Provider

	group  coalesce.Group[struct{}]
	now    func() time.Time
	budget time.Duration
}

func NewEnricher(db repos.DB, metadata MetadataEnricher, store *Store, bus *events.Bus, normalizer script.Normalizer, providers ...Provider) *Enricher {
	return &Enricher{
		db:         db,
		metadata:   metadata,
		store:      store,
		bus:        bus,
		normalizer: normalizer,
		providers:  providers,
		now:        time.Now,
		budget:     searchBudget,
	}
}

// Enrich fetches lyrics for itemID. Concurrent calls for the same item
// share a single run. Errors are logged, not returned.
func (e *Enricher) Enrich(ctx context.Context, itemID string, reason harmonia.Reason) {
	_, _ = e.group.Do(itemID, func() (struct{}, error) {
		err := e.enrich(ctx, itemID, reason)
		if err != nil {
			log.Errorf("lyrics: enrich %s: %s", itemID, err)
		}
		return struct{}{}, nil
	})
}

func (e *Enricher) enrich(ctx context.Context, itemID string, reason harmonia.Reason) error {
	item, err := e.db.Item().FindByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("find item: %w", err)
	}

	// local-only mode disables the network search entirely, even for
	// manual and force requests
	mode, err := e.db.Setting().LyricsMode(ctx)
	if err != nil {
		return fmt.Errorf("load lyrics mode: %w", err)
	}
	if mode == repos.LyricsModeLocalOnly {
		log.Tracef("lyrics: skipping %s, local-only mode", itemID)
		return nil
	}

	// a recorded path without the file on disk counts as missing
	if item.LyricsPath != nil && e.store.Exists(item.ID) && reason != harmonia.ReasonForce {
		log.Tracef("lyrics: skipping %s, lyrics already present", itemID)
		return nil
	}
	if !reason.Bypass() && item.LastLyricsAttemptAt != nil && e.now().Sub(*item.LastLyricsAttemptAt) < attemptCooldown {
		log.Tracef("lyrics: skipping %s, last attempt within cooldown", itemID)
		return nil
	}

	// tags must be corrected before the search so the queries use real
	// titles instead of file-derived values
	e.metadata.Enrich(ctx, itemID, reason)
	item, err = e.db.Item().FindByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("re-read item: %w", err)
	}

	attemptAt := e.now()
	err = e.db.Item().Update(ctx, item.ID, repos.UpdateItemParams{
		LastLyricsAttemptAt: repos.NewOptionalFull(util.ToPtr(attemptAt)),
	})
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}

	title := item.Title
	if match.IsMissingTitle(title, item.Path) {
		title = match.FileBaseName(item.Path)
	}
	title = match.SanitizeQuery(title)
	if title == "" {
		return nil
	}
	artist := ""
	if !match.IsUnknown(item.Artist) {
		artist = match.SanitizeQuery(item.Artist)
	}
	// the provider lookup matches on the exact artist signature, so a
	// query without an artist can never succeed
	if artist == "" {
		log.Tracef("lyrics: skipping search for %s, artist unknown", itemID)
		return nil
	}
	album := ""
	if !match.IsUnknown(item.Album) {
		album = match.SanitizeQuery(item.Album)
	}

	result, source := e.search(ctx, artist, title, album, int(item.Duration.Seconds()))
	if result == nil {
		log.Tracef("lyrics: no match for %s (%s - %s)", itemID, artist, title)
		return nil
	}

	text := result.Synced
	if text == "" {
		text = result.Plain
	}
	text = script.NormalizeSimplified(e.normalizer, text)

	path, err := e.store.Save(item.ID, text)
	if err != nil {
		return fmt.Errorf("persist lyrics: %w", err)
	}
	err = e.db.Item().Update(ctx, item.ID, repos.UpdateItemParams{
		LyricsPath:          repos.NewOptionalFull(util.ToPtr(path)),
		LyricsSource:        repos.NewOptionalFull(util.ToPtr(source)),
		LastLyricsFetchedAt: repos.NewOptionalFull(util.ToPtr(attemptAt)),
	})
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	e.bus.Publish(events.Event{Type: events.TypeLyricsUpdated, ItemID: item.ID})
	log.Infof("lyrics: saved lyrics for %s from %s", item.ID, source)
	return nil
}

// search walks the fallback matrix until a provider returns synced lyrics.
// Plain lyrics are remembered as a fallback but the search keeps going in
// the hope of a synced match. The exhaustive walk stops once the budget is
// exceeded.
func (e *Enricher) search(ctx context.Context, artist, title, album string, durationSeconds int) (*Result, string) {
	attempts := buildAttempts(e.normalizer, artist, title, album, durationSeconds)

	var fallback *Result
	var fallbackSource string
	start := e.now()
	for _, a := range attempts {
		if e.now().Sub(start) > e.budget {
			log.Tracef("lyrics: search budget exceeded for %s - %s", artist, title)
			break
		}
		for _, p := range e.providers {
			callCtx, cancel := context.WithTimeout(ctx, callTimeout)
			result, err := p.Get(callCtx, a.Artist, a.Title, a.Album, a.Duration)
			cancel()
			if err != nil {
				log.Warnf("lyrics: provider %s: %s", p.Name(), err)
				continue
			}
			if result == nil {
				continue
			}
			if result.Synced != "" {
				return result, p.Name()
			}
			if fallback == nil && result.Plain != "" {
				fallback = result
				fallbackSource = p.Name()
			}
		}
	}
	return fallback, fallbackSource
}
