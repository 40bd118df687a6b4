// Package metadata implements the metadata enrichment engine. Given a
// library item with missing or low-quality tags it queries external
// providers, decides per field whether the provider value should replace
// the current one and stores cover art for items without artwork.
package metadata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/juho05/log"

	harmonia "github.com/juho05/harmonia-server"
	"github.com/juho05/harmonia-server/coalesce"
	"github.com/juho05/harmonia-server/match"
	"github.com/juho05/harmonia-server/repos"
	"github.com/juho05/harmonia-server/script"
	"github.com/juho05/harmonia-server/util"
)

type Enricher struct {
	db         repos.DB
	store      *ArtworkStore
	fetcher    ArtworkFetcher
	normalizer script.Normalizer
	providers  []Provider

	group coalesce.Group[struct{}]
	now   func() time.Time
}

func NewEnricher(db repos.DB, store *ArtworkStore, normalizer script.Normalizer, providers ...Provider) *Enricher {
	return &Enricher{
		db:         db,
		store:      store,
		fetcher:    NewFetcher(),
		normalizer: normalizer,
		providers:  providers,
		now:        time.Now,
	}
}

// Enrich runs a metadata enrichment pass for itemID. Concurrent calls for
// the same item share a single run. Errors are logged, not returned:
// enrichment is opportunistic and must never fail its caller.
func (e *Enricher) Enrich(ctx context.Context, itemID string, reason harmonia.Reason) {
	_, _ = e.group.Do(itemID, func() (struct{}, error) {
		err := e.enrich(ctx, itemID, reason)
		if err != nil {
			log.Errorf("metadata: enrich %s: %s", itemID, err)
		}
		return struct{}{}, nil
	})
}

func (e *Enricher) enrich(ctx context.Context, itemID string, reason harmonia.Reason) error {
	item, err := e.db.Item().FindByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("find item: %w", err)
	}

	if !reason.Bypass() {
		if !needsEnrichment(item) {
			log.Tracef("metadata: skipping %s, nothing to enrich", itemID)
			return nil
		}
		interval, err := e.db.Setting().CacheInterval(ctx)
		if err != nil {
			return fmt.Errorf("load cache interval: %w", err)
		}
		if item.LastMetadataAttemptAt != nil && e.now().Sub(*item.LastMetadataAttemptAt) < interval {
			log.Tracef("metadata: skipping %s, last attempt within cache interval", itemID)
			return nil
		}
	}

	// the attempt is recorded before the network search so failed runs
	// respect the cache interval too
	attempt := e.now()
	err = e.db.Item().Update(ctx, item.ID, repos.UpdateItemParams{
		LastMetadataAttemptAt: repos.NewOptionalFull(util.ToPtr(attempt)),
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
	var artist *string
	if !match.IsUnknown(item.Artist) {
		if a := match.SanitizeQuery(item.Artist); a != "" {
			artist = &a
		}
	}

	result := e.search(ctx, title, artist)
	if result == nil {
		log.Tracef("metadata: no match for %s (%s)", itemID, title)
		return nil
	}

	threshold, err := e.db.Setting().CorrectionThreshold(ctx)
	if err != nil {
		return fmt.Errorf("load correction threshold: %w", err)
	}

	var params repos.UpdateItemParams
	changed := false
	if c := e.candidate(result.Title); c != "" && c != item.Title && match.ShouldOverwrite(item.Title, c, item.Path, reason, threshold) {
		params.Title = repos.NewOptionalFull(c)
		changed = true
	} else if c == "" && match.IsMissingTitle(item.Title, item.Path) {
		// a provider match without a title still means the file base
		// name is the best title we have
		if base := e.candidate(match.FileBaseName(item.Path)); base != "" && base != item.Title {
			params.Title = repos.NewOptionalFull(base)
			changed = true
		}
	}
	if c := e.candidate(result.Artist); c != "" && c != item.Artist && match.ShouldOverwrite(item.Artist, c, "", reason, threshold) {
		params.Artist = repos.NewOptionalFull(c)
		changed = true
	}
	if c := e.candidate(result.Album); c != "" && c != item.Album && match.ShouldOverwrite(item.Album, c, "", reason, threshold) {
		params.Album = repos.NewOptionalFull(c)
		changed = true
	}

	// existing artwork is never replaced, not even on force
	urlMemo := false
	if !item.HasArtwork && result.ArtworkURL != "" {
		// the URL is remembered even when the download fails so a later
		// run can retry without a new provider search, but the memo on
		// its own does not count as an enrichment
		if !util.EqPtrVals(item.ArtworkURL, &result.ArtworkURL) {
			params.ArtworkURL = repos.NewOptionalFull(util.ToPtr(result.ArtworkURL))
			urlMemo = true
		}
		err := e.storeArtwork(ctx, item.ID, result.ArtworkURL)
		if err != nil {
			log.Warnf("metadata: artwork for %s: %s", item.ID, err)
		} else {
			params.HasArtwork = repos.NewOptionalFull(true)
			changed = true
		}
	}

	if !changed && !urlMemo {
		log.Tracef("metadata: nothing to update for %s", itemID)
		return nil
	}
	if changed {
		params.LastEnrichedAt = repos.NewOptionalFull(util.ToPtr(attempt))
		params.MetadataSource = repos.NewOptionalFull(util.ToPtr(result.Source))
	}
	err = e.db.Item().Update(ctx, item.ID, params)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if changed {
		log.Infof("metadata: enriched %s from %s", item.ID, result.Source)
	}
	return nil
}

func needsEnrichment(item *repos.Item) bool {
	return match.IsMissingTitle(item.Title, item.Path) ||
		match.IsUnknown(item.Artist) ||
		match.IsUnknown(item.Album) ||
		!item.HasArtwork
}

// search asks each provider in order and returns the first usable result.
// Provider failures only disqualify that provider.
func (e *Enricher) search(ctx context.Context, title string, artist *string) *Result {
	for _, p := range e.providers {
		result, err := p.Search(ctx, title, artist)
		if err != nil {
			log.Warnf("metadata: provider %s: %s", p.Name(), err)
			continue
		}
		if result == nil || result.empty() {
			continue
		}
		result.Source = p.Name()
		return result
	}
	return nil
}

// candidate prepares a provider value for comparison and storage: trimmed
// and converted to simplified Chinese when it is predominantly traditional.
func (e *Enricher) candidate(value string) string {
	return script.NormalizeSimplified(e.normalizer, strings.TrimSpace(value))
}

func (e *Enricher) storeArtwork(ctx context.Context, itemID, url string) error {
	if e.store.Exists(itemID) {
		return nil
	}
	data, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	return e.store.Save(itemID, data)
}
