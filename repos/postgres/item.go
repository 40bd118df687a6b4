package postgres

import (
	"context"

	harmonia "github.com/juho05/harmonia-server"
	"github.com/juho05/harmonia-server/repos"
	"github.com/nullism/bqb"
)

type itemRepository struct {
	db executer
}

func (i itemRepository) FindByID(ctx context.Context, id string) (*repos.Item, error) {
	q := bqb.New("SELECT items.* FROM items WHERE items.id = ?", id)
	return getQuery[*repos.Item](ctx, i.db, q)
}

func (i itemRepository) FindByIDs(ctx context.Context, ids []string) ([]*repos.Item, error) {
	if len(ids) == 0 {
		return []*repos.Item{}, nil
	}
	q := bqb.New("SELECT items.* FROM items WHERE items.id IN (?)", ids)
	return selectQuery[*repos.Item](ctx, i.db, q)
}

func (i itemRepository) FindBySearch(ctx context.Context, params repos.ItemFindBySearchParams) ([]*repos.Item, error) {
	q := bqb.New("SELECT items.* FROM items")
	if params.Query != "" {
		conditions, orderBy := genSearch(params.Query, "items.title", "items.title")
		q = bqb.New("? WHERE ? ORDER BY ?", q, conditions, orderBy)
	} else {
		q.Space("ORDER BY lower(items.title)")
	}
	params.Paginate.Apply(q)
	return selectQuery[*repos.Item](ctx, i.db, q)
}

func (i itemRepository) FindArtistNames(ctx context.Context) ([]string, error) {
	q := bqb.New("SELECT DISTINCT items.artist FROM items WHERE items.artist <> '' ORDER BY items.artist")
	return selectQuery[string](ctx, i.db, q)
}

func (i itemRepository) Create(ctx context.Context, params repos.CreateItemParams) (*repos.Item, error) {
	q := bqb.New(`INSERT INTO items
		(id, path, title, artist, album, duration_ms, has_artwork, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, false, NOW(), NOW())
		RETURNING items.*`,
		harmonia.GenIDItem(), params.Path, params.Title, params.Artist, params.Album, params.Duration)
	return getQuery[*repos.Item](ctx, i.db, q)
}

func (i itemRepository) Update(ctx context.Context, id string, params repos.UpdateItemParams) error {
	updateList, empty := genUpdateList(map[string]repos.OptionalGetter{
		"title":                    params.Title,
		"artist":                   params.Artist,
		"album":                    params.Album,
		"has_artwork":              params.HasArtwork,
		"artwork_url":              params.ArtworkURL,
		"metadata_source":          params.MetadataSource,
		"last_enriched_at":         params.LastEnrichedAt,
		"last_metadata_attempt_at": params.LastMetadataAttemptAt,
		"lyrics_path":              params.LyricsPath,
		"lyrics_source":            params.LyricsSource,
		"last_lyrics_fetched_at":   params.LastLyricsFetchedAt,
		"last_lyrics_attempt_at":   params.LastLyricsAttemptAt,
	}, true)
	if empty {
		return nil
	}
	q := bqb.New("UPDATE items SET ? WHERE id = ?", updateList, id)
	return executeQueryExpectAffectedRows(ctx, i.db, q)
}
