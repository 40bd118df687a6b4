package repos

import (
	"context"
	"time"
)

// models

// Item is a single library record. Title, artist and album may hold
// placeholder values from the import step until an enrichment run
// replaces them.
type Item struct {
	ID       string     `db:"id"`
	Path     string     `db:"path"`
	Title    string     `db:"title"`
	Artist   string     `db:"artist"`
	Album    string     `db:"album"`
	Duration DurationMS `db:"duration_ms"`

	HasArtwork bool    `db:"has_artwork"`
	ArtworkURL *string `db:"artwork_url"`

	MetadataSource        *string    `db:"metadata_source"`
	LastEnrichedAt        *time.Time `db:"last_enriched_at"`
	LastMetadataAttemptAt *time.Time `db:"last_metadata_attempt_at"`

	LyricsPath          *string    `db:"lyrics_path"`
	LyricsSource        *string    `db:"lyrics_source"`
	LastLyricsFetchedAt *time.Time `db:"last_lyrics_fetched_at"`
	LastLyricsAttemptAt *time.Time `db:"last_lyrics_attempt_at"`

	Created time.Time `db:"created"`
	Updated time.Time `db:"updated"`
}

// params

type CreateItemParams struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration DurationMS
}

type UpdateItemParams struct {
	Title      Optional[string]
	Artist     Optional[string]
	Album      Optional[string]
	HasArtwork Optional[bool]
	ArtworkURL Optional[*string]

	MetadataSource        Optional[*string]
	LastEnrichedAt        Optional[*time.Time]
	LastMetadataAttemptAt Optional[*time.Time]

	LyricsPath          Optional[*string]
	LyricsSource        Optional[*string]
	LastLyricsFetchedAt Optional[*time.Time]
	LastLyricsAttemptAt Optional[*time.Time]
}

type ItemFindBySearchParams struct {
	Query string
	Paginate
}

type ItemRepository interface {
	FindByID(ctx context.Context, id string) (*Item, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Item, error)
	FindBySearch(ctx context.Context, params ItemFindBySearchParams) ([]*Item, error)
	// FindArtistNames returns the distinct artist names of all items,
	// excluding empty names.
	FindArtistNames(ctx context.Context) ([]string, error)
	Create(ctx context.Context, params CreateItemParams) (*Item, error)
	Update(ctx context.Context, id string, params UpdateItemParams) error
}
