package repos

import (
	"context"
	"time"
)

// ArtistAvatar stores the chosen image for an artist, keyed by the
// normalized artist name. Locked avatars were picked by the user and are
// never replaced by automatic refreshes.
type ArtistAvatar struct {
	ArtistKey  string    `db:"artist_key"`
	ArtistName string    `db:"artist_name"`
	ImagePath  *string   `db:"image_path"`
	Source     string    `db:"source"`
	SourceID   *string   `db:"source_id"`
	Locked     bool      `db:"locked"`
	Updated    time.Time `db:"updated"`
}

type UpsertAvatarParams struct {
	ArtistKey  string
	ArtistName string
	ImagePath  *string
	Source     string
	SourceID   *string
	Locked     bool
}

type AvatarRepository interface {
	FindByKey(ctx context.Context, key string) (*ArtistAvatar, error)
	FindByKeys(ctx context.Context, keys []string) ([]*ArtistAvatar, error)
	Upsert(ctx context.Context, params UpsertAvatarParams) error
	SetLocked(ctx context.Context, key, artistName string, locked bool) error
	DeleteByKey(ctx context.Context, key string) error
}
