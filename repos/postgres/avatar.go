package postgres

import (
	"context"

	"github.com/juho05/harmonia-server/repos"
	"github.com/nullism/bqb"
)

type avatarRepository struct {
	db executer
}

func (a avatarRepository) FindByKey(ctx context.Context, key string) (*repos.ArtistAvatar, error) {
	q := bqb.New("SELECT artist_avatars.* FROM artist_avatars WHERE artist_avatars.artist_key = ?", key)
	return getQuery[*repos.ArtistAvatar](ctx, a.db, q)
}

func (a avatarRepository) FindByKeys(ctx context.Context, keys []string) ([]*repos.ArtistAvatar, error) {
	if len(keys) == 0 {
		return []*repos.ArtistAvatar{}, nil
	}
	q := bqb.New("SELECT artist_avatars.* FROM artist_avatars WHERE artist_avatars.artist_key IN (?)", keys)
	return selectQuery[*repos.ArtistAvatar](ctx, a.db, q)
}

func (a avatarRepository) Upsert(ctx context.Context, params repos.UpsertAvatarParams) error {
	q := bqb.New(`INSERT INTO artist_avatars
		(artist_key, artist_name, image_path, source, source_id, locked, updated)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
		ON CONFLICT (artist_key) DO UPDATE SET
		artist_name = EXCLUDED.artist_name, image_path = EXCLUDED.image_path, source = EXCLUDED.source,
		source_id = EXCLUDED.source_id, locked = EXCLUDED.locked, updated = NOW()`,
		params.ArtistKey, params.ArtistName, params.ImagePath, params.Source, params.SourceID, params.Locked)
	return executeQuery(ctx, a.db, q)
}

func (a avatarRepository) SetLocked(ctx context.Context, key, artistName string, locked bool) error {
	q := bqb.New(`INSERT INTO artist_avatars
		(artist_key, artist_name, source, locked, updated)
		VALUES (?, ?, 'locked', ?, NOW())
		ON CONFLICT (artist_key) DO UPDATE SET locked = EXCLUDED.locked, updated = NOW()`,
		key, artistName, locked)
	return executeQuery(ctx, a.db, q)
}

func (a avatarRepository) DeleteByKey(ctx context.Context, key string) error {
	return executeQuery(ctx, a.db, bqb.New("DELETE FROM artist_avatars WHERE artist_key = ?", key))
}
