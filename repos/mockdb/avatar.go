package mockdb

import (
	"context"

	"github.com/juho05/harmonia-server/repos"
)

type AvatarRepository struct {
	FindByKeyMock   func(ctx context.Context, key string) (*repos.ArtistAvatar, error)
	FindByKeysMock  func(ctx context.Context, keys []string) ([]*repos.ArtistAvatar, error)
	UpsertMock      func(ctx context.Context, params repos.UpsertAvatarParams) error
	SetLockedMock   func(ctx context.Context, key, artistName string, locked bool) error
	DeleteByKeyMock func(ctx context.Context, key string) error
}

func (a AvatarRepository) FindByKey(ctx context.Context, key string) (*repos.ArtistAvatar, error) {
	return a.FindByKeyMock(ctx, key)
}

func (a AvatarRepository) FindByKeys(ctx context.Context, keys []string) ([]*repos.ArtistAvatar, error) {
	return a.FindByKeysMock(ctx, keys)
}

func (a AvatarRepository) Upsert(ctx context.Context, params repos.UpsertAvatarParams) error {
	return a.UpsertMock(ctx, params)
}

func (a AvatarRepository) SetLocked(ctx context.Context, key, artistName string, locked bool) error {
	return a.SetLockedMock(ctx, key, artistName, locked)
}

func (a AvatarRepository) DeleteByKey(ctx context.Context, key string) error {
	return a.DeleteByKeyMock(ctx, key)
}
