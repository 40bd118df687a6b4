package mockdb

import (
	"context"

	"github.com/juho05/harmonia-server/repos"
)

type ItemRepository struct {
	FindByIDMock        func(ctx context.Context, id string) (*repos.Item, error)
	FindByIDsMock       func(ctx context.Context, ids []string) ([]*repos.Item, error)
	FindBySearchMock    func(ctx context.Context, params repos.ItemFindBySearchParams) ([]*repos.Item, error)
	FindArtistNamesMock func(ctx context.Context) ([]string, error)
	CreateMock          func(ctx context.Context, params repos.CreateItemParams) (*repos.Item, error)
	UpdateMock          func(ctx context.Context, id string, params repos.UpdateItemParams) error
}

func (i ItemRepository) FindByID(ctx context.Context, id string) (*repos.Item, error) {
	return i.FindByIDMock(ctx, id)
}

func (i ItemRepository) FindByIDs(ctx context.Context, ids []string) ([]*repos.Item, error) {
	return i.FindByIDsMock(ctx, ids)
}

func (i ItemRepository) FindBySearch(ctx context.Context, params repos.ItemFindBySearchParams) ([]*repos.Item, error) {
	return i.FindBySearchMock(ctx, params)
}

func (i ItemRepository) FindArtistNames(ctx context.Context) ([]string, error) {
	return i.FindArtistNamesMock(ctx)
}

func (i ItemRepository) Create(ctx context.Context, params repos.CreateItemParams) (*repos.Item, error) {
	return i.CreateMock(ctx, params)
}

func (i ItemRepository) Update(ctx context.Context, id string, params repos.UpdateItemParams) error {
	return i.UpdateMock(ctx, id, params)
}
