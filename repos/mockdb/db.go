package mockdb

import (
	"context"

	"github.com/juho05/harmonia-server/repos"
)

type DB struct {
	ItemRepository    ItemRepository
	AvatarRepository  AvatarRepository
	SettingRepository SettingRepository

	TransactionMock    func(ctx context.Context, fn func(tx repos.Tx) error) error
	NewTransactionMock func(ctx context.Context) (repos.Transaction, error)
	CommitMock         func() error
	RollbackMock       func() error
	CloseMock          func() error
}

func (d *DB) Item() repos.ItemRepository {
	return d.ItemRepository
}

func (d *DB) Avatar() repos.AvatarRepository {
	return d.AvatarRepository
}

func (d *DB) Setting() repos.SettingRepository {
	return d.SettingRepository
}

func (d *DB) Transaction(ctx context.Context, fn func(tx repos.Tx) error) error {
	if d.TransactionMock != nil {
		return d.TransactionMock(ctx, fn)
	}
	return fn(d)
}

func (d *DB) NewTransaction(ctx context.Context) (repos.Transaction, error) {
	if d.NewTransactionMock != nil {
		return d.NewTransactionMock(ctx)
	}
	return d, nil
}

func (d *DB) Commit() error {
	if d.CommitMock != nil {
		return d.CommitMock()
	}
	return nil
}

func (d *DB) Rollback() error {
	if d.RollbackMock != nil {
		return d.RollbackMock()
	}
	return nil
}

func (d *DB) Close() error {
	if d.CloseMock != nil {
		return d.CloseMock()
	}
	return nil
}
