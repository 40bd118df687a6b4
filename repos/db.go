package repos

import "context"

type Tx interface {
	Item() ItemRepository
	Avatar() AvatarRepository
	Setting() SettingRepository
}

type Transaction interface {
	Tx
	Commit() error
	Rollback() error
}

type DB interface {
	Tx
	Transaction(ctx context.Context, fn func(tx Tx) error) error

	NewTransaction(ctx context.Context) (Transaction, error)

	Close() error
}
