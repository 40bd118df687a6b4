// Package coalesce deduplicates concurrent operations per key: while an
// operation for a key is in flight, further calls for the same key wait for
// that operation instead of starting their own and receive the identical
// result. Once the operation settles the key is forgotten, so the next call
// starts fresh.
package coalesce

import "golang.org/x/sync/singleflight"

type Group[T any] struct {
	sf singleflight.Group
}

// Do executes fn, making sure only one execution is in flight for key at a
// time. All concurrent callers for the same key receive the result of the
// single execution.
func (g *Group[T]) Do(key string, fn func() (T, error)) (T, error) {
	v, err, _ := g.sf.Do(key, func() (any, error) {
		return fn()
	})
	if v == nil {
		var zero T
		return zero, err
	}
	return v.(T), err
}
