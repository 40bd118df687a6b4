package repos

import "github.com/nullism/bqb"

type Paginate struct {
	Offset int
	Limit  *int
}

func (p Paginate) Apply(q *bqb.Query) {
	if p.Offset > 0 {
		q.Space("OFFSET ?", p.Offset)
	}
	if p.Limit != nil {
		q.Space("LIMIT ?", max(*p.Limit, 0))
	}
}

type Optional[T any] struct {
	value    T
	hasValue bool
}

func NewOptional[T any](value T, hasValue bool) Optional[T] {
	return Optional[T]{
		value:    value,
		hasValue: hasValue,
	}
}

func NewOptionalFull[T any](value T) Optional[T] {
	return Optional[T]{
		value:    value,
		hasValue: true,
	}
}

func NewOptionalEmpty[T any]() Optional[T] {
	return Optional[T]{
		hasValue: false,
	}
}

func (o Optional[T]) HasValue() bool {
	return o.hasValue
}

func (o Optional[T]) Get() any {
	if !o.HasValue() {
		return nil
	}
	return o.value
}

// GetOrZero returns the contained value or the zero value of T
// if o is empty.
func (o Optional[T]) GetOrZero() T {
	return o.value
}

type OptionalGetter interface {
	HasValue() bool
	Get() any
}
