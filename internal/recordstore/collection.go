package recordstore

import (
	"context"
	"encoding/json"
	"errors"

	dErrors "sahayak/pkg/domain-errors"
)

// Collection is a typed view over one KV key holding a JSON array of records.
// Load of a missing key yields an empty slice; Save rewrites the whole array
// in one atomic key write.
type Collection[T any] struct {
	kv  KV
	key string
}

func NewCollection[T any](kv KV, key string) *Collection[T] {
	return &Collection[T]{kv: kv, key: key}
}

// Key returns the underlying collection key.
func (c *Collection[T]) Key() string {
	return c.key
}

func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read collection "+c.key)
	}
	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to decode collection "+c.key)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode collection "+c.key)
	}
	if err := c.kv.Set(ctx, c.key, string(raw)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write collection "+c.key)
	}
	return nil
}

func (c *Collection[T]) Clear(ctx context.Context) error {
	if err := c.kv.Delete(ctx, c.key); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear collection "+c.key)
	}
	return nil
}
