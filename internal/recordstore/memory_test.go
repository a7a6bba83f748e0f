package recordstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryKVGetMissingKey(t *testing.T) {
	kv := NewInMemoryKV()
	_, err := kv.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryKVSetGetDelete(t *testing.T) {
	kv := NewInMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", `[{"id":1}]`))
	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, v)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryKVConcurrentAccess(t *testing.T) {
	kv := NewInMemoryKV()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = kv.Set(ctx, "k", "v")
		}()
		go func() {
			defer wg.Done()
			_, _ = kv.Get(ctx, "k")
		}()
	}
	wg.Wait()
}
