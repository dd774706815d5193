// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/evdnx/tachart/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises the Store contract against s, which must start empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "preset:missing")
	assert.ErrorIs(t, err, store.ErrNotFound, "Get on missing key")
	assert.ErrorIs(t, s.Delete(ctx, "preset:missing"), store.ErrNotFound, "Delete on missing key")

	require.NoError(t, s.Set(ctx, "preset:b", []byte(`{"v":1}`)))
	require.NoError(t, s.Set(ctx, "preset:a", []byte(`{"v":2}`)))
	require.NoError(t, s.Set(ctx, "other:x", []byte("x")))
	require.NoError(t, s.Set(ctx, "preset:b", []byte(`{"v":3}`)), "overwrite")

	got, err := s.Get(ctx, "preset:b")
	require.NoError(t, err)
	assert.Equal(t, `{"v":3}`, string(got))

	keys, err := s.Keys(ctx, "preset:")
	require.NoError(t, err)
	assert.Equal(t, []string{"preset:a", "preset:b"}, keys)

	require.NoError(t, s.Delete(ctx, "preset:a"))
	_, err = s.Get(ctx, "preset:a")
	assert.ErrorIs(t, err, store.ErrNotFound, "Get after Delete")

	// assert, not require: require must not be called off the test goroutine.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("conc:%d", i)
			assert.NoError(t, s.Set(ctx, key, []byte(key)), "concurrent Set")
		}(i)
	}
	wg.Wait()
	keys, err = s.Keys(ctx, "conc:")
	require.NoError(t, err)
	assert.Len(t, keys, 8)
}
