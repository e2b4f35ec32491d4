package twofactor_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofactor/core/twofactor"
	"github.com/dmitrymomot/twofactor/core/twofactor/storetest"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rec := &twofactor.Record{
		OwnerID:       "user-1",
		Secret:        "JBSWY3DPEHPK3PXP",
		RecoveryCodes: []string{"h1", "h2", "h3"},
		CreatedAt:     time.Unix(1700000000, 0).UTC(),
	}

	t.Run("load missing", func(t *testing.T) {
		t.Parallel()
		store := twofactor.NewMemoryStore()
		_, err := store.Load(ctx, "user-1")
		assert.ErrorIs(t, err, twofactor.ErrNotFound)
	})

	t.Run("save and load copy", func(t *testing.T) {
		t.Parallel()
		store := twofactor.NewMemoryStore()
		require.NoError(t, store.Save(ctx, rec))

		got, err := store.Load(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, rec, got)

		got.RecoveryCodes[0] = "mutated"
		again, err := store.Load(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "h1", again.RecoveryCodes[0])
	})

	t.Run("save requires owner", func(t *testing.T) {
		t.Parallel()
		store := twofactor.NewMemoryStore()
		assert.ErrorIs(t, store.Save(ctx, &twofactor.Record{}), twofactor.ErrInvalidOwner)
		assert.ErrorIs(t, store.Save(ctx, nil), twofactor.ErrInvalidOwner)
	})

	t.Run("remove is idempotent and keeps order", func(t *testing.T) {
		t.Parallel()
		store := twofactor.NewMemoryStore()
		require.NoError(t, store.Save(ctx, rec))

		removed, err := store.RemoveRecoveryCode(ctx, "user-1", "h2")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = store.RemoveRecoveryCode(ctx, "user-1", "h2")
		require.NoError(t, err)
		assert.False(t, removed)

		got, err := store.Load(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"h1", "h3"}, got.RecoveryCodes)

		removed, err = store.RemoveRecoveryCode(ctx, "nobody", "h1")
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		store := twofactor.NewMemoryStore()
		require.NoError(t, store.Save(ctx, rec))
		assert.Equal(t, 1, store.Len())

		require.NoError(t, store.Delete(ctx, "user-1"))
		require.NoError(t, store.Delete(ctx, "user-1"))
		assert.Zero(t, store.Len())
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		store := twofactor.NewMemoryStore()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.Load(cctx, "user-1")
		assert.ErrorIs(t, err, context.Canceled)
		_, err = store.RemoveRecoveryCode(cctx, "user-1", "h1")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("concurrent removal has one winner", func(t *testing.T) {
		t.Parallel()
		store := twofactor.NewMemoryStore()
		require.NoError(t, store.Save(ctx, rec))

		var (
			wg   sync.WaitGroup
			wins atomic.Int32
		)
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				removed, err := store.RemoveRecoveryCode(ctx, "user-1", "h1")
				assert.NoError(t, err)
				if removed {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}

func TestMemoryStore_Conformance(t *testing.T) {
	t.Parallel()
	var n atomic.Int64
	storetest.Run(t, twofactor.NewMemoryStore(), func() string {
		return fmt.Sprintf("owner-%d", n.Add(1))
	})
}
