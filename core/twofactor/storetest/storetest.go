// Package storetest holds a conformance suite for twofactor.Store implementations.
package storetest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofactor/core/twofactor"
)

// Run exercises store against the Store contract. newOwner must return an
// owner id that no other test uses, so the suite can share a database.
func Run(t *testing.T, store twofactor.Store, newOwner func() string) {
	t.Helper()
	ctx := context.Background()

	record := func(owner string, codes ...string) *twofactor.Record {
		return &twofactor.Record{
			OwnerID:       owner,
			Secret:        "JBSWY3DPEHPK3PXP",
			RecoveryCodes: codes,
			CreatedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		}
	}

	t.Run("load missing returns ErrNotFound", func(t *testing.T) {
		_, err := store.Load(ctx, newOwner())
		assert.ErrorIs(t, err, twofactor.ErrNotFound)
	})

	t.Run("save then load keeps code order", func(t *testing.T) {
		owner := newOwner()
		want := record(owner, "c3", "a1", "b2")
		require.NoError(t, store.Save(ctx, want))

		got, err := store.Load(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, want.OwnerID, got.OwnerID)
		assert.Equal(t, want.Secret, got.Secret)
		assert.Equal(t, want.RecoveryCodes, got.RecoveryCodes)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("save replaces the whole record", func(t *testing.T) {
		owner := newOwner()
		require.NoError(t, store.Save(ctx, record(owner, "old1", "old2")))

		next := record(owner, "new1")
		next.Secret = "KRUGS4ZANFZSAYJA"
		require.NoError(t, store.Save(ctx, next))

		got, err := store.Load(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, "KRUGS4ZANFZSAYJA", got.Secret)
		assert.Equal(t, []string{"new1"}, got.RecoveryCodes)
	})

	t.Run("record without codes", func(t *testing.T) {
		owner := newOwner()
		require.NoError(t, store.Save(ctx, record(owner)))

		got, err := store.Load(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, got.RecoveryCodes)
	})

	t.Run("remove recovery code is idempotent", func(t *testing.T) {
		owner := newOwner()
		require.NoError(t, store.Save(ctx, record(owner, "a", "b", "c")))

		removed, err := store.RemoveRecoveryCode(ctx, owner, "b")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = store.RemoveRecoveryCode(ctx, owner, "b")
		require.NoError(t, err)
		assert.False(t, removed)

		got, err := store.Load(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c"}, got.RecoveryCodes)

		removed, err = store.RemoveRecoveryCode(ctx, newOwner(), "a")
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("concurrent removal has exactly one winner", func(t *testing.T) {
		owner := newOwner()
		require.NoError(t, store.Save(ctx, record(owner, "x", "y")))

		var (
			wg   sync.WaitGroup
			wins atomic.Int32
		)
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				removed, err := store.RemoveRecoveryCode(ctx, owner, "x")
				assert.NoError(t, err)
				if removed {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})

	t.Run("replace recovery codes keeps the secret", func(t *testing.T) {
		owner := newOwner()
		orig := record(owner, "a", "b")
		require.NoError(t, store.Save(ctx, orig))

		replaced, err := store.ReplaceRecoveryCodes(ctx, owner, []string{"z", "y", "x"})
		require.NoError(t, err)
		assert.True(t, replaced)

		got, err := store.Load(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, orig.Secret, got.Secret)
		assert.True(t, orig.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, []string{"z", "y", "x"}, got.RecoveryCodes)

		removed, err := store.RemoveRecoveryCode(ctx, owner, "a")
		require.NoError(t, err)
		assert.False(t, removed)

		replaced, err = store.ReplaceRecoveryCodes(ctx, owner, nil)
		require.NoError(t, err)
		assert.True(t, replaced)
		got, err = store.Load(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, got.RecoveryCodes)
	})

	t.Run("replace recovery codes never recreates a deleted record", func(t *testing.T) {
		owner := newOwner()
		require.NoError(t, store.Save(ctx, record(owner, "a")))
		require.NoError(t, store.Delete(ctx, owner))

		replaced, err := store.ReplaceRecoveryCodes(ctx, owner, []string{"n1", "n2"})
		require.NoError(t, err)
		assert.False(t, replaced)

		_, err = store.Load(ctx, owner)
		assert.ErrorIs(t, err, twofactor.ErrNotFound)

		replaced, err = store.ReplaceRecoveryCodes(ctx, newOwner(), []string{"n1"})
		require.NoError(t, err)
		assert.False(t, replaced)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		owner := newOwner()
		require.NoError(t, store.Save(ctx, record(owner, "a")))

		require.NoError(t, store.Delete(ctx, owner))
		require.NoError(t, store.Delete(ctx, owner))

		_, err := store.Load(ctx, owner)
		assert.ErrorIs(t, err, twofactor.ErrNotFound)

		removed, err := store.RemoveRecoveryCode(ctx, owner, "a")
		require.NoError(t, err)
		assert.False(t, removed)
	})
}
