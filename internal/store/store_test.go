package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreBehaviour runs the contract every Store implementation must meet.
func testStoreBehaviour(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("SaveFindRoundTrip", func(t *testing.T) {
		s := newStore(t)
		original := []byte("Hello, world!")

		require.NoError(t, s.Save(ctx, "test", original))

		got, ok, err := s.Find(ctx, "test")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, original, got)
	})

	t.Run("FindMissingReturnsAbsent", func(t *testing.T) {
		s := newStore(t)

		got, ok, err := s.Find(ctx, "test")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("EmptyBlobIsPresent", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Save(ctx, "test", []byte{}))

		got, ok, err := s.Find(ctx, "test")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Empty(t, got)
	})

	t.Run("BinaryBlobRoundTrip", func(t *testing.T) {
		s := newStore(t)
		original := []byte{0x00, 0xff, 0x7f, 0x80, 0x0a, 0x00}

		require.NoError(t, s.Save(ctx, "bin", original))

		got, ok, err := s.Find(ctx, "bin")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, original, got)
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Save(ctx, "test", []byte("first")))
		require.NoError(t, s.Save(ctx, "test", []byte("second")))

		got, ok, err := s.Find(ctx, "test")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("IdsAreIndependent", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Save(ctx, "a", []byte("alpha")))
		require.NoError(t, s.Save(ctx, "b", []byte("beta")))
		require.NoError(t, s.Remove(ctx, "a"))

		_, ok, err := s.Find(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)

		got, ok, err := s.Find(ctx, "b")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("beta"), got)
	})

	t.Run("RemoveDeletes", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Save(ctx, "test", []byte("Hello, world!")))
		require.NoError(t, s.Remove(ctx, "test"))

		_, ok, err := s.Find(ctx, "test")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RemoveMissingIsNoop", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Remove(ctx, "ghost"))
	})

	t.Run("EmptyIDFails", func(t *testing.T) {
		s := newStore(t)

		assert.ErrorIs(t, s.Save(ctx, "", []byte{}), ErrInvalidID)

		_, _, err := s.Find(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidID)

		assert.ErrorIs(t, s.Remove(ctx, ""), ErrInvalidID)
	})

	t.Run("CallerMutationsDoNotLeak", func(t *testing.T) {
		s := newStore(t)
		data := []byte("original")

		require.NoError(t, s.Save(ctx, "test", data))
		data[0] = 'X'

		got, ok, err := s.Find(ctx, "test")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("original"), got)

		got[0] = 'Y'
		again, _, err := s.Find(ctx, "test")
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), again)
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		s := newStore(t)
		const goroutines = 20

		var wg sync.WaitGroup
		wg.Add(goroutines * 2)

		for i := 0; i < goroutines; i++ {
			go func(idx int) {
				defer wg.Done()
				_ = s.Save(ctx, fmt.Sprintf("conc-%d", idx), []byte(fmt.Sprintf("blob-%d", idx)))
			}(i)
		}
		for i := 0; i < goroutines; i++ {
			go func(idx int) {
				defer wg.Done()
				// Find may miss if the blob hasn't been saved yet; that's fine.
				_, _, _ = s.Find(ctx, fmt.Sprintf("conc-%d", idx))
			}(i)
		}
		wg.Wait()

		for i := 0; i < goroutines; i++ {
			got, ok, err := s.Find(ctx, fmt.Sprintf("conc-%d", i))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []byte(fmt.Sprintf("blob-%d", i)), got)
		}
	})
}
