package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIKeyService(t *testing.T) {
	t.Run("with keys", func(t *testing.T) {
		svc, err := NewAPIKeyService([]string{"key-one", "key-two"})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("without keys", func(t *testing.T) {
		svc, err := NewAPIKeyService(nil)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestAPIKeyService_Verify(t *testing.T) {
	svc, err := NewAPIKeyService([]string{"key-one", "key-two"})
	require.NoError(t, err)

	t.Run("registered keys verify", func(t *testing.T) {
		assert.True(t, svc.Verify("key-one"))
		assert.True(t, svc.Verify("key-two"))
	})

	t.Run("unknown key fails", func(t *testing.T) {
		assert.False(t, svc.Verify("key-three"))
	})

	t.Run("empty key fails", func(t *testing.T) {
		assert.False(t, svc.Verify(""))
	})

	t.Run("repeated verification uses the cache", func(t *testing.T) {
		// First call populates the fingerprint cache, second hits it.
		assert.True(t, svc.Verify("key-one"))
		assert.True(t, svc.Verify("key-one"))
	})

	t.Run("concurrent verification", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.True(t, svc.Verify("key-one"))
				assert.False(t, svc.Verify("unknown"))
			}()
		}
		wg.Wait()
	})

	t.Run("no registered keys rejects everything", func(t *testing.T) {
		empty, err := NewAPIKeyService(nil)
		require.NoError(t, err)
		assert.False(t, empty.Verify("key-one"))
	})
}
