package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	data := []byte("certificate scan bytes")
	ref, err := store.Store(t.Context(), data)
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	got, err := store.Fetch(t.Context(), ref)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLocalStore_FetchUnknownRef(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Fetch(t.Context(), "no-such-ref")
	require.Error(t, err)
}

func TestLocalStore_RejectsPathTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, ref := range []string{"../secrets", "a/b", "..", "nested/../../etc/passwd"} {
		_, err := store.Fetch(t.Context(), ref)
		require.Error(t, err, ref)
		assert.Contains(t, err.Error(), "invalid artifact ref")
	}
}

func TestHash(t *testing.T) {
	hashes := Hash([]byte("hello"))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", hashes.MD5)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", hashes.SHA256)
}
