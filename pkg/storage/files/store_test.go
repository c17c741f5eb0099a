package files

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	key, err := store.Save([]byte("resume body"), "John_Resume.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotContains(t, key, "/")

	data, err := store.Load(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("resume body"), data)

	require.NoError(t, store.Delete(key))
	_, err = store.Load(key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete("no-such-key.pdf"))
}

func TestLoadRejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	for _, key := range []string{"", "../secrets", "a/b.pdf", `a\b.pdf`} {
		_, err := store.Load(key)
		assert.ErrorIs(t, err, ErrNotFound, "key %q", key)
	}
}

func TestKeysAreUniquePerSave(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	k1, err := store.Save([]byte("a"), "resume.pdf")
	require.NoError(t, err)
	k2, err := store.Save([]byte("b"), "resume.pdf")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}
