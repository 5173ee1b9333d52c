package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveAndExists(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	key, err := store.Save(context.Background(), "evidence.pdf", strings.NewReader("scan bytes"), 10)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(key, ".pdf"))

	data, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	require.Equal(t, "scan bytes", string(data))

	ok, err := store.Exists(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Exists(context.Background(), "missing.pdf")
	require.NoError(t, err)
	require.False(t, ok)

	// Two saves of the same filename never collide.
	key2, err := store.Save(context.Background(), "evidence.pdf", strings.NewReader("other"), 5)
	require.NoError(t, err)
	require.NotEqual(t, key, key2)
}
