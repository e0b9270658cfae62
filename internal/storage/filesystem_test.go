package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreWrite(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)

	path, err := store.Write(context.Background(), "exports/merch-mockup-1.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "exports", "merch-mockup-1.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	entries, err := os.ReadDir(filepath.Join(root, "exports"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a.png", want: "a.png"},
		{in: "/abs/a.png", want: "abs/a.png"},
		{in: `dir\a.png`, want: "dir/a.png"},
		{in: "./x/../a.png", want: "a.png"},
		{in: "../escape.png", wantErr: true},
		{in: "..", wantErr: true},
		{in: "  ", wantErr: true},
	}
	for _, tc := range tests {
		got, err := sanitizeKey(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidKey, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestFileStoreRejectsCanceledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Write(ctx, "a.png", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
