package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	// 1. Create a blob
	blobName := "models/femur.ssm"
	data := []byte("hello world, this is a test blob for shapego")

	w, err := store.Create(ctx, blobName)
	require.NoError(t, err)

	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	// Not visible before Close
	_, err = os.Stat(filepath.Join(tmpDir, "models", "femur.ssm"))
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, w.Close())

	_, err = os.Stat(filepath.Join(tmpDir, "models", "femur.ssm"))
	require.NoError(t, err)

	// 2. Open and ReadAt
	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err = blob.ReadAt(ctx, buf, 6) // "world"
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	// 3. ReadRange (clamped to size)
	rangeReader, err := blob.ReadRange(ctx, int64(len(data))-7, 100)
	require.NoError(t, err)
	rangeContent, err := io.ReadAll(rangeReader)
	require.NoError(t, err)
	require.NoError(t, rangeReader.Close())
	require.Equal(t, "shapego", string(rangeContent))

	// 4. Put + List
	require.NoError(t, store.Put(ctx, "models/tibia.ssm", []byte("x")))
	require.NoError(t, store.Put(ctx, "other.bin", []byte("y")))

	names, err := store.List(ctx, "models/")
	require.NoError(t, err)
	require.Equal(t, []string{"models/femur.ssm", "models/tibia.ssm"}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	// 5. ReadAll
	got, err := ReadAll(ctx, store, "models/tibia.ssm")
	require.NoError(t, err)
	require.Equal(t, []byte("x"), got)

	// 6. Delete (idempotent)
	require.NoError(t, store.Delete(ctx, "other.bin"))
	require.NoError(t, store.Delete(ctx, "other.bin"))
	_, err = store.Open(ctx, "other.bin")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBlobStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abcdef")
	require.NoError(t, store.Put(ctx, "a", data))
	data[0] = 'z' // store keeps its own copy

	got, err := ReadAll(ctx, store, "a")
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(got))

	w, err := store.Create(ctx, "b")
	require.NoError(t, err)
	_, err = w.Write([]byte("streamed"))
	require.NoError(t, err)
	_, err = store.Open(ctx, "b")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, w.Close())

	blob, err := store.Open(ctx, "b")
	require.NoError(t, err)
	buf := make([]byte, 4)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)
	require.Equal(t, "ed", string(buf[:n]))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = ReadAll(ctx, store, "a")
	require.ErrorIs(t, err, ErrNotFound)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, store.Put(cctx, "c", nil), context.Canceled)
}
