package minio

import (
	"context"
	"io"
	"testing"

	"github.com/hupe1980/shapego/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{Endpoint: "localhost:9000"})
	require.Error(t, err)
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, Config{
		Endpoint:     "localhost:9000",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Bucket:       "test-shapego",
		Prefix:       "test-prefix/",
		CreateBucket: true,
	})
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Put and Open
	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.ssm", data))

	blob, err := store.Open(ctx, "test.ssm")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)

	// ReadRange
	rc, err := blob.ReadRange(ctx, 6, 5)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	// ReadAll
	all, err := blobstore.ReadAll(ctx, store, "test.ssm")
	require.NoError(t, err)
	assert.Equal(t, data, all)

	// List
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.ssm")

	// Delete
	require.NoError(t, store.Delete(ctx, "test.ssm"))
	_, err = store.Open(ctx, "test.ssm")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	// Create (streaming)
	wb, err := store.Create(ctx, "stream.ssm")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	blob3, err := store.Open(ctx, "stream.ssm")
	require.NoError(t, err)
	assert.Equal(t, int64(13), blob3.Size())
	require.NoError(t, blob3.Close())

	_ = store.Delete(ctx, "stream.ssm")
}
