package shapego

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shapego/blobstore"
	"github.com/hupe1980/shapego/container"
	"github.com/hupe1980/shapego/testutil"
)

func TestLoad_Dispatch(t *testing.T) {
	for name, rep := range representers(t, testutil.Triangle(), WithAlignment(AlignRigid)) {
		t.Run(name, func(t *testing.T) {
			loaded, err := Load(saveToGroup(t, rep))
			require.NoError(t, err)
			assert.IsType(t, rep, loaded)
			assert.Equal(t, rep.Reference().Points, loaded.Reference().Points)
			assert.Equal(t, AlignRigid, loaded.Alignment())
		})
	}

	g := container.NewRoot()
	require.NoError(t, g.WriteString("datasetType", "IMAGE"))
	_, err := Load(g)
	assert.ErrorIs(t, err, ErrWrongDatasetType)

	_, err = Load(container.NewRoot())
	assert.ErrorIs(t, err, container.ErrNotFound)
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()

	for name, rep := range representers(t, fullReference()) {
		for _, ct := range []container.CompressionType{container.CompressionNone, container.CompressionLZ4} {
			t.Run(name+"/"+ct.String(), func(t *testing.T) {
				path := filepath.Join(dir, name+"-"+ct.String()+".ssm")
				require.NoError(t, SaveFile(path, rep, container.WithCompression(ct)))

				metrics := &BasicMetricsCollector{}
				loaded, err := LoadFile(path, WithMetricsCollector(metrics))
				require.NoError(t, err)
				assert.Equal(t, rep.Name(), loaded.Name())
				assert.Equal(t, rep.Reference().Points, loaded.Reference().Points)
				assert.Equal(t, int64(1), metrics.GetStats().LoadCount)
			})
		}
	}

	_, err := LoadFile(filepath.Join(dir, "missing.ssm"))
	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.ssm")
	rep, err := NewMeshRepresenter(testutil.Triangle())
	require.NoError(t, err)
	require.NoError(t, SaveFile(path, rep))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-3] ^= 0x5a
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = LoadFile(path)
	assert.True(t, container.IsChecksumMismatch(err), "got %v", err)
}

func TestLoadModelContainer_MissingGroup(t *testing.T) {
	_, err := LoadModelContainer(container.NewRoot())
	assert.ErrorIs(t, err, container.ErrNotFound)
}

func TestSaveLoadStore(t *testing.T) {
	ctx := context.Background()
	stores := map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	}
	rep, err := NewMeshRepresenter(testutil.Triangle(), WithAlignment(AlignSimilarity))
	require.NoError(t, err)

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, SaveToStore(ctx, store, "models/triangle.ssm", rep, container.WithCompression(container.CompressionLZ4)))

			loaded, err := LoadFromStore(ctx, store, "models/triangle.ssm")
			require.NoError(t, err)
			assert.Equal(t, rep.Reference(), loaded.Reference())
			assert.Equal(t, AlignSimilarity, loaded.Alignment())

			_, err = LoadFromStore(ctx, store, "models/missing.ssm")
			assert.ErrorIs(t, err, blobstore.ErrNotFound)
		})
	}
}
