package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shapego/geometry"
	"github.com/hupe1980/shapego/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeReference(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "reference.vtk")
	require.NoError(t, geometry.WriteVTKFile(p, testutil.UnitSquare()))
	return p
}

func TestPackInspect(t *testing.T) {
	for _, kind := range []string{"mesh", "polydata"} {
		t.Run(kind, func(t *testing.T) {
			dir := t.TempDir()
			ref := writeReference(t, dir)
			model := filepath.Join(dir, "model.ssm")

			_, err := execute(t, "pack", "--kind", kind, "--alignment", "rigid", "--compression", "lz4", ref, model)
			require.NoError(t, err)

			out, err := execute(t, "inspect", model)
			require.NoError(t, err)

			var report struct {
				Representer struct {
					DatasetType string `json:"datasetType"`
					Alignment   string `json:"alignment"`
					Points      int    `json:"points"`
					Cells       int    `json:"cells"`
					Dimensions  int    `json:"dimensions"`
				} `json:"representer"`
				Container struct {
					Name     string `json:"name"`
					Children []struct {
						Name string `json:"name"`
					} `json:"children"`
				} `json:"container"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &report))
			assert.Equal(t, "rigid", report.Representer.Alignment)
			assert.Equal(t, 4, report.Representer.Points)
			assert.Equal(t, 1, report.Representer.Cells)
			assert.Equal(t, 12, report.Representer.Dimensions)
			assert.Equal(t, "/", report.Container.Name)
			require.Len(t, report.Container.Children, 1)
			assert.Equal(t, "representer", report.Container.Children[0].Name)
		})
	}
}

func TestPack_Errors(t *testing.T) {
	dir := t.TempDir()
	ref := writeReference(t, dir)
	model := filepath.Join(dir, "model.ssm")

	_, err := execute(t, "pack", "--kind", "voxels", ref, model)
	assert.Error(t, err)

	_, err = execute(t, "pack", "--alignment", "shear", ref, model)
	assert.Error(t, err)

	_, err = execute(t, "pack", "--compression", "brotli", ref, model)
	assert.Error(t, err)

	_, err = execute(t, "pack", "--alignment", "rigid", "--landmarks", "0,9", ref, model)
	assert.Error(t, err)

	_, err = execute(t, "pack", "--landmarks", "4294967296", ref, model)
	assert.ErrorContains(t, err, "out of range")

	_, err = execute(t, "pack", filepath.Join(dir, "missing.vtk"), model)
	assert.Error(t, err)

	_, err = os.Stat(model)
	assert.True(t, os.IsNotExist(err))
}

func TestVectorizeReconstruct(t *testing.T) {
	dir := t.TempDir()
	ref := writeReference(t, dir)
	model := filepath.Join(dir, "model.ssm")
	_, err := execute(t, "pack", "--landmarks", "0,1,2", ref, model)
	require.NoError(t, err)

	out, err := execute(t, "vectorize", model, ref)
	require.NoError(t, err)

	fields := strings.Fields(out)
	require.Len(t, fields, 12)
	want := []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		require.NoError(t, err)
		assert.Equal(t, want[i], v, "value %d", i)
	}

	// Shift every x coordinate by 2 and rebuild the dataset.
	for i := 0; i < len(want); i += 3 {
		want[i] += 2
	}
	var vec bytes.Buffer
	require.NoError(t, writeVector(&vec, want))
	vecPath := filepath.Join(dir, "vector.txt")
	require.NoError(t, os.WriteFile(vecPath, vec.Bytes(), 0o644))

	outPath := filepath.Join(dir, "shifted.vtk")
	_, err = execute(t, "reconstruct", model, vecPath, outPath)
	require.NoError(t, err)

	shifted, err := geometry.ReadVTKFile(outPath)
	require.NoError(t, err)
	expected := testutil.UnitSquare()
	for i := range expected.Points {
		expected.Points[i] = expected.Points[i].Add(r3.Vector{X: 2})
	}
	assert.InDelta(t, 0, testutil.MaxPointDistance(expected.Points, shifted.Points), 1e-12)
	assert.Equal(t, expected.Polys, shifted.Polys)
}

func TestReconstruct_BadVector(t *testing.T) {
	dir := t.TempDir()
	ref := writeReference(t, dir)
	model := filepath.Join(dir, "model.ssm")
	_, err := execute(t, "pack", ref, model)
	require.NoError(t, err)

	short := filepath.Join(dir, "short.txt")
	require.NoError(t, os.WriteFile(short, []byte("1 2 3\n"), 0o644))
	_, err = execute(t, "reconstruct", model, short, filepath.Join(dir, "out.vtk"))
	assert.Error(t, err)

	junk := filepath.Join(dir, "junk.txt")
	require.NoError(t, os.WriteFile(junk, []byte("1 two 3\n"), 0o644))
	_, err = execute(t, "reconstruct", model, junk, filepath.Join(dir, "out.vtk"))
	assert.ErrorContains(t, err, "value 1")
}

func TestReadVector(t *testing.T) {
	v, err := readVector(strings.NewReader("1 2.5\n-3e2\t4\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, -300, 4}, v)

	v, err = readVector(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, v)
}
