package shapego

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/shapego/container"
	"github.com/hupe1980/shapego/geometry"
	"github.com/hupe1980/shapego/testutil"
)

// emptyColumns is a rows×0 matrix, which mat.NewDense cannot build.
type emptyColumns struct{ rows int }

func (m emptyColumns) Dims() (int, int)    { return m.rows, 0 }
func (m emptyColumns) At(_, _ int) float64 { panic(mat.ErrIndexOutOfRange) }
func (m emptyColumns) T() mat.Matrix       { return mat.Transpose{Matrix: m} }

func saveToGroup(t *testing.T, rep Representer) *container.Group {
	t.Helper()
	g := container.NewRoot()
	require.NoError(t, rep.Save(g))
	return g
}

func TestMeshRepresenter_SaveLoadTriangle(t *testing.T) {
	rep, err := NewMeshRepresenter(testutil.Triangle())
	require.NoError(t, err)

	g := saveToGroup(t, rep)
	name, err := g.ReadString("name")
	require.NoError(t, err)
	assert.Equal(t, MeshRepresenterName, name)
	version, err := g.ReadString("version")
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, version)

	rows, cols, err := g.MatrixShape("points")
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)

	cells, err := g.ReadUintMatrix("cells")
	require.NoError(t, err)
	k, m := cells.Dims()
	assert.Equal(t, 3, k)
	assert.Equal(t, 1, m)

	tag, err := g.ReadIntAttribute("pointData/scalars", "datatype")
	require.NoError(t, err)
	assert.Equal(t, int64(geometry.DataTypeFloat), tag)

	loaded, err := LoadMeshRepresenter(g)
	require.NoError(t, err)
	ref := loaded.Reference()

	assert.Equal(t, 3, loaded.NumberOfPoints())
	require.Len(t, ref.Polys, 1)
	assert.Len(t, ref.Polys[0], 3)
	require.NotNil(t, ref.PointData.Scalars)
	assert.Equal(t, geometry.DataTypeFloat, ref.PointData.Scalars.Type)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, ref.PointData.Scalars.Values, 1e-9)
	assert.Equal(t, AlignNone, loaded.Alignment())
}

func fullReference() *geometry.Dataset {
	d := testutil.UnitSquare()
	d.Polys = []geometry.Cell{{0, 1, 2}, {0, 2, 3}}

	table := func(dt geometry.DataType, comps int, vals ...float64) *geometry.AttributeTable {
		t, err := geometry.NewAttributeTable(dt, comps, vals)
		if err != nil {
			panic(err)
		}
		return t
	}
	d.PointData.Scalars = table(geometry.DataTypeLong, 1, -4, 1<<40, 3, 4)
	d.PointData.Vectors = table(geometry.DataTypeDouble, 3, 1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1)
	d.PointData.Normals = table(geometry.DataTypeFloat, 3, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1)
	d.CellData.Scalars = table(geometry.DataTypeUnsignedChar, 2, 7, 8, 250, 3)
	d.CellData.Normals = table(geometry.DataTypeDouble, 3, 0, 0, 1, 0, 0, -1)
	return d
}

func TestMeshRepresenter_AttributeRoundTrip(t *testing.T) {
	ref := fullReference()
	rep, err := NewMeshRepresenter(ref, WithAlignment(AlignSimilarity), WithLandmarks(0, 2))
	require.NoError(t, err)

	loaded, err := LoadMeshRepresenter(saveToGroup(t, rep))
	require.NoError(t, err)

	got := loaded.Reference()
	assert.Equal(t, ref.Points, got.Points)
	assert.Equal(t, ref.Polys, got.Polys)
	assert.Empty(t, got.Lines)
	for _, kind := range geometry.AttributeKinds {
		for _, pair := range [][2]*geometry.Attributes{{&ref.PointData, &got.PointData}, {&ref.CellData, &got.CellData}} {
			want, have := pair[0].Get(kind), pair[1].Get(kind)
			if want == nil {
				assert.Nil(t, have, kind.String())
				continue
			}
			require.NotNil(t, have, kind.String())
			assert.Equal(t, want.Type, have.Type)
			assert.Equal(t, want.Components, have.Components)
			assert.InDeltaSlice(t, want.Values, have.Values, 1e-9)
		}
	}

	// Cell attributes land in cell data, not point data.
	assert.Equal(t, geometry.DataTypeUnsignedChar, got.CellData.Scalars.Type)
	assert.Equal(t, AlignSimilarity, loaded.Alignment())
	assert.Equal(t, []uint32{0, 2}, loaded.Landmarks())
}

func TestMeshRepresenter_Lines(t *testing.T) {
	rep, err := NewMeshRepresenter(testutil.Polyline(4))
	require.NoError(t, err)

	loaded, err := LoadMeshRepresenter(saveToGroup(t, rep))
	require.NoError(t, err)

	ref := loaded.Reference()
	assert.Len(t, ref.Lines, 3)
	assert.Empty(t, ref.Polys)
}

func TestMeshRepresenter_PointsOnly(t *testing.T) {
	ref := geometry.NewDatasetFromPoints(testutil.NewRNG(2).UniformPoints(7, 0, 1))
	rep, err := NewMeshRepresenter(ref)
	require.NoError(t, err)

	g := saveToGroup(t, rep)
	assert.False(t, g.Exists("cells"))

	loaded, err := LoadMeshRepresenter(g)
	require.NoError(t, err)
	assert.Equal(t, ref.Points, loaded.Reference().Points)
	assert.Zero(t, loaded.Reference().NumberOfCells())
}

func TestMeshRepresenter_EmptyReference(t *testing.T) {
	rep, err := NewMeshRepresenter(geometry.NewDataset())
	require.NoError(t, err)

	loaded, err := LoadMeshRepresenter(saveToGroup(t, rep))
	require.NoError(t, err)
	assert.Zero(t, loaded.NumberOfPoints())

	v, err := loaded.DatasetToSampleVector(geometry.NewDataset())
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestMeshRepresenter_MixedArity(t *testing.T) {
	ref := testutil.UnitSquare()
	ref.Polys = []geometry.Cell{{0, 1, 2}, {0, 1, 2, 3}}
	rep, err := NewMeshRepresenter(ref)
	require.NoError(t, err)

	err = rep.Save(container.NewRoot())
	assert.ErrorIs(t, err, ErrNonUniformCells)
}

func TestLoadMeshRepresenter_Errors(t *testing.T) {
	valid := func(t *testing.T) *container.Group {
		rep, err := NewMeshRepresenter(testutil.Triangle())
		require.NoError(t, err)
		return saveToGroup(t, rep)
	}

	t.Run("wrong dataset type", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.Remove("datasetType"))
		require.NoError(t, g.WriteString("datasetType", "IMAGE"))
		_, err := LoadMeshRepresenter(g)
		assert.ErrorIs(t, err, ErrWrongDatasetType)
	})

	t.Run("missing dataset type", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.Remove("datasetType"))
		_, err := LoadMeshRepresenter(g)
		assert.ErrorIs(t, err, container.ErrNotFound)
	})

	t.Run("missing points", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.Remove("points"))
		_, err := LoadMeshRepresenter(g)
		assert.ErrorIs(t, err, container.ErrNotFound)
	})

	t.Run("points wrong kind", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.Remove("points"))
		require.NoError(t, g.WriteString("points", "nope"))
		_, err := LoadMeshRepresenter(g)
		assert.ErrorIs(t, err, container.ErrTypeMismatch)
	})

	t.Run("points wrong shape", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.Remove("points"))
		require.NoError(t, g.WriteMatrix("points", mat.NewDense(2, 3, nil)))
		_, err := LoadMeshRepresenter(g)
		var dm *ErrDimensionMismatch
		assert.ErrorAs(t, err, &dm)
	})

	t.Run("points without columns", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.Remove("points"))
		require.NoError(t, g.WriteMatrix("points", emptyColumns{rows: 5}))
		_, err := LoadMeshRepresenter(g)
		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 5, dm.Actual)
	})

	t.Run("unknown datatype tag", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.WriteIntAttribute("pointData/scalars", "datatype", 99))
		_, err := LoadMeshRepresenter(g)
		var ut *geometry.UnsupportedDataTypeError
		require.ErrorAs(t, err, &ut)
		assert.Equal(t, int64(99), ut.Tag)
	})

	t.Run("missing datatype tag", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.Remove("pointData/scalars"))
		require.NoError(t, g.WriteMatrix("pointData/scalars", mat.NewDense(1, 3, nil)))
		_, err := LoadMeshRepresenter(g)
		assert.ErrorIs(t, err, container.ErrNotFound)
	})

	t.Run("cell out of range", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.Remove("cells"))
		require.NoError(t, g.WriteUintMatrix("cells", container.NewUintMatrix(3, 1, []uint32{0, 1, 9})))
		_, err := LoadMeshRepresenter(g)
		assert.ErrorIs(t, err, geometry.ErrInvalidCell)
	})

	t.Run("attribute count mismatch", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.Remove("pointData/scalars"))
		require.NoError(t, g.WriteMatrix("pointData/scalars", mat.NewDense(1, 2, nil)))
		require.NoError(t, g.WriteIntAttribute("pointData/scalars", "datatype", 10))
		_, err := LoadMeshRepresenter(g)
		assert.ErrorIs(t, err, geometry.ErrInvalidAttribute)
	})

	t.Run("unknown alignment", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.Remove("alignment"))
		require.NoError(t, g.WriteInt("alignment", 5))
		_, err := LoadMeshRepresenter(g)
		var me *ModelError
		assert.ErrorAs(t, err, &me)
	})

	t.Run("missing alignment defaults to none", func(t *testing.T) {
		g := valid(t)
		require.NoError(t, g.Remove("alignment"))
		rep, err := LoadMeshRepresenter(g)
		require.NoError(t, err)
		assert.Equal(t, AlignNone, rep.Alignment())
	})
}
