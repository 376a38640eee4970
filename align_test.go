package shapego

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shapego/geometry"
	"github.com/hupe1980/shapego/testutil"
)

func TestAlignment_Identity(t *testing.T) {
	ref := testutil.NewRNG(5).Mesh(30)

	for _, mode := range []AlignmentMode{AlignRigid, AlignSimilarity, AlignAffine} {
		t.Run(mode.String(), func(t *testing.T) {
			plain, err := NewMeshRepresenter(ref)
			require.NoError(t, err)
			aligned, err := NewMeshRepresenter(ref, WithAlignment(mode))
			require.NoError(t, err)

			want, err := plain.DatasetToSampleVector(ref)
			require.NoError(t, err)
			got, err := aligned.DatasetToSampleVector(ref)
			require.NoError(t, err)

			assert.InDeltaSlice(t, want, got, 1e-9)
		})
	}
}

func TestAlignment_RemovesPose(t *testing.T) {
	rng := testutil.NewRNG(9)
	ref := rng.Mesh(50)

	cases := []struct {
		mode      AlignmentMode
		withScale bool
	}{
		{AlignRigid, false},
		{AlignSimilarity, true},
		{AlignAffine, true},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			moved := ref.Clone()
			moved.Points = rng.RandomTransform(tc.withScale).ApplyAll(ref.Points)

			rep, err := NewMeshRepresenter(ref, WithAlignment(tc.mode))
			require.NoError(t, err)

			sample, err := rep.DatasetToSample(moved)
			require.NoError(t, err)
			assert.Less(t, testutil.MaxPointDistance(ref.Points, sample.Points), 1e-8)

			v, err := rep.DatasetToSampleVector(moved)
			require.NoError(t, err)
			back, err := rep.SampleVectorToSample(v)
			require.NoError(t, err)
			assert.Less(t, testutil.MaxPointDistance(ref.Points, back.Points), 1e-8)

			// The caller's dataset is untouched.
			assert.Greater(t, testutil.MaxPointDistance(ref.Points, moved.Points), 1e-3)
		})
	}
}

func TestAlignment_LandmarksIgnoreOutliers(t *testing.T) {
	rng := testutil.NewRNG(21)
	ref := rng.Mesh(20)
	xf := rng.RandomTransform(false)

	moved := ref.Clone()
	moved.Points = xf.ApplyAll(ref.Points)
	// Displace the last five points far away after the pose change.
	for i := 15; i < 20; i++ {
		moved.Points[i] = moved.Points[i].Add(r3.Vector{X: 50, Y: -30, Z: 10})
	}

	landmarks := make([]uint32, 15)
	for i := range landmarks {
		landmarks[i] = uint32(i)
	}

	withLm, err := NewMeshRepresenter(ref, WithAlignment(AlignRigid), WithLandmarks(landmarks...))
	require.NoError(t, err)
	sample, err := withLm.DatasetToSample(moved)
	require.NoError(t, err)
	assert.Less(t, testutil.MaxPointDistance(ref.Points[:15], sample.Points[:15]), 1e-8)
	assert.Equal(t, landmarks, withLm.Landmarks())

	allPoints, err := NewMeshRepresenter(ref, WithAlignment(AlignRigid))
	require.NoError(t, err)
	skewed, err := allPoints.DatasetToSample(moved)
	require.NoError(t, err)
	assert.Greater(t, testutil.MaxPointDistance(ref.Points[:15], skewed.Points[:15]), 1e-3)
	assert.Nil(t, allPoints.Landmarks())
}

func TestAlignment_PointCountMismatch(t *testing.T) {
	rep, err := NewMeshRepresenter(testutil.Triangle(), WithAlignment(AlignRigid))
	require.NoError(t, err)

	_, err = rep.DatasetToSampleVector(testutil.UnitSquare())
	var pc *ErrPointCountMismatch
	require.ErrorAs(t, err, &pc)
	assert.True(t, pc.Exact)
	assert.Equal(t, 3, pc.Expected)
	assert.Equal(t, 4, pc.Actual)
}

func TestAlignment_Degenerate(t *testing.T) {
	rep, err := NewMeshRepresenter(testutil.UnitSquare(), WithAlignment(AlignAffine))
	require.NoError(t, err)

	// Four coplanar points do not determine an affine transform.
	_, err = rep.DatasetToSampleVector(testutil.UnitSquare())
	assert.ErrorIs(t, err, geometry.ErrDegenerateLandmarks)
}

func TestParseAlignmentMode(t *testing.T) {
	for _, m := range []AlignmentMode{AlignNone, AlignRigid, AlignSimilarity, AlignAffine} {
		got, err := ParseAlignmentMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseAlignmentMode("projective")
	assert.Error(t, err)

	assert.Equal(t, AlignmentMode(6), AlignRigid)
	assert.Equal(t, AlignmentMode(7), AlignSimilarity)
	assert.Equal(t, AlignmentMode(12), AlignAffine)
}
