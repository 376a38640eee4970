// Package testutil provides fixtures and random generators for tests.
//
// This package is intended for use in tests and benchmarks only.
//
// # Fixtures
//
//	sq := testutil.UnitSquare() // 4 points, one quad
//	tri := testutil.Triangle()  // 3 points, float point scalars
//
// # Random Geometry
//
//	rng := testutil.NewRNG(seed)
//	mesh := rng.Mesh(50)
//	moved := rng.RandomTransform(true).ApplyAll(mesh.Points)
package testutil
