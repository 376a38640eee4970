// Package geometry provides the native dataset type handled by shapego
// representers: a 3-D point set with optional line or polygon topology and
// optional point and cell attributes.
//
// # Datasets
//
//	ds := geometry.NewDatasetFromPoints([]r3.Vector{{X: 0}, {X: 1}, {Y: 1}})
//	ds.Polys = []geometry.Cell{{0, 1, 2}}
//
// Cells are numbered lines first, then polygons. Attribute tables carry an
// element type tag ([DataType]) whose numeric value is stable across files.
//
// # Supporting Algorithms
//
//   - [Locator]: k-d tree nearest-point lookup
//   - [LandmarkTransform]: rigid, similarity or affine fit between point sets
//   - [ReadVTK] / [WriteVTK]: legacy ASCII VTK POLYDATA codec
package geometry
