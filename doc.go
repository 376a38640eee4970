// Package shapego bridges statistical shape models and geometric datasets.
//
// A statistical model works on flat numeric vectors. A Representer fixes a
// reference dataset with a stable point numbering, turns datasets into
// sample vectors aligned to that reference and back, and persists the
// reference inside a model container.
//
// # Quick Start
//
//	ref, _ := geometry.ReadVTKFile("reference.vtk")
//	rep, _ := shapego.NewMeshRepresenter(ref, shapego.WithAlignment(shapego.AlignRigid))
//
//	v, _ := rep.DatasetToSampleVector(instance)   // len(v) == 3 * rep.NumberOfPoints()
//	shape, _ := rep.SampleVectorToSample(v)       // copy of ref with v's coordinates
//
// # Vector Layout
//
// Coordinate d of point i lives at offset MapPointIDToInternalIdx(i, d),
// which is i*3+d. Every stored model depends on this layout.
//
// # Representer Kinds
//
//   - MeshRepresenter writes points, cells and attribute tables as separate
//     container nodes (datasetType "POLYGON_MESH").
//   - PolyDataRepresenter embeds the reference as a legacy VTK file
//     (datasetType "POLYDATA_FILE").
//
// Load picks the kind from the container:
//
//	rep, _ := shapego.LoadFile("model.ssm")
//	err := shapego.SaveFile("model.ssm", rep, container.WithCompression(container.CompressionZSTD))
//
// # Alignment
//
// With an alignment mode other than AlignNone, every dataset is registered
// onto the reference with a rigid, similarity or affine landmark transform
// before it is vectorized. WithLandmarks restricts the estimate to a subset
// of points.
//
// # Concurrency
//
// Conversions only read the reference, so one Representer can serve many
// goroutines. DatasetsToSampleMatrix converts a batch in parallel.
package shapego
