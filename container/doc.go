// Package container implements the hierarchical model container that
// representers are saved to and loaded from.
//
// A container is a tree of groups holding typed datasets: strings, integers,
// float64 matrices, uint32 matrices and opaque byte blobs. Datasets and
// groups can carry integer attributes.
//
//	root := container.NewRoot()
//	g, _ := root.CreateGroup("representer")
//	_ = g.WriteString("datasetType", "POLYGON_MESH")
//	_ = g.WriteMatrix("points", mat.NewDense(3, n, coords))
//	_ = g.WriteIntAttribute("points", "datatype", 11)
//
// Paths are relative to the group they are resolved against; "./" prefixes
// and nested "a/b" segments are accepted.
//
// # File Format
//
// A container file is a 32-byte [FileHeader] followed by the payload. The
// payload may be compressed with LZ4 or ZSTD and is protected by a CRC32
// checksum that also covers the size fields of the header.
//
//	container.SaveToFile("model.ssm", root, container.WithCompression(container.CompressionZSTD))
//	root, err := container.LoadFromFile("model.ssm")
//
// [Put] and [Get] store containers in any blobstore.BlobStore.
package container
