// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with read/write/sync capabilities
//   - [FileSystem]: the operations used for atomic container writes and
//     scratch files (create temp, rename, remove)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// Tests can inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".ssm", fs.Fault{FailOnSync: true, FailAfterBytes: -1})
//	// inject ffs into component under test
//
// This package intentionally does NOT include context.Context parameters.
// Filesystem operations are fast and non-interruptible at the syscall level.
// For remote storage use [blobstore.BlobStore], which has context support.
package fs
