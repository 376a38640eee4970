// Package blobstore provides the storage abstraction for model containers.
//
// BlobStore is the interface for reading and writing opaque blobs, keyed by
// name. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and dry runs
//   - LocalStore: local filesystem, atomic writes via temp file and rename
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Usage
//
//	store := blobstore.NewLocalStore("/var/lib/models")
//	err := shapego.SaveToStore(ctx, store, "femur.ssm", rep)
//	rep, err := shapego.LoadFromStore(ctx, store, "femur.ssm")
//
// ReadAll is a convenience for fetching a whole blob in one call.
package blobstore
