// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("models/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = shapego.SaveToStore(ctx, store, "femur.ssm", rep)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads through the SDK upload manager
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
