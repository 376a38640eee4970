// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works against MinIO and other S3-compatible storage systems such as
// Ceph, SeaweedFS and Garage, without pulling in the AWS SDK.
//
// # Basic Usage
//
//	store, err := minio.New(ctx, minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "models",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = shapego.SaveToStore(ctx, store, "femur.ssm", rep)
//
// An existing *minio.Client can be wrapped with NewStore.
package minio
