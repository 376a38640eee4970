package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hupe1980/shapego"
	"github.com/hupe1980/shapego/blobstore"
	miniostore "github.com/hupe1980/shapego/blobstore/minio"
	s3store "github.com/hupe1980/shapego/blobstore/s3"
	"github.com/hupe1980/shapego/container"
)

// location names a model container: a local path, s3://bucket/key or
// minio://bucket/key. MinIO endpoints and credentials come from
// MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_SECURE.
type location struct {
	scheme string
	bucket string
	key    string
	path   string
}

func parseLocation(s string) (location, error) {
	if !strings.Contains(s, "://") {
		return location{path: s}, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return location{}, err
	}
	switch u.Scheme {
	case "s3", "minio":
	default:
		return location{}, fmt.Errorf("unsupported location scheme %q", u.Scheme)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return location{}, fmt.Errorf("location %q needs a bucket and a key", s)
	}
	return location{scheme: u.Scheme, bucket: u.Host, key: key}, nil
}

func (l location) remote() bool { return l.scheme != "" }

func (l location) String() string {
	if !l.remote() {
		return l.path
	}
	return l.scheme + "://" + l.bucket + "/" + l.key
}

func (l location) store(ctx context.Context) (blobstore.BlobStore, error) {
	switch l.scheme {
	case "s3":
		return s3store.New(ctx, l.bucket)
	case "minio":
		return miniostore.New(ctx, miniostore.Config{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Secure:    os.Getenv("MINIO_SECURE") == "true",
			Bucket:    l.bucket,
		})
	}
	return nil, fmt.Errorf("%s is not a remote location", l)
}

func loadContainer(ctx context.Context, s string) (*container.Group, error) {
	l, err := parseLocation(s)
	if err != nil {
		return nil, err
	}
	if !l.remote() {
		return container.LoadFromFile(l.path)
	}
	store, err := l.store(ctx)
	if err != nil {
		return nil, err
	}
	return container.Get(ctx, store, l.key)
}

func loadModel(ctx context.Context, s string, opts ...shapego.Option) (shapego.Representer, error) {
	l, err := parseLocation(s)
	if err != nil {
		return nil, err
	}
	if !l.remote() {
		return shapego.LoadFile(l.path, opts...)
	}
	store, err := l.store(ctx)
	if err != nil {
		return nil, err
	}
	return shapego.LoadFromStore(ctx, store, l.key, opts...)
}

func saveModel(ctx context.Context, s string, rep shapego.Representer, opts ...container.Option) error {
	l, err := parseLocation(s)
	if err != nil {
		return err
	}
	if !l.remote() {
		return shapego.SaveFile(l.path, rep, opts...)
	}
	store, err := l.store(ctx)
	if err != nil {
		return err
	}
	return shapego.SaveToStore(ctx, store, l.key, rep, opts...)
}
