package storage

import (
	"context"
	"fmt"
	"strings"
)

const gcsScheme = "gs://"

// RemoteFetcher copies a bucket object into the local cache and returns its
// path there.
type RemoteFetcher interface {
	Fetch(ctx context.Context, bucket, object string) (string, error)
	Close() error
}

// Resolver turns a video location into a local file the browser can attach.
// The remote fetcher is only built when a gs:// location shows up.
type Resolver struct {
	local     *LocalStorage
	newRemote func(ctx context.Context) (RemoteFetcher, error)
	remote    RemoteFetcher
}

func NewResolver(local *LocalStorage, newRemote func(ctx context.Context) (RemoteFetcher, error)) *Resolver {
	return &Resolver{local: local, newRemote: newRemote}
}

func (r *Resolver) Resolve(ctx context.Context, location string) (string, error) {
	if !IsGCSURI(location) {
		return r.local.Resolve(location)
	}

	bucket, object, err := ParseGCSURI(location)
	if err != nil {
		return "", err
	}

	if r.remote == nil {
		if r.newRemote == nil {
			return "", fmt.Errorf("no bucket storage configured for %s", location)
		}
		remote, err := r.newRemote(ctx)
		if err != nil {
			return "", err
		}
		r.remote = remote
	}

	return r.remote.Fetch(ctx, bucket, object)
}

func (r *Resolver) Close() error {
	if r.remote == nil {
		return nil
	}
	return r.remote.Close()
}

func IsGCSURI(location string) bool {
	return strings.HasPrefix(location, gcsScheme)
}

func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !IsGCSURI(uri) {
		return "", "", fmt.Errorf("not a gs:// uri: %q", uri)
	}
	bucket, object, _ = strings.Cut(strings.TrimPrefix(uri, gcsScheme), "/")
	if bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", fmt.Errorf("gs:// uri must name a bucket and an object: %q", uri)
	}
	return bucket, object, nil
}
