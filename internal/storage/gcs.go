package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSStorage struct {
	client        *storage.Client
	localCacheDir string
}

// NewGCSStorage uses application default credentials unless credentialsFile
// is set.
func NewGCSStorage(ctx context.Context, credentialsFile, localCacheDir string) (*GCSStorage, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client:        client,
		localCacheDir: localCacheDir,
	}, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

// Fetch downloads the object unless a cached copy of the same size exists.
func (s *GCSStorage) Fetch(ctx context.Context, bucket, object string) (string, error) {
	localPath, err := cachePath(s.localCacheDir, bucket, object)
	if err != nil {
		return "", err
	}

	attrs, err := s.client.Bucket(bucket).Object(object).Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to stat gs://%s/%s: %w", bucket, object, err)
	}

	if info, err := os.Stat(localPath); err == nil && info.Size() == attrs.Size {
		return localPath, nil
	}

	if err := s.downloadFile(ctx, bucket, object, localPath); err != nil {
		return "", fmt.Errorf("failed to download video: %w", err)
	}

	return localPath, nil
}

func (s *GCSStorage) downloadFile(ctx context.Context, bucket, object, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to create reader: %w", err)
	}
	defer func() { _ = r.Close() }()

	tmpPath := localPath + ".part"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to download file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close local file: %w", err)
	}

	return os.Rename(tmpPath, localPath)
}

// cachePath returns the absolute cache location of an object. It keeps the
// bucket and object path so equal file names from different folders do not
// collide, and refuses objects whose ".." segments would leave the bucket's
// cache directory.
func cachePath(cacheDir, bucket, object string) (string, error) {
	root, err := filepath.Abs(cacheDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	bucketDir := filepath.Join(root, bucket)

	parts := append([]string{bucketDir}, strings.Split(object, "/")...)
	path := filepath.Join(parts...)

	if !within(root, bucketDir) || !within(bucketDir, path) {
		return "", fmt.Errorf("gs://%s/%s resolves outside the cache directory", bucket, object)
	}
	return path, nil
}

// within reports whether path lies strictly below dir.
func within(dir, path string) bool {
	return strings.HasPrefix(path, strings.TrimSuffix(dir, string(filepath.Separator))+string(filepath.Separator))
}

var _ RemoteFetcher = (*GCSStorage)(nil)
