package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeRemote struct {
	fetched []string
	closed  bool
	err     error
}

func (f *fakeRemote) Fetch(_ context.Context, bucket, object string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.fetched = append(f.fetched, bucket+"/"+object)
	return filepath.Join("/cache", bucket, object), nil
}

func (f *fakeRemote) Close() error {
	f.closed = true
	return nil
}

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{
			name:       "simpleObject",
			uri:        "gs://videos/clip.mp4",
			wantBucket: "videos",
			wantObject: "clip.mp4",
		},
		{
			name:       "nestedObject",
			uri:        "gs://videos/2024/06/clip.mp4",
			wantBucket: "videos",
			wantObject: "2024/06/clip.mp4",
		},
		{name: "bucketOnly", uri: "gs://videos", wantErr: true},
		{name: "folder", uri: "gs://videos/2024/", wantErr: true},
		{name: "noBucket", uri: "gs:///clip.mp4", wantErr: true},
		{name: "localPath", uri: "/tmp/clip.mp4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, err := ParseGCSURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGCSURI() error = %v, wantErr %v", err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseGCSURI() = (%q, %q), want (%q, %q)", bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestLocalStorageResolve(t *testing.T) {
	tmpDir := t.TempDir()
	video := filepath.Join(tmpDir, "video.mp4")
	if err := os.WriteFile(video, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "existingFile", path: video, want: video},
		{name: "missingFile", path: filepath.Join(tmpDir, "missing.mp4"), wantErr: true},
		{name: "directory", path: tmpDir, wantErr: true},
	}

	s := NewLocalStorage(tmpDir)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Resolve(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalStorageEnsureDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	cache := filepath.Join(tmpDir, "cache")
	profile := filepath.Join(tmpDir, "profile")

	s := NewLocalStorage(cache)
	if err := s.EnsureDirectories(profile, ""); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}

	for _, dir := range []string{cache, profile} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("directory %s was not created", dir)
		}
	}
}

func TestResolverLocalDoesNotBuildRemote(t *testing.T) {
	tmpDir := t.TempDir()
	video := filepath.Join(tmpDir, "video.mp4")
	if err := os.WriteFile(video, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	built := false
	r := NewResolver(NewLocalStorage(tmpDir), func(context.Context) (RemoteFetcher, error) {
		built = true
		return &fakeRemote{}, nil
	})

	got, err := r.Resolve(context.Background(), video)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != video {
		t.Errorf("Resolve() = %q, want %q", got, video)
	}
	if built {
		t.Error("remote fetcher built for a local path")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestResolverRemote(t *testing.T) {
	remote := &fakeRemote{}
	builds := 0
	r := NewResolver(NewLocalStorage(t.TempDir()), func(context.Context) (RemoteFetcher, error) {
		builds++
		return remote, nil
	})

	for _, uri := range []string{"gs://videos/a.mp4", "gs://videos/b.mp4"} {
		if _, err := r.Resolve(context.Background(), uri); err != nil {
			t.Fatalf("Resolve(%q) error = %v", uri, err)
		}
	}

	if builds != 1 {
		t.Errorf("remote built %d times, want 1", builds)
	}
	if len(remote.fetched) != 2 {
		t.Errorf("fetched = %v, want 2 objects", remote.fetched)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !remote.closed {
		t.Error("Close() did not close the remote fetcher")
	}
}

func TestResolverRemoteErrors(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		newRemote func(context.Context) (RemoteFetcher, error)
		uri       string
		wantErr   error
	}{
		{
			name:      "noRemoteConfigured",
			newRemote: nil,
			uri:       "gs://videos/a.mp4",
		},
		{
			name: "buildFails",
			newRemote: func(context.Context) (RemoteFetcher, error) {
				return nil, errBoom
			},
			uri:     "gs://videos/a.mp4",
			wantErr: errBoom,
		},
		{
			name: "fetchFails",
			newRemote: func(context.Context) (RemoteFetcher, error) {
				return &fakeRemote{err: errBoom}, nil
			},
			uri:     "gs://videos/a.mp4",
			wantErr: errBoom,
		},
		{
			name: "badURI",
			newRemote: func(context.Context) (RemoteFetcher, error) {
				return &fakeRemote{}, nil
			},
			uri: "gs://videos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(NewLocalStorage(t.TempDir()), tt.newRemote)
			_, err := r.Resolve(context.Background(), tt.uri)
			if err == nil {
				t.Fatal("Resolve() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCachePath(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		bucket  string
		object  string
		want    string
		wantErr bool
	}{
		{
			name:   "nested",
			bucket: "videos",
			object: "2024/clip.mp4",
			want:   filepath.Join(root, "videos", "2024", "clip.mp4"),
		},
		{
			name:   "dotSegmentInsideBucket",
			bucket: "videos",
			object: "2024/../clip.mp4",
			want:   filepath.Join(root, "videos", "clip.mp4"),
		},
		{
			name:    "escapesCache",
			bucket:  "bucket",
			object:  "../../../.bashrc",
			wantErr: true,
		},
		{
			name:    "escapesIntoOtherBucket",
			bucket:  "bucket",
			object:  "../other/clip.mp4",
			wantErr: true,
		},
		{
			name:    "objectIsBucketDir",
			bucket:  "bucket",
			object:  "a/..",
			wantErr: true,
		},
		{
			name:    "dotDotBucket",
			bucket:  "..",
			object:  "clip.mp4",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cachePath(root, tt.bucket, tt.object)
			if (err != nil) != tt.wantErr {
				t.Fatalf("cachePath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("cachePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCachePathIsAbsolute(t *testing.T) {
	t.Chdir(t.TempDir())

	got, err := cachePath("cache", "videos", "clip.mp4")
	if err != nil {
		t.Fatalf("cachePath() error = %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("cachePath() = %q, want an absolute path", got)
	}
}
