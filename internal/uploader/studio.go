package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

const (
	youtubePlatform     = "youtube"
	defaultHomeURL      = "https://www.youtube.com"
	defaultUploadURL    = "https://www.youtube.com/upload"
	defaultTitleTimeout = 15 * time.Second
)

type StudioOptions struct {
	HomeURL      string
	UploadURL    string
	SettleDelay  time.Duration
	TitleTimeout time.Duration
	// GOOS selects the select-all chord. Empty means the host OS.
	GOOS   string
	Logger *slog.Logger
}

// StudioUploader publishes videos by driving the web upload dialog. Each
// call to Upload launches and releases its own browser.
type StudioUploader struct {
	launcher  Launcher
	opts      StudioOptions
	selectAll chord
	logger    *slog.Logger
}

func NewStudioUploader(launcher Launcher, opts StudioOptions) *StudioUploader {
	if opts.HomeURL == "" {
		opts.HomeURL = defaultHomeURL
	}
	if opts.UploadURL == "" {
		opts.UploadURL = defaultUploadURL
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	if opts.TitleTimeout <= 0 {
		opts.TitleTimeout = defaultTitleTimeout
	}

	selectAll := hostSelectAll()
	if opts.GOOS != "" {
		selectAll = selectAllFor(opts.GOOS)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &StudioUploader{
		launcher:  launcher,
		opts:      opts,
		selectAll: selectAll,
		logger:    logger,
	}
}

func (u *StudioUploader) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	req = req.clone()
	absPath, err := filepath.Abs(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve video path: %w", err)
	}
	req.FilePath = absPath
	req.Visibility, _ = ParseVisibility(string(req.Visibility))

	driver, err := u.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	s := newSession(driver, req, u.opts, u.selectAll, u.logger)
	defer s.release()

	result, err := s.run(ctx)
	if err != nil {
		return nil, err
	}
	result.Platform = youtubePlatform
	return result, nil
}

func (u *StudioUploader) Platform() string {
	return youtubePlatform
}
