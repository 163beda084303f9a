package uploader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrInvalidRequest = errors.New("invalid upload request")

type Visibility string

const (
	Private  Visibility = "private"
	Unlisted Visibility = "unlisted"
	Public   Visibility = "public"
)

func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToLower(strings.TrimSpace(s))); v {
	case Private, Unlisted, Public:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown visibility %q", ErrInvalidRequest, s)
	}
}

// radioName is the name attribute of the visibility radio group on the
// wizard's last page.
func (v Visibility) radioName() string {
	return strings.ToUpper(string(v))
}

type UploadRequest struct {
	FilePath      string
	Title         string
	Description   string
	Tags          []string
	AgeRestricted bool
	Visibility    Visibility
}

func (r UploadRequest) Validate() error {
	if r.FilePath == "" {
		return fmt.Errorf("%w: file path is required", ErrInvalidRequest)
	}
	info, err := os.Stat(r.FilePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidRequest, r.FilePath)
	}
	if _, err := ParseVisibility(string(r.Visibility)); err != nil {
		return err
	}
	return nil
}

func (r UploadRequest) clone() UploadRequest {
	c := r
	c.Tags = append([]string(nil), r.Tags...)
	return c
}

type UploadResult struct {
	Succeeded bool
	ContentID string
	// Reason holds the message the platform showed when it refused to publish.
	Reason   string
	Platform string
}

func (r *UploadResult) URL() string {
	if r == nil || r.ContentID == "" {
		return ""
	}
	return fmt.Sprintf("https://youtube.com/watch?v=%s", r.ContentID)
}

type Uploader interface {
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
	Platform() string
}
