package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	osbrowser "github.com/pkg/browser"
	"github.com/spf13/cobra"

	"studiopush/internal/history"
	"studiopush/internal/metadata"
	"studiopush/internal/uploader"
	"studiopush/pkg/config"
)

var (
	uploadTitle         string
	uploadDescription   string
	uploadTags          []string
	uploadVisibility    string
	uploadAgeRestricted bool
	uploadMetadataPath  string
	uploadInteractive   bool
	uploadOpen          bool
	uploadHeadless      bool
)

var errNoResult = errors.New("upload finished without a result")

var uploadCmd = &cobra.Command{
	Use:   "upload <video>",
	Short: "Upload and publish a video",
	Long: `Upload a local video file, or a gs://bucket/object video, through the
YouTube upload dialog.

Metadata comes from config defaults, then --metadata (YAML or JSON), then flags.`,
	Example: `  studiopush upload clip.mp4 -t "Test" -d "Line1
Line2" --visibility unlisted
  studiopush upload gs://videos/clip.mp4 --metadata clip.yaml
  studiopush upload clip.mp4 -i`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadTitle, "title", "t", "", "Video title")
	uploadCmd.Flags().StringVarP(&uploadDescription, "description", "d", "", "Video description")
	uploadCmd.Flags().StringSliceVar(&uploadTags, "tags", nil, "Comma-separated tags")
	uploadCmd.Flags().StringVar(&uploadVisibility, "visibility", "", "private, unlisted or public")
	uploadCmd.Flags().BoolVar(&uploadAgeRestricted, "not-for-kids", true, `Select the "not made for kids" audience option`)
	uploadCmd.Flags().StringVarP(&uploadMetadataPath, "metadata", "m", "", "Metadata file (YAML or JSON)")
	uploadCmd.Flags().BoolVarP(&uploadInteractive, "interactive", "i", false, "Prompt for metadata before uploading")
	uploadCmd.Flags().BoolVar(&uploadOpen, "open", false, "Open the published video in the default browser")
	uploadCmd.Flags().BoolVar(&uploadHeadless, "headless", false, "Run Chrome without a window (overrides config)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	meta, err := resolveMetadata(cmd, cfg)
	if err != nil {
		return err
	}

	if uploadInteractive {
		if err := promptMetadata(&meta); err != nil {
			return err
		}
	}

	visibility, err := uploader.ParseVisibility(meta.Visibility)
	if err != nil {
		return err
	}

	resolver, err := newResolver(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = resolver.Close() }()

	var videoPath string
	err = runWithSpinner(ctx, "Preparing video", func(ctx context.Context) error {
		var err error
		videoPath, err = resolver.Resolve(ctx, args[0])
		return err
	})
	if err != nil {
		return err
	}

	req := uploader.UploadRequest{
		FilePath:      videoPath,
		Title:         meta.Title,
		Description:   meta.Description,
		Tags:          meta.Tags,
		AgeRestricted: meta.AgeRestricted != nil && *meta.AgeRestricted,
		Visibility:    visibility,
	}

	headless := cfg.Browser.Headless
	if cmd.Flags().Changed("headless") {
		headless = uploadHeadless
	}
	up := newStudioUploader(cfg, headless)

	slog.Info("Uploading video", "file", videoPath, "title", req.Title, "visibility", req.Visibility)

	var result *uploader.UploadResult
	uploadErr := runWithSpinner(ctx, "Uploading "+args[0], func(ctx context.Context) error {
		var err error
		result, err = up.Upload(ctx, req)
		return err
	})
	if uploadErr == nil && result == nil {
		uploadErr = errNoResult
	}

	recordHistory(cfg, req, result, uploadErr)

	if uploadErr != nil {
		return fmt.Errorf("upload failed: %w", uploadErr)
	}

	return reportResult(result)
}

// resolveMetadata layers config defaults, the metadata file and explicit
// flags, in that order.
func resolveMetadata(cmd *cobra.Command, cfg *config.Config) (metadata.Metadata, error) {
	ageRestricted := cfg.AgeRestrictedDefault()
	meta := metadata.Metadata{
		Tags:          cfg.Defaults.Tags,
		AgeRestricted: &ageRestricted,
		Visibility:    cfg.Defaults.Visibility,
	}

	if uploadMetadataPath != "" {
		fromFile, err := metadata.Load(uploadMetadataPath)
		if err != nil {
			return meta, err
		}
		meta = meta.Merge(*fromFile)
	}

	var flags metadata.Metadata
	flags.Title = uploadTitle
	flags.Description = uploadDescription
	flags.Visibility = uploadVisibility
	if cmd.Flags().Changed("tags") {
		flags.Tags = uploadTags
	}
	if cmd.Flags().Changed("not-for-kids") {
		flags.AgeRestricted = &uploadAgeRestricted
	}

	return meta.Merge(flags), nil
}

func promptMetadata(meta *metadata.Metadata) error {
	tags := strings.Join(meta.Tags, ", ")
	ageRestricted := meta.AgeRestricted != nil && *meta.AgeRestricted
	visibility := meta.Visibility

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&meta.Title).
				Validate(required("Title")),
			huh.NewText().
				Title("Description").
				Value(&meta.Description),
			huh.NewInput().
				Title("Tags").
				Description("Comma-separated").
				Value(&tags),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Visibility").
				Options(
					huh.NewOption("Private", string(uploader.Private)),
					huh.NewOption("Unlisted", string(uploader.Unlisted)),
					huh.NewOption("Public", string(uploader.Public)),
				).
				Value(&visibility),
			huh.NewConfirm().
				Title("Not made for kids?").
				Affirmative("Yes").
				Negative("No").
				Value(&ageRestricted),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	meta.Tags = splitTags(tags)
	meta.AgeRestricted = &ageRestricted
	meta.Visibility = visibility
	return nil
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func recordHistory(cfg *config.Config, req uploader.UploadRequest, result *uploader.UploadResult, uploadErr error) {
	store, err := openHistory(cfg)
	if err != nil {
		slog.Warn("Upload not recorded", "error", err)
		return
	}

	entry := history.Entry{
		Time:       time.Now(),
		File:       req.FilePath,
		Title:      req.Title,
		Visibility: string(req.Visibility),
	}
	if result != nil {
		entry.Succeeded = result.Succeeded
		entry.ContentID = result.ContentID
		entry.URL = result.URL()
		entry.Reason = result.Reason
	}
	if uploadErr != nil {
		entry.Error = uploadErr.Error()
	}

	if err := store.Add(entry); err != nil {
		slog.Warn("Upload not recorded", "error", err)
	}
}

func reportResult(result *uploader.UploadResult) error {
	if result == nil {
		return errNoResult
	}
	if !result.Succeeded {
		fmt.Println(errorStyle.Render("✗ Upload rejected: " + result.Reason))
		return errors.New("upload rejected by platform")
	}

	fmt.Println(successStyle.Render("✓ Video published"))
	if result.ContentID == "" {
		fmt.Println(warnStyle.Render("  Video id not found on the confirmation page"))
		return nil
	}

	fmt.Println(successStyle.Render("  Video id: " + result.ContentID))
	fmt.Println(infoStyle.Render("  " + result.URL()))

	if uploadOpen {
		if err := osbrowser.OpenURL(result.URL()); err != nil {
			slog.Warn("Failed to open browser", "error", err)
		}
	}
	return nil
}
