package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"

	"studiopush/internal/browser"
	"studiopush/internal/history"
	"studiopush/internal/storage"
	"studiopush/internal/uploader"
	"studiopush/pkg/config"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

func browserOptions(cfg *config.Config, headless bool) browser.Options {
	return browser.Options{
		ProfileDir:   cfg.Browser.ProfileDir,
		ExecPath:     cfg.Browser.ExecPath,
		Headless:     headless,
		UserAgent:    cfg.Browser.UserAgent,
		WindowWidth:  cfg.Browser.WindowWidth,
		WindowHeight: cfg.Browser.WindowHeight,
		Stealth:      cfg.StealthEnabled(),
	}
}

func newLauncher(cfg *config.Config, headless bool) uploader.Launcher {
	l := browser.NewLauncher(browserOptions(cfg, headless))
	return uploader.LaunchFunc(func(ctx context.Context) (uploader.Driver, error) {
		s, err := l.Launch(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

func newStudioUploader(cfg *config.Config, headless bool) *uploader.StudioUploader {
	return uploader.NewStudioUploader(newLauncher(cfg, headless), uploader.StudioOptions{
		HomeURL:      cfg.Studio.HomeURL,
		UploadURL:    cfg.Studio.UploadURL,
		SettleDelay:  cfg.Studio.SettleDelay,
		TitleTimeout: cfg.Studio.TitleTimeout,
	})
}

func newResolver(cfg *config.Config) (*storage.Resolver, error) {
	local := storage.NewLocalStorage(cfg.Storage.CacheDir)
	if err := local.EnsureDirectories(); err != nil {
		return nil, err
	}

	return storage.NewResolver(local, func(ctx context.Context) (storage.RemoteFetcher, error) {
		gcs, err := storage.NewGCSStorage(ctx, cfg.Storage.CredentialsFile, cfg.Storage.CacheDir)
		if err != nil {
			return nil, err
		}
		return gcs, nil
	}), nil
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	store, err := history.NewStore(cfg.History.Dir, cfg.History.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// runWithSpinner shows a spinner while fn runs, unless debug logs would
// interleave with it. It always waits for fn to return: if the spinner is
// interrupted first, fn's context is cancelled and its error wins.
func runWithSpinner(ctx context.Context, title string, fn func(ctx context.Context) error) error {
	if verbose {
		return fn(ctx)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		err = fn(runCtx)
	}()

	spinErr := spinner.New().
		Title(title).
		Context(runCtx).
		ActionWithErr(func(spinCtx context.Context) error {
			select {
			case <-done:
			case <-spinCtx.Done():
			}
			return nil
		}).
		Run()

	if spinErr != nil {
		cancel()
	}
	<-done

	if err != nil {
		return err
	}
	if spinErr != nil {
		return fmt.Errorf("%s interrupted: %w", strings.ToLower(title), spinErr)
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
