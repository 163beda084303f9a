package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"studiopush/internal/storage"
	"studiopush/internal/uploader"
	"studiopush/pkg/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Studiopush",
	Long:  `Find Chrome, write config.yaml, create the profile and cache directories, and sign in.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Studiopush Setup"))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	steps := []struct {
		name string
		fn   func(context.Context, *config.Config) error
	}{
		{"Locating Chrome", locateChrome},
		{"Configuring defaults", configureDefaults},
		{"Creating directories", createDirectories},
		{"Writing config", writeConfig},
	}

	for _, step := range steps {
		if err := step.fn(cmd.Context(), cfg); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	return offerLogin(cmd)
}

// chromeCandidates lists binary names chromedp would also try, per OS.
func chromeCandidates(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "windows":
		return []string{"chrome", "chrome.exe"}
	default:
		return []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"}
	}
}

func locateChrome(_ context.Context, cfg *config.Config) error {
	if cfg.Browser.ExecPath != "" {
		fmt.Println(successStyle.Render("✓ Chrome: " + cfg.Browser.ExecPath))
		return nil
	}

	for _, name := range chromeCandidates(runtime.GOOS) {
		if !commandExists(name) {
			continue
		}
		version, err := runSetupCmd(name, "--version")
		if err != nil {
			version = name
		}
		fmt.Println(successStyle.Render("✓ Found " + version))
		return nil
	}

	fmt.Println(warnStyle.Render("Chrome not found on PATH"))
	var execPath string
	if err := huh.NewInput().
		Title("Chrome executable").
		Description("Leave empty to let the browser driver search for it").
		Value(&execPath).
		Run(); err != nil {
		return err
	}
	cfg.Browser.ExecPath = strings.TrimSpace(execPath)
	return nil
}

func configureDefaults(_ context.Context, cfg *config.Config) error {
	profileDir := cfg.Browser.ProfileDir
	headless := cfg.Browser.Headless
	visibility := cfg.Defaults.Visibility
	notForKids := cfg.AgeRestrictedDefault()
	tags := strings.Join(cfg.Defaults.Tags, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Browser profile directory").
				Description("Holds the signed-in YouTube session").
				Value(&profileDir).
				Validate(required("Profile directory")),
			huh.NewConfirm().
				Title("Run Chrome headless by default?").
				Description("Sign-in always opens a visible window").
				Value(&headless),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default visibility").
				Options(
					huh.NewOption("Private", string(uploader.Private)),
					huh.NewOption("Unlisted", string(uploader.Unlisted)),
					huh.NewOption("Public", string(uploader.Public)),
				).
				Value(&visibility),
			huh.NewConfirm().
				Title(`Mark videos "not made for kids" by default?`).
				Value(&notForKids),
			huh.NewInput().
				Title("Default tags").
				Description("Comma-separated, optional").
				Value(&tags),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Browser.ProfileDir = strings.TrimSpace(profileDir)
	cfg.Browser.Headless = headless
	cfg.Defaults.Visibility = visibility
	cfg.Defaults.AgeRestricted = &notForKids
	cfg.Defaults.Tags = splitTags(tags)
	return nil
}

func createDirectories(ctx context.Context, cfg *config.Config) error {
	local := storage.NewLocalStorage(cfg.Storage.CacheDir)
	err := runWithSpinner(ctx, "Creating directories", func(context.Context) error {
		return local.EnsureDirectories(cfg.Browser.ProfileDir, cfg.History.Dir)
	})
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Created directories"))
	return nil
}

func writeConfig(_ context.Context, cfg *config.Config) error {
	path := cfg.Path
	if path == "" {
		path = config.DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing " + path).
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing " + path))
			return nil
		}
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Wrote " + path))
	return nil
}

func offerLogin(cmd *cobra.Command) error {
	var login bool
	if err := huh.NewConfirm().
		Title("Sign in to YouTube now?").
		Description("Opens Chrome with the configured profile").
		Value(&login).
		Run(); err != nil {
		return err
	}

	if login {
		return runLogin(cmd, nil)
	}

	printNextSteps()
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Sign in: studiopush login")
	fmt.Println("  2. Check: studiopush status")
	fmt.Println("  3. Run: studiopush upload clip.mp4 -t \"your title\"")
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %s", err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}
