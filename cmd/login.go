package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"studiopush/internal/browser"
	"studiopush/pkg/config"
)

var loginURL string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to YouTube in the upload browser profile",
	Long: `Open a visible Chrome window on YouTube Studio using the configured profile.
Sign in there once; later uploads reuse the saved session cookies.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginURL, "url", "", "Page to open (default: studio URL from config)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	url := loginURL
	if url == "" {
		url = cfg.Studio.StudioURL
	}

	session, err := browser.NewLauncher(browserOptions(cfg, false)).Launch(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = session.Quit() }()

	if err := session.Navigate(ctx, url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}

	fmt.Println(infoStyle.Render("\nSign in in the Chrome window, then come back here."))
	fmt.Println(infoStyle.Render("Profile: " + cfg.Browser.ProfileDir))

	var done bool
	if err := huh.NewConfirm().
		Title("Finished signing in?").
		Affirmative("Done").
		Negative("Cancel").
		Value(&done).
		Run(); err != nil {
		return err
	}

	if !done {
		fmt.Println(warnStyle.Render("Login cancelled"))
		return nil
	}

	fmt.Println(successStyle.Render("✓ Session saved to profile"))
	return nil
}
