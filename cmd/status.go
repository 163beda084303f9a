package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"studiopush/pkg/config"
)

// Chrome keeps cookies in one of these, depending on version.
var profileCookieFiles = []string{
	filepath.Join("Default", "Network", "Cookies"),
	filepath.Join("Default", "Cookies"),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and browser profile status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(titleStyle.Render("Studiopush status"))

	if cfg.Path != "" {
		fmt.Println(successStyle.Render("✓ Config: " + cfg.Path))
	} else {
		fmt.Println(infoStyle.Render("○ Config: none found, using defaults (run: studiopush setup)"))
	}

	switch {
	case !dirExists(cfg.Browser.ProfileDir):
		fmt.Println(errorStyle.Render("✗ Profile: " + cfg.Browser.ProfileDir + " does not exist"))
		fmt.Println(infoStyle.Render("  Run: studiopush login"))
	case hasCookies(cfg.Browser.ProfileDir):
		fmt.Println(successStyle.Render("✓ Profile: " + cfg.Browser.ProfileDir + " (session cookies present)"))
	default:
		fmt.Println(warnStyle.Render("✗ Profile: " + cfg.Browser.ProfileDir + " (no session cookies)"))
		fmt.Println(infoStyle.Render("  Run: studiopush login"))
	}

	if cfg.Browser.ExecPath != "" {
		fmt.Println(infoStyle.Render("○ Chrome: " + cfg.Browser.ExecPath))
	} else {
		fmt.Println(infoStyle.Render("○ Chrome: auto-detect"))
	}
	fmt.Println(infoStyle.Render(fmt.Sprintf("○ Headless: %v, stealth: %v", cfg.Browser.Headless, cfg.StealthEnabled())))

	if cfg.Storage.CredentialsFile != "" {
		fmt.Println(successStyle.Render("✓ GCS: credentials " + cfg.Storage.CredentialsFile))
	} else {
		fmt.Println(infoStyle.Render("○ GCS: application default credentials (only needed for gs:// videos)"))
	}

	if store, err := openHistory(cfg); err != nil {
		fmt.Println(warnStyle.Render("✗ History: " + err.Error()))
	} else {
		fmt.Println(infoStyle.Render(fmt.Sprintf("○ History: %d upload(s) in %s", store.Len(), store.Path())))
	}

	fmt.Println()
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func hasCookies(profileDir string) bool {
	for _, name := range profileCookieFiles {
		if _, err := os.Stat(filepath.Join(profileDir, name)); err == nil {
			return true
		}
	}
	return false
}
