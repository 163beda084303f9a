package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"studiopush/pkg/config"
)

var (
	historyLimit int
	historyYes   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent uploads",
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the upload history",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show (0 for all)")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Do not ask for confirmation")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}

	entries := store.List(historyLimit)
	if len(entries) == 0 {
		fmt.Println(infoStyle.Render("No uploads recorded"))
		return nil
	}

	for _, e := range entries {
		when := e.Time.Local().Format("2006-01-02 15:04")
		switch {
		case e.Succeeded && e.URL != "":
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s  %s  %s  %s", when, e.Visibility, e.Title, e.URL)))
		case e.Succeeded:
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s  %s  %s  (no video id)", when, e.Visibility, e.Title)))
		case e.Error != "":
			fmt.Println(errorStyle.Render(fmt.Sprintf("✗ %s  %s  %s", when, e.Title, e.Error)))
		default:
			fmt.Println(warnStyle.Render(fmt.Sprintf("✗ %s  %s  rejected: %s", when, e.Title, e.Reason)))
		}
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}

	if !historyYes {
		var confirm bool
		if err := huh.NewConfirm().
			Title(fmt.Sprintf("Clear %d recorded upload(s)?", store.Len())).
			Value(&confirm).
			Run(); err != nil {
			return err
		}
		if !confirm {
			return nil
		}
	}

	count := store.Len()
	if err := store.Clear(); err != nil {
		return err
	}

	fmt.Printf("Cleared %d upload(s) from history\n", count)
	return nil
}
