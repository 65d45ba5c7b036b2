package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/cardcraft/internal/controller"
	"github.com/jask/cardcraft/internal/tui"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "cardcraft",
	Short: "Design, export and share business cards from the terminal",
	Long: `CardCraft keeps a collection of business cards, walks you through
creating new ones and exports them as PNG images.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			return os.Setenv("CARDCRAFT_CONFIG", configPath)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/cardcraft/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd, exportCmd, shareCmd, deleteCmd, seedCmd, resetCmd, tokenCmd, configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runInteractive(cmd *cobra.Command) error {
	ctx := cmd.Context()
	notices := tui.NewNotices()
	rt, err := openRuntime(ctx, notices, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctl := controller.New(ctx, rt.store, nil, rt.log)
	p := tea.NewProgram(tui.New(ctx, ctl, rt.exporter, notices, rt.log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
