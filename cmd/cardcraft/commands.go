package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/config"
	"github.com/jask/cardcraft/internal/controller"
	"github.com/jask/cardcraft/internal/database/repository"
	"github.com/jask/cardcraft/internal/secrets"
	"github.com/jask/cardcraft/internal/service"
	"github.com/jask/cardcraft/internal/testdata"
)

var (
	listMatch   string
	listRaw     bool
	exportOut   string
	seedCount   int
	configForce bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), printNotifier{w: cmd.ErrOrStderr()}, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if listRaw {
			if rt.kv == nil {
				return fmt.Errorf("--raw needs the sqlite store, configured driver is %q", rt.cfg.Store.Driver)
			}
			entries, err := rt.kv.List(cmd.Context())
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), entries)
		}
		cards := card.Search(rt.store.Cards(cmd.Context()), listMatch)
		return printCards(cmd.OutOrStdout(), cards)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Render a card to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := openRuntime(ctx, printNotifier{w: cmd.ErrOrStderr()}, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		c, err := findCard(ctx, rt, args[0])
		if err != nil {
			return err
		}
		path, err := rt.exporter.Export(ctx, c)
		if err != nil {
			return err
		}
		if exportOut != "" {
			if err := moveFile(path, exportOut); err != nil {
				return fmt.Errorf("move export: %w", err)
			}
			path = exportOut
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var shareCmd = &cobra.Command{
	Use:   "share <id>",
	Short: "Share a card through the configured share target, clipboard or screen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := openRuntime(ctx, printNotifier{w: cmd.OutOrStdout()}, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		c, err := findCard(ctx, rt, args[0])
		if err != nil {
			return err
		}
		out, err := rt.exporter.Share(ctx, c)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "share finished: %s\n", out)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := openRuntime(ctx, printNotifier{w: cmd.ErrOrStderr()}, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		c, err := findCard(ctx, rt, args[0])
		if err != nil {
			return err
		}
		ctl := controller.New(ctx, rt.store, nil, rt.log)
		if err := ctl.Dispatch(ctx, controller.DeleteCard{ID: c.ID}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", c.ID, c.DisplayName(card.DefaultTitle))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add sample cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := openRuntime(ctx, printNotifier{w: cmd.ErrOrStderr()}, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		added, err := testdata.Seed(ctx, rt.store, nil, seedCount)
		if err != nil {
			return err
		}
		return printCards(cmd.OutOrStdout(), added)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored card and preference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := openRuntime(ctx, printNotifier{w: cmd.ErrOrStderr()}, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := (&service.MaintenanceService{DB: rt.db, Store: rt.store}).Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "store reset")
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the share server token in the encrypted secrets file",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store the share token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.StoreToken(config.SecretName, args[0]); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "token saved")
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored share token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.DeleteToken(config.SecretName); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "token removed")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Path())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective settings to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeConfig(cmd.OutOrStdout(), configForce)
	},
}

func writeConfig(w io.Writer, force bool) error {
	path := config.Path()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Fprintln(w, path)
	return nil
}

func init() {
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only show cards matching this name, company or email")
	listCmd.Flags().BoolVar(&listRaw, "raw", false, "Show the stored keys instead of cards (sqlite store)")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configPathCmd, configInitCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write the PNG here instead of the export directory")
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 5, "Number of sample cards")
	tokenCmd.AddCommand(tokenSetCmd, tokenClearCmd)
}

var errNoCard = errors.New("no such card")

// findCard resolves an exact id, or a name when exactly one card carries it.
func findCard(ctx context.Context, rt *runtime, ref string) (card.Card, error) {
	cards := rt.store.Cards(ctx)
	if c, ok := card.Find(cards, ref); ok {
		return c, nil
	}
	var matches []card.Card
	for _, c := range cards {
		if c.Name == ref {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return card.Card{}, fmt.Errorf("%w: %s", errNoCard, ref)
	default:
		return card.Card{}, fmt.Errorf("%d cards are named %q, use the id", len(matches), ref)
	}
}

func printCards(w io.Writer, cards []card.Card) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTITLE\tSTYLE")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s/%s\n", c.ID, c.DisplayName(card.DefaultTitle), c.Title, c.Template, c.ColorTheme)
	}
	return tw.Flush()
}

func printEntries(w io.Writer, entries []repository.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tBYTES\tUPDATED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Key, len(e.Value), e.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

// moveFile renames src to dst, copying when they sit on different devices.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

// printNotifier reports share notices on a terminal.
type printNotifier struct {
	w io.Writer
}

func (p printNotifier) Notify(msg string) {
	fmt.Fprintln(p.w, msg)
}

func (p printNotifier) Alert(title, text string) {
	fmt.Fprintf(p.w, "%s\n\n%s\n", title, text)
}
