package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spiffcs/gameshell/config"
	"github.com/spiffcs/gameshell/internal/assets"
)

// NewCmdAssets creates the assets command with subcommands.
func NewCmdAssets() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Inspect asset manifests",
	}

	cmd.AddCommand(newCmdAssetsCheck())

	return cmd
}

// newCmdAssetsCheck creates the assets check subcommand.
func newCmdAssetsCheck() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "check [manifest]",
		Short: "Load every asset in a manifest and report failures",
		Long: `Load every asset in a manifest the way the Loading phase does and
report each result. Without an argument the configured loading.manifest is
used. Exits non-zero if any asset fails to load.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				s, err := loadSettings(&Options{})
				if err != nil {
					return err
				}
				path = s.Manifest
				if workers == 0 {
					workers = s.Workers
				}
			}
			if path == "" {
				return fmt.Errorf("no manifest given and loading.manifest is not configured")
			}
			return runAssetsCheck(cmd.Context(), cmd.OutOrStdout(), path, workers)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, fmt.Sprintf("Concurrent reads (default %d)", config.DefaultSettings().Workers))

	return cmd
}

func runAssetsCheck(ctx context.Context, out io.Writer, path string, workers int) error {
	m, err := assets.LoadManifest(path)
	if err != nil {
		return err
	}

	store := assets.NewStore(m)
	for c := range assets.NewLoader(assets.WithWorkers(workers)).Start(ctx, m) {
		store.Apply(c)
	}

	for _, a := range store.All() {
		switch a.Status {
		case assets.StatusLoaded:
			fmt.Fprintf(out, "  %s %s %s\n", color.GreenString("✓"), a.Name, color.HiBlackString("(%d bytes)", a.Size()))
		case assets.StatusFailed:
			fmt.Fprintf(out, "  %s %s %s\n", color.RedString("✗"), a.Name, color.RedString(a.Err.Error()))
		default:
			fmt.Fprintf(out, "  %s %s\n", color.YellowString("○"), a.Name)
		}
	}

	loaded, failed := store.Counts()
	fmt.Fprintf(out, "\n%d loaded, %d failed\n", loaded, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d assets failed to load", failed, m.Len())
	}
	return nil
}
