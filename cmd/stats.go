package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spiffcs/gameshell/internal/stats"
)

// NewCmdStats creates the stats command.
func NewCmdStats() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show recent session statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := stats.NewStore()
			if err != nil {
				return fmt.Errorf("failed to access stats: %w", err)
			}
			return printSessions(cmd.OutOrStdout(), store.Recent(limit))
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of sessions to show")

	return cmd
}

func printSessions(out io.Writer, sessions []stats.Session) error {
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-19s  %-8s  %8s  %10s  %10s  %s\n", "STARTED", "HOST", "FRAMES", "LOAD", "UPTIME", "ASSETS")
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		assets := fmt.Sprintf("%d", s.AssetsLoaded)
		if s.AssetsFailed > 0 {
			assets += color.RedString(" (%d failed)", s.AssetsFailed)
		}
		if s.Reloads > 0 {
			assets += color.CyanString(" %d reloads", s.Reloads)
		}
		fmt.Fprintf(out, "%-19s  %-8s  %8d  %10s  %10s  %s\n",
			s.Timestamp.Local().Format(time.DateTime),
			s.Host,
			s.Frames,
			s.LoadDuration.Round(time.Millisecond),
			s.Uptime.Round(time.Millisecond),
			assets,
		)
	}
	return nil
}
