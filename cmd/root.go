package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "gameshell",
		Short: "Tick-driven application shell with a loading lifecycle",
		Long: `Runs a tick-driven shell that loads its assets, reports loading
progress, and then waits in the Ready phase until the quit key is pressed.

The shell renders an interactive TUI on terminals and falls back to plain
phase output for pipes and CI.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts)
		},
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	addRunFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdAssets())
	rootCmd.AddCommand(NewCmdStats())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}

// addRunFlags adds the flags that control a shell run.
func addRunFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	cmd.Flags().StringVarP(&opts.Manifest, "manifest", "m", "", "Asset manifest to load (overrides loading.manifest)")
	cmd.Flags().DurationVar(&opts.TickRate, "tick-rate", 0, "Time between ticks (overrides tick_rate)")
	cmd.Flags().Uint64Var(&opts.MaxTicks, "max-ticks", 0, "Stop after this many ticks (headless only, 0 = unbounded)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Write logs to file (TUI mode discards logs otherwise)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Hot-reload assets while Ready (overrides assets.watch)")

	tuiFlag := cmd.Flags().VarPF(hostValue{tui: &opts.TUI}, "tui", "", "Enable/disable the TUI (true, false, auto)")
	tuiFlag.NoOptDefVal = "true"

	// Profiling flags
	cmd.Flags().StringVar(&opts.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&opts.MemProfile, "memprofile", "", "Write memory profile to file")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "Write execution trace to file")
}
