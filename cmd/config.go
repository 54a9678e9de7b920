package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spiffcs/gameshell/config"
	"gopkg.in/yaml.v3"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create shell configuration",
		Long: `Show the settings a shell run would use after merging defaults, the
global config and ./.gameshell.yaml. Command-line flags still apply on top.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(&Options{})
			if err != nil {
				return err
			}
			return printSettings(cmd.OutOrStdout(), s, config.GetConfigPaths(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format (text, yaml, json)")

	cmd.AddCommand(newCmdConfigInit())
	cmd.AddCommand(newCmdConfigDefaults())

	return cmd
}

func newCmdConfigInit() *cobra.Command {
	var local, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write a commented starter config with the tick rate, key bindings and
loading keys. The global config is written unless --local is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths := config.GetConfigPaths()
			path := paths.GlobalPath
			if local {
				path = paths.LocalPath
			}
			return writeConfigTemplate(cmd.OutOrStdout(), path, force)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Write ./.gameshell.yaml instead of the global config")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func newCmdConfigDefaults() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print a config file with every default spelled out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := config.DefaultConfig().ToYAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func writeConfigTemplate(out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}
	if err := config.SaveTo(path, config.MinimalConfig()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}

// settingsView is the resolved settings as printed by `config`.
type settingsView struct {
	TickRate     string `yaml:"tick_rate" json:"tick_rate"`
	QuitKey      string `yaml:"quit_key" json:"quit_key"`
	InspectKey   string `yaml:"inspect_key" json:"inspect_key"`
	ReleaseAfter string `yaml:"release_after" json:"release_after"`
	ReleaseTicks int    `yaml:"release_ticks" json:"release_ticks"`
	Manifest     string `yaml:"manifest" json:"manifest"`
	Workers      int    `yaml:"workers" json:"workers"`
	EmptyLoading string `yaml:"empty_loading" json:"empty_loading"`
	WatchAssets  bool   `yaml:"watch_assets" json:"watch_assets"`
	StatsEnabled bool   `yaml:"stats_enabled" json:"stats_enabled"`
	GlobalConfig string `yaml:"global_config" json:"global_config"`
	LocalConfig  string `yaml:"local_config" json:"local_config"`
}

func newSettingsView(s config.Settings, paths config.ConfigPathInfo) settingsView {
	empty := "never completes"
	if s.EmptyCompletes {
		empty = "completes"
	}
	ticks := releaseTicks(s)
	return settingsView{
		TickRate:     s.TickRate.String(),
		QuitKey:      s.QuitKey,
		InspectKey:   s.InspectKey,
		ReleaseAfter: (time.Duration(ticks) * s.TickRate).String(),
		ReleaseTicks: ticks,
		Manifest:     s.Manifest,
		Workers:      s.Workers,
		EmptyLoading: empty,
		WatchAssets:  s.WatchAssets,
		StatsEnabled: s.StatsEnabled,
		GlobalConfig: configSource(paths.GlobalPath, paths.GlobalExists),
		LocalConfig:  configSource(paths.LocalPath, paths.LocalExists),
	}
}

func configSource(path string, exists bool) string {
	if exists {
		return path
	}
	return path + " (not found)"
}

func printSettings(out io.Writer, s config.Settings, paths config.ConfigPathInfo, format string) error {
	v := newSettingsView(s, paths)

	switch format {
	case "yaml":
		return yaml.NewEncoder(out).Encode(v)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "text":
	default:
		return fmt.Errorf("invalid format: %s (must be text, yaml or json)", format)
	}

	manifest := v.Manifest
	if manifest == "" {
		manifest = color.HiBlackString("none")
	}
	onOff := func(b bool) string {
		if b {
			return color.GreenString("on")
		}
		return color.HiBlackString("off")
	}

	rows := [][2]string{
		{"tick rate", v.TickRate},
		{"quit key", v.QuitKey},
		{"inspect key", v.InspectKey},
		{"key release", fmt.Sprintf("%s (%d ticks)", v.ReleaseAfter, v.ReleaseTicks)},
		{"manifest", manifest},
		{"workers", fmt.Sprintf("%d", v.Workers)},
		{"empty loading", v.EmptyLoading},
		{"watch assets", onOff(v.WatchAssets)},
		{"session stats", onOff(v.StatsEnabled)},
		{"global config", v.GlobalConfig},
		{"local config", v.LocalConfig},
	}
	for _, r := range rows {
		fmt.Fprintf(out, "  %-14s %s\n", r[0], r[1])
	}
	return nil
}
