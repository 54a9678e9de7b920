package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set with -ldflags "-X github.com/spiffcs/gameshell/cmd.version=...".
var version = "dev"

type buildInfo struct {
	Version  string
	Commit   string
	Date     string
	Modified bool
	Go       string
	Platform string
}

// readBuildInfo fills commit and build time from the VCS stamp the Go
// toolchain embeds in the binary.
func readBuildInfo() buildInfo {
	b := buildInfo{
		Version:  version,
		Commit:   "none",
		Date:     "unknown",
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	if b.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Commit = s.Value
			if len(b.Commit) > 12 {
				b.Commit = b.Commit[:12]
			}
		case "vcs.time":
			b.Date = s.Value
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

func (b buildInfo) write(out io.Writer) {
	commit := b.Commit
	if b.Modified {
		commit += " (dirty)"
	}
	fmt.Fprintf(out, "gameshell %s\n", b.Version)
	fmt.Fprintf(out, "  commit:   %s\n", commit)
	fmt.Fprintf(out, "  built:    %s\n", b.Date)
	fmt.Fprintf(out, "  go:       %s %s\n", b.Go, b.Platform)
}

// NewCmdVersion creates the version command.
func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			readBuildInfo().write(cmd.OutOrStdout())
		},
	}
}
