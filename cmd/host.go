package cmd

import (
	"fmt"
	"strconv"

	"github.com/spiffcs/gameshell/internal/tui"
)

const (
	hostTUI      = "tui"
	hostHeadless = "headless"
)

// hostValue is the --tui flag. Besides the usual boolean spellings it
// accepts "auto", which leaves the choice to pickHost.
type hostValue struct {
	tui **bool
}

func (v hostValue) String() string {
	if v.tui == nil || *v.tui == nil {
		return "auto"
	}
	return strconv.FormatBool(**v.tui)
}

func (v hostValue) Set(s string) error {
	if s == "auto" {
		*v.tui = nil
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid value %q: use true, false, or auto", s)
	}
	*v.tui = &b
	return nil
}

func (hostValue) Type() string     { return "bool" }
func (hostValue) IsBoolFlag() bool { return true }

// pickHost decides which host drives the shell and why.
func pickHost(opts *Options) (host, reason string) {
	switch {
	case opts.Verbosity > 0 && opts.LogFile == "":
		return hostHeadless, "verbose logs go to stderr"
	case opts.TUI != nil && *opts.TUI:
		return hostTUI, "--tui"
	case opts.TUI != nil:
		return hostHeadless, "--tui=false"
	case opts.MaxTicks > 0:
		return hostHeadless, "--max-ticks"
	case !tui.ShouldUseTUI():
		return hostHeadless, "not a terminal"
	}
	return hostTUI, "terminal"
}
