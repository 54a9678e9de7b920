package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spiffcs/gameshell/internal/app"
	"github.com/spiffcs/gameshell/internal/lifecycle"
)

// nameWidth is the column width for asset names in the inspector.
const nameWidth = 24

// maxInspectorAssets caps the asset rows shown in the inspector panel.
const maxInspectorAssets = 10

// View renders the model.
func (m Model) View() string {
	var b strings.Builder
	w := m.app.World()
	phase := w.Phase.Current()

	fmt.Fprintf(&b, "  %s %s\n\n", titleStyle.Render(m.title), PhaseBadge(phase))

	switch phase {
	case lifecycle.Loading:
		b.WriteString(m.loadingView())
	case lifecycle.Ready:
		b.WriteString(m.readyView())
	case lifecycle.Terminating:
		b.WriteString("  " + messageStyle.Render("Shutting down...") + "\n")
	}

	if w.InspectorVisible {
		b.WriteString(m.inspectorView(m.app.Inspect()))
		b.WriteString("\n")
	}

	if !m.done {
		footer := "  Press Ctrl+C to abort"
		if phase == lifecycle.Ready {
			footer = "  " + m.help.View(w.Input) + dimStyle.Render(" • ctrl+c abort")
		}
		b.WriteString(footerStyle.Render(footer))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) loadingView() string {
	snap := m.app.World().Progress.Snapshot()
	line := fmt.Sprintf("  %s Loading assets %s %s",
		spinnerStyle.Render(m.spinner.View()),
		m.progress.View(),
		messageStyle.Render(fmt.Sprintf("%d/%d", snap.Done, snap.Total)),
	)
	if snap.Total == 0 {
		line = fmt.Sprintf("  %s Waiting for loading tasks", spinnerStyle.Render(m.spinner.View()))
	}
	return line + "\n"
}

func (m Model) readyView() string {
	loaded, failed := m.app.World().Assets.Counts()
	line := fmt.Sprintf("  %s Ready", iconComplete)
	if loaded > 0 || failed > 0 {
		line += " " + messageStyle.Render(fmt.Sprintf("(%d assets loaded)", loaded))
	}
	if failed > 0 {
		line += " " + errorStyle.Render(fmt.Sprintf("%d failed", failed))
	}
	return line + "\n"
}

func (m Model) inspectorView(in app.Inspection) string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + value
	}

	pending := "none"
	if in.Pending != "" {
		pending = in.Pending
	}
	sealed := ""
	if in.Sealed {
		sealed = dimStyle.Render(" (sealed)")
	}

	lines := []string{
		titleStyle.Render("Inspector"),
		row("phase", fmt.Sprintf("%s -> %s", in.Phase, pending)),
		row("frame", fmt.Sprintf("%d", in.Frame)),
		row("fps", fmt.Sprintf("%.1f (%s)", in.FPS, in.FrameTime.Round(time.Microsecond))),
		row("uptime", in.Uptime.Round(time.Millisecond).String()),
		row("progress", fmt.Sprintf("%d/%d", in.Progress.Done, in.Progress.Total)+sealed),
		row("plugins", strings.Join(in.Plugins, ", ")),
		row("systems", fmt.Sprintf("%d", len(in.Systems))),
	}

	if len(in.Assets) > 0 {
		lines = append(lines, "", titleStyle.Render("Assets"))
		for i, a := range in.Assets {
			if i == maxInspectorAssets {
				lines = append(lines, dimStyle.Render(fmt.Sprintf("... %d more", len(in.Assets)-i)))
				break
			}
			line := fmt.Sprintf("%s %s %s",
				StatusIcon(a.Status, m.spinner.View()),
				fitColumn(a.Name, nameWidth),
				messageStyle.Render(fmt.Sprintf("%d B", a.Size())),
			)
			if a.Reloads > 0 {
				line += dimStyle.Render(fmt.Sprintf(" reloaded %d×", a.Reloads))
			}
			if a.Err != nil {
				line += " " + errorStyle.Render(a.Err.Error())
			}
			lines = append(lines, line)
		}
	}

	panel := panelStyle
	if m.windowWidth > 4 {
		panel = panel.MaxWidth(m.windowWidth - 2)
	}
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// fitColumn truncates or pads s to exactly width terminal columns.
func fitColumn(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
