package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/acs/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const playerBarWidth = 24

// Entry is one status query and its classified outcome.
type Entry struct {
	Address   string
	Port      int
	Outcome   domain.Outcome
	CheckedAt time.Time
}

type RenderOptions struct {
	Now time.Time
}

func renderView(entries []Entry, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Minecraft Server Status"),
		s.header.Render(fmt.Sprintf("servers: %d", len(entries))),
	}

	if len(entries) == 0 {
		lines = append(lines, s.empty.Render("No servers queried."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, entry := range entries {
		lines = append(lines, s.section.Render(renderEntry(entry, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderEntry(entry Entry, opts RenderOptions, s styles) string {
	parts := []string{
		s.server.Render(serverTitle(entry.Address, entry.Port)),
		stateLine(entry.Outcome, s),
	}

	if line, ok := playersLine(entry.Outcome, s); ok {
		parts = append(parts, line)
	}
	if entry.Outcome.Version != "" {
		parts = append(parts, s.detail.Render("version: "+entry.Outcome.Version))
	}
	if !opts.Now.IsZero() && !entry.CheckedAt.IsZero() {
		parts = append(parts, s.header.Render(formatCheckedAgo(entry.CheckedAt, opts.Now)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func serverTitle(address string, port int) string {
	if port <= 0 {
		port = domain.DefaultStatusPort
	}
	return fmt.Sprintf("%s:%d", address, port)
}

func stateLine(o domain.Outcome, s styles) string {
	label := s.label.Render("state:")

	switch o.Kind {
	case domain.OutcomeOnlineEmpty, domain.OutcomeOnlineFull, domain.OutcomeOnlinePlayers:
		state := s.online.Render("online")
		if o.Name != "" {
			state += " " + s.detail.Render(o.Name)
		}
		return label + " " + state
	case domain.OutcomeOffline:
		return label + " " + s.offline.Render("offline")
	case domain.OutcomeNotFound:
		return label + " " + s.failure.Render("not found")
	case domain.OutcomeUnknown:
		return label + " " + s.warning.Render("unknown") + detailSuffix(o.Message, s)
	case domain.OutcomeError:
		line := label + " " + s.failure.Render("error") + detailSuffix(o.Message, s)
		if o.Stale {
			line += " " + s.warning.Render("[recent]")
		}
		return line
	case domain.OutcomeTransportError:
		return label + " " + s.failure.Render("unreachable") + detailSuffix(o.Message, s)
	case domain.OutcomeMalformed:
		return label + " " + s.failure.Render("malformed response") + detailSuffix(o.Message, s)
	default:
		return label + " " + s.empty.Render(string(o.Kind))
	}
}

func detailSuffix(message string, s styles) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return ""
	}
	return " " + s.detail.Render("("+message+")")
}

func playersLine(o domain.Outcome, s styles) (string, bool) {
	var now, max int
	switch o.Kind {
	case domain.OutcomeOnlineEmpty:
		now, max = 0, o.Max
	case domain.OutcomeOnlineFull:
		now, max = o.Max, o.Max
	case domain.OutcomeOnlinePlayers:
		now, max = o.Now, o.Max
	default:
		return "", false
	}

	count := fmt.Sprintf("%d", now)
	percent := 0.0
	if max > 0 {
		count = fmt.Sprintf("%d/%d", now, max)
		percent = float64(now) / float64(max) * 100
	}

	countStyle := lipgloss.NewStyle().Foreground(interpolateColor(percent, 0, 100))
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.label.Render("players:"),
		" ",
		renderProgressBar(percent, playerBarWidth, s),
		" ",
		countStyle.Render(count),
	), true
}

func renderProgressBar(filledPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(filledPercent) / 100))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatCheckedAgo(checkedAt, now time.Time) string {
	elapsed := now.Sub(checkedAt)
	switch {
	case elapsed < time.Second:
		return "checked just now"
	case elapsed < time.Minute:
		return fmt.Sprintf("checked %ds ago", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("checked %dm ago", int(elapsed.Minutes()))
	default:
		return "checked at " + checkedAt.Format("15:04 on 02 Jan")
	}
}

// interpolateColor walks the 240..255 greyscale ramp, brighter as value nears max.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
