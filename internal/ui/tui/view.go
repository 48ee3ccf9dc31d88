package tui

import (
	"fmt"
	"strings"
	"time"

	"vpctier/internal/tiers"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

func renderView(m Model) string {
	var b strings.Builder

	title := fmt.Sprintf("vpctier  %s", m.StackName)
	if m.Region != "" {
		title += "  (" + m.Region + ")"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(failedStyle.Render(crossMark + " " + m.Err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	if m.Status == nil {
		frame := spinnerFrames[m.SpinnerFrame%len(spinnerFrames)]
		b.WriteString(dimStyle.Render(spinMark + " " + frame + " fetching stack state..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(renderTierLine(m.Status.Tier))
	b.WriteString("\n")

	if len(m.Status.Rows) == 0 {
		b.WriteString(dimStyle.Render("no resources; run up to create the stack"))
		b.WriteString("\n")
	} else {
		b.WriteString(sectionStyle.Render("Resources"))
		b.WriteString("\n")
		for _, row := range m.Status.Rows {
			b.WriteString(renderRow(row))
			b.WriteString("\n")
		}
	}

	footer := "q quit · r refresh"
	if !m.FetchedAt.IsZero() {
		footer += fmt.Sprintf(" · refreshed %s ago", time.Since(m.FetchedAt).Round(time.Second))
	}
	b.WriteString(footerStyle.Render(footer))
	b.WriteString("\n")
	return b.String()
}

func renderTierLine(tier tiers.Tier) string {
	switch tier {
	case tiers.TierCompute:
		return readyStyle.Render(checkMark + " tier: compute (full stack up)")
	case tiers.TierRouting:
		return readyStyle.Render(checkMark + " tier: routing")
	case tiers.TierNetwork:
		return warningStyle.Render(checkMark + " tier: network")
	default:
		return dimStyle.Render("no tier is up")
	}
}

func renderRow(row tiers.StatusRow) string {
	mark := checkMark
	style := readyStyle
	switch {
	case strings.Contains(row.Detail, "pending") || strings.Contains(row.Detail, "deleting"):
		mark = spinMark
		style = warningStyle
	case strings.Contains(row.Detail, "failed") || row.Detail == "detached":
		mark = crossMark
		style = failedStyle
	}
	line := fmt.Sprintf("%s %-14s %-24s %-22s %s", mark, row.Kind, row.Name, row.ID, row.Detail)
	return style.Render(line)
}
