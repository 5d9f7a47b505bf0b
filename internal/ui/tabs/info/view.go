package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/modelgate/console/internal/format"
	"github.com/modelgate/console/internal/ui/components"
	"github.com/modelgate/console/internal/ui/styles"
	"github.com/modelgate/console/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Gateway connection, configuration, and build details")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	cardWidth := m.width - 6
	if cardWidth < 50 {
		cardWidth = 50
	}
	if cardWidth > 80 {
		cardWidth = 80
	}
	return cardWidth
}

// renderConfigCard renders the effective gateway configuration.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	cfg := m.currentConfig()
	if cfg == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	windowHours := cfg.MetricsWindowHours
	if m.manager != nil {
		windowHours = m.manager.WindowHours()
	}

	rows = append(rows, renderConfigRow("API URL", cfg.APIURL))
	rows = append(rows, renderConfigRow("API Token", maskToken(cfg.APIToken)))
	rows = append(rows, renderConfigRow("Request Timeout", cfg.RequestTimeout.String()))
	rows = append(rows, renderConfigRow("Metrics Refresh", cfg.MetricsRefreshInterval.String()))
	rows = append(rows, renderConfigRow("Metrics Window", fmt.Sprintf("%dh", windowHours)))
	rows = append(rows, renderConfigRow("Error Threshold", format.Percent(cfg.ErrorRateThreshold)))
	rows = append(rows, renderConfigRow("Database", cfg.DatabasePath))
	rows = append(rows, renderConfigRow("Export Dir", cfg.ExportDir))
	rows = append(rows, renderConfigRow("Log File", orUnset(cfg.LogFile)))
	rows = append(rows, renderConfigRow("Env File", orUnset(cfg.EnvFile)))

	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render("Press 'c' to copy the database path"))
	rows = append(rows, styles.HelpStyle.Render("Edits to the env file are picked up while the console runs"))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About ModelGate Console"))
	rows = append(rows, "")

	rows = append(rows, renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, renderConfigRow("Commit", version.GetCommit()))
	rows = append(rows, renderConfigRow("Built", version.GetDate()))
	rows = append(rows, renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))
	rows = append(rows, "")

	last := m.state.GetLastUpdated()
	updated := "never"
	if !last.IsZero() {
		updated = humanize.Time(last)
	}
	rows = append(rows, fmt.Sprintf("Last metrics update: %s", styles.InfoTextStyle.Render(updated)))

	if metrics := m.state.GetMetrics(); metrics != nil && metrics.TotalRequests > 0 {
		rows = append(rows, components.RateBar(metrics.SuccessRate*100, "success", m.cardWidth()-8))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// maskToken hides the middle of a bearer token, keeping just enough to
// recognize which credential is configured.
func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", 4) + token[len(token)-4:]
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
