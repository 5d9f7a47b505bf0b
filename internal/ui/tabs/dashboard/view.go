package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/modelgate/console/internal/format"
	"github.com/modelgate/console/internal/models"
	"github.com/modelgate/console/internal/ui/components"
	"github.com/modelgate/console/internal/ui/styles"
)

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	metrics := m.state.GetMetrics()

	var sections []string

	sections = append(sections, m.renderTitle())

	if metrics == nil {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, m.renderStatCards(metrics))
		sections = append(sections, m.renderVolumeCard(metrics))
		sections = append(sections, m.renderTokenCard(metrics))
		sections = append(sections, m.renderHourlyCard(metrics))
		if m.window != models.Window24Hours {
			sections = append(sections, m.renderWeekdayCard(metrics))
		}
	}

	if card := m.renderTrendCard(); card != "" {
		sections = append(sections, card)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the dashboard title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Traffic Overview")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf(
		"Aggregated over the last %s · press t to change the window",
		strings.ToLower(m.window.String()),
	))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderEmptyState() string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, cardTitle("Gateway Metrics"))
	rows = append(rows, "")
	emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
	rows = append(rows, fmt.Sprintf("  %s %s", emptyIcon, styles.HelpStyle.Render("No metrics received yet")))
	rows = append(rows, "")
	rows = append(rows, styles.InfoTextStyle.Render("  ╰─▶ Waiting for the first poll; check the API URL on the Info tab if this persists"))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderStatCards renders the row of headline counters.
func (m *Model) renderStatCards(metrics *models.Metrics) string {
	rowWidth := max(m.width-6, 40)
	cardWidth := max(rowWidth/4, 18)
	inner := max(cardWidth-4, 14)

	requests := renderStatCard("Requests", format.Count(metrics.TotalRequests),
		fmt.Sprintf("%s ok · %s failed", format.Count(metrics.SuccessCount), format.Count(metrics.ErrorCount)),
		cardWidth)

	rate := m.renderRateCard(metrics, cardWidth, inner)

	tokens := renderStatCard("Tokens", format.Count(metrics.TotalTokens),
		fmt.Sprintf("in %s · out %s", format.Count(metrics.PromptTokens), format.Count(metrics.CompletionTokens)),
		cardWidth)

	throughput := renderStatCard("Throughput", fmt.Sprintf("%.2f tok/s", metrics.AvgTps),
		"average per request", cardWidth)

	return lipgloss.JoinHorizontal(lipgloss.Top, requests, rate, tokens, throughput)
}

func renderStatCard(title, value, detail string, width int) string {
	rows := []string{
		styles.CardTitleStyle.Render(title),
		lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimary).Render(value),
		styles.HelpStyle.Render(detail),
	}
	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRateCard(metrics *models.Metrics, width, inner int) string {
	rows := []string{
		styles.CardTitleStyle.Render("Success Rate"),
		m.gauge.ViewCompact(m.gauge.Percent(), inner),
		styles.HelpStyle.Render(fmt.Sprintf("%s of %s ok",
			format.Count(metrics.SuccessCount), format.Count(metrics.TotalRequests))),
	}
	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderVolumeCard renders the bucketed request/error line chart.
func (m *Model) renderVolumeCard(metrics *models.Metrics) string {
	cardWidth := max(m.width-6, 40)

	rows := []string{cardTitle("Request Volume"), ""}

	if len(metrics.Series) < 2 {
		rows = append(rows, styles.HelpStyle.Render("  Not enough buckets to chart yet."))
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	requests := make([]float64, len(metrics.Series))
	errorCounts := make([]float64, len(metrics.Series))
	for i, bucket := range metrics.Series {
		requests[i] = float64(bucket.Requests)
		errorCounts[i] = float64(bucket.Errors)
	}

	chart := components.RenderDualLineChart(requests, errorCounts,
		max(cardWidth-16, 20), 8, fmt.Sprintf("requests per %s", m.bucketUnit()))
	for line := range strings.SplitSeq(chart, "\n") {
		rows = append(rows, "  "+line)
	}

	rows = append(rows, "")
	legend := components.RenderLegend([]components.LegendItem{
		{Label: "requests", Color: components.ChartRequestsColor},
		{Label: "errors", Color: components.ChartErrorsColor},
	})
	rows = append(rows, "  "+legend)

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderTokenCard renders token consumption across the series buckets.
func (m *Model) renderTokenCard(metrics *models.Metrics) string {
	cardWidth := max(m.width-6, 40)

	rows := []string{cardTitle("Token Volume"), ""}

	if len(metrics.Series) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Not enough buckets to chart yet."))
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	tokens := make([]float64, len(metrics.Series))
	var peak int64
	for i, bucket := range metrics.Series {
		tokens[i] = float64(bucket.Tokens)
		if bucket.Tokens > peak {
			peak = bucket.Tokens
		}
	}

	rows = append(rows, "  "+components.RenderSparkline(tokens, max(cardWidth-8, 20)))
	rows = append(rows, "")
	rows = append(rows, "  "+styles.HelpStyle.Render(fmt.Sprintf(
		"%s total · peak %s per %s",
		format.Count(metrics.TotalTokens), format.Count(peak), m.bucketUnit(),
	)))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderHourlyCard(metrics *models.Metrics) string {
	cardWidth := max(m.width-6, 40)

	rows := []string{cardTitle("Busy Hours"), ""}
	rows = append(rows, "  "+components.RenderHourlyHeatmap(hourlyPattern(metrics.Series)))
	rows = append(rows, "")
	rows = append(rows, "  "+styles.HelpStyle.Render("░ idle · █ peak, local time"))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderWeekdayCard renders each weekday's share of the window's traffic.
func (m *Model) renderWeekdayCard(metrics *models.Metrics) string {
	cardWidth := max(m.width-6, 40)

	rows := []string{cardTitle("Weekday Pattern"), ""}

	pattern := weekdayPattern(metrics.Series)
	var total float64
	for _, v := range pattern {
		total += v
	}

	if total == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No weekday data available"))
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	shares := make([]float64, len(pattern))
	peak := 0
	for i, v := range pattern {
		shares[i] = v / total * 100
		if v > pattern[peak] {
			peak = i
		}
	}

	dayNames := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	barChart := components.RenderBarChart(shares, dayNames, max(cardWidth-12, 30))
	for line := range strings.SplitSeq(barChart, "\n") {
		rows = append(rows, "  "+line)
	}

	rows = append(rows,
		"",
		fmt.Sprintf("  Peak day: %s (%.1f%% of requests)",
			lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render(time.Weekday(peak).String()),
			shares[peak],
		),
	)

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderTrendCard charts the locally captured snapshots. It needs at least
// two samples, so the card only appears once the console has observed a
// couple of poll cycles.
func (m *Model) renderTrendCard() string {
	if len(m.snapshots) < 2 {
		return ""
	}

	cardWidth := max(m.width-6, 40)
	sparkWidth := max(cardWidth-20, 20)

	throughput := make([]float64, len(m.snapshots))
	errorRates := make([]float64, len(m.snapshots))
	for i, snap := range m.snapshots {
		throughput[i] = snap.AvgTps
		if snap.TotalRequests > 0 {
			errorRates[i] = float64(snap.ErrorCount) / float64(snap.TotalRequests) * 100
		}
	}

	label := lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(12)

	rows := []string{cardTitle("Session Trend"), ""}
	rows = append(rows, fmt.Sprintf("  %s%s",
		label.Render("throughput"), components.RenderSparkline(throughput, sparkWidth)))
	rows = append(rows, fmt.Sprintf("  %s%s",
		label.Render("error rate"), components.RenderColoredSparkline(errorRates, sparkWidth)))
	rows = append(rows, "")

	oldest := m.snapshots[0]
	rows = append(rows, "  "+styles.HelpStyle.Render(fmt.Sprintf(
		"%d samples since %s", len(m.snapshots), format.Timestamp(oldest.CapturedAt))))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func cardTitle(text string) string {
	icon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	return fmt.Sprintf("%s %s", icon, styles.CardTitleStyle.Render(text))
}

func (m *Model) bucketUnit() string {
	if m.window == models.Window24Hours {
		return "hour"
	}
	return "day"
}

// hourlyPattern folds the series into request totals per local hour of day.
func hourlyPattern(series []models.MetricsBucket) []float64 {
	pattern := make([]float64, 24)
	for _, bucket := range series {
		pattern[bucket.Bucket.Local().Hour()] += float64(bucket.Requests)
	}
	return pattern
}

// weekdayPattern folds the series into request totals per local weekday.
func weekdayPattern(series []models.MetricsBucket) []float64 {
	pattern := make([]float64, 7)
	for _, bucket := range series {
		pattern[int(bucket.Bucket.Local().Weekday())] += float64(bucket.Requests)
	}
	return pattern
}
