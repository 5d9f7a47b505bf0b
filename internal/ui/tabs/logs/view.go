package logs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/modelgate/console/internal/browse"
	"github.com/modelgate/console/internal/format"
	"github.com/modelgate/console/internal/models"
	"github.com/modelgate/console/internal/ui/styles"
)

// View renders the logs tab.
func (m *Model) View() string {
	if m.viewing && m.detailRec != nil {
		return m.renderDetail()
	}

	var sections []string

	sections = append(sections, m.renderTitle())

	if m.flow.Confirming() {
		sections = append(sections, m.renderConfirm())
	}
	if m.filtering {
		sections = append(sections, m.renderFilterPanel())
	}

	sections = append(sections, m.renderTable())
	sections = append(sections, m.renderFooter())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

// renderTitle renders the tab title with the pagination summary.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Request Logs")

	subtitle := fmt.Sprintf("%s records · page %d/%d · %d per page",
		format.Count(m.query.Total()),
		m.query.Page(),
		m.query.Pages(),
		m.query.PageSize(),
	)
	if n := m.selection.Count(); n > 0 {
		subtitle += " · " + styles.MarkedRowStyle.Render(fmt.Sprintf("%d selected", n))
	}
	if m.loading {
		subtitle += " · loading..."
	}

	lines := []string{title, styles.HelpStyle.Render(subtitle)}

	if summary := m.filterSummary(); summary != "" {
		lines = append(lines, styles.InfoTextStyle.Render(summary))
	}
	if m.fetchErr != "" {
		lines = append(lines, styles.ErrorTextStyle.Render("Last fetch failed: "+m.fetchErr))
	}

	lines = append(lines, "")
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// filterSummary lists the active filters, or "" when browsing unfiltered.
func (m *Model) filterSummary() string {
	filters := m.query.Filters()
	if filters.ActiveCount() == 0 {
		return ""
	}

	var parts []string
	for d := browse.Dimension(0); d < browse.NumDimensions; d++ {
		if v := filters.Get(d); v != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", d.String(), v))
		}
	}
	return "Filters: " + strings.Join(parts, "  ")
}

// renderTable renders the log table or an empty state.
func (m *Model) renderTable() string {
	if len(m.records) == 0 && !m.loading {
		return m.renderEmptyState()
	}

	cardWidth := m.width - 6
	if cardWidth < 60 {
		cardWidth = 60
	}
	return styles.CardStyle.Width(cardWidth).Render(m.table.View())
}

// renderEmptyState renders the placeholder shown when the page has no rows.
func (m *Model) renderEmptyState() string {
	cardWidth := m.width - 6
	if cardWidth < 40 {
		cardWidth = 40
	}

	heading := "No Request Logs"
	hint := "Traffic through the gateway will appear here."
	if m.query.Filters().ActiveCount() > 0 {
		heading = "No Matching Logs"
		hint = "Press 'c' to clear the active filters."
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render(heading),
		"",
		styles.HelpStyle.Render(hint),
		"",
	)

	return styles.CardStyle.Width(cardWidth).Render(content)
}

// renderFilterPanel renders the filter editor card.
func (m *Model) renderFilterPanel() string {
	cardWidth := m.width - 10
	if cardWidth < 50 {
		cardWidth = 50
	}
	if cardWidth > 80 {
		cardWidth = 80
	}

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Filters"))
	rows = append(rows, "")

	filters := m.query.Filters()
	for d := browse.Dimension(0); d < browse.NumDimensions; d++ {
		value := filters.Get(d)
		display := value
		if display == "" {
			display = "All"
		}

		label := fmt.Sprintf("%-11s", d.String())
		line := fmt.Sprintf("  %s %s", label, display)
		if d == m.filterDim {
			line = styles.FocusedStyle.Render(fmt.Sprintf("> %s ", label)) + styles.SelectedListItemStyle.Render(" "+display+" ")
		}
		rows = append(rows, line)
	}

	rows = append(rows, "")
	if !m.catalogsReady() {
		rows = append(rows, styles.WarningTextStyle.Render("Some filter values unavailable; catalogs still loading."))
	}
	rows = append(rows, styles.HelpStyle.Render("j/k: field | h/l: value | c: clear all | Esc: close"))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.ModalContentStyle.Width(cardWidth).Render(content)
}

// renderConfirm renders the destructive-action confirmation dialog.
func (m *Model) renderConfirm() string {
	cardWidth := 50

	var question string
	switch m.flow.Kind() {
	case browse.KindDeleteOne:
		ids := m.flow.IDs()
		question = fmt.Sprintf("Delete log #%d?", ids[0])
	case browse.KindDeleteBatch:
		question = fmt.Sprintf("Delete %d selected logs?", len(m.flow.IDs()))
	case browse.KindClearAll:
		question = "Delete ALL request logs?"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.WarningTextStyle.Bold(true).Render(question),
		"",
		"This action cannot be undone.",
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			styles.ButtonActiveStyle.Render(" (Y)es "),
			"  ",
			styles.ButtonInactiveStyle.Render(" (N)o "),
		),
		"",
	)

	return styles.CenterHorizontal(
		styles.ModalContentStyle.Width(cardWidth).Render(content),
		m.width,
	)
}

// renderFooter renders the footer with keyboard shortcuts, or the
// go-to-page prompt while it is open.
func (m *Model) renderFooter() string {
	if m.jumping {
		prompt := styles.FocusedStyle.Render("Go to page: ") + m.pageInput.View()
		return lipgloss.NewStyle().
			MarginTop(1).
			Render(prompt + styles.HelpStyle.Render("  (Enter: go | Esc: cancel)"))
	}

	var shortcuts []string
	if m.flow.Confirming() {
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Y") + " confirm",
			styles.HelpKeyStyle.Render("N") + " cancel",
		}
	} else if m.filtering {
		shortcuts = []string{
			styles.HelpKeyStyle.Render("j/k") + " field",
			styles.HelpKeyStyle.Render("h/l") + " value",
			styles.HelpKeyStyle.Render("c") + " clear",
			styles.HelpKeyStyle.Render("Esc") + " close",
		}
	} else {
		shortcuts = []string{
			styles.HelpKeyStyle.Render("h/l") + " page",
			styles.HelpKeyStyle.Render(":") + " go to",
			styles.HelpKeyStyle.Render("s") + " size",
			styles.HelpKeyStyle.Render("f") + " filter",
			styles.HelpKeyStyle.Render("space") + " select",
			styles.HelpKeyStyle.Render("enter") + " details",
			styles.HelpKeyStyle.Render("d/D/X") + " delete",
		}
	}

	footer := ""
	for i, s := range shortcuts {
		if i > 0 {
			footer += styles.HelpSeparatorStyle.Render(" | ")
		}
		footer += s
	}

	return lipgloss.NewStyle().
		MarginTop(1).
		Foreground(styles.TextMuted).
		Render(footer)
}

// renderDetail renders the full-screen record inspector.
func (m *Model) renderDetail() string {
	rec := m.detailRec

	title := styles.TitleStyle.Render(fmt.Sprintf("Log #%d", rec.ID))
	status := styles.GetStatusStyle(rec.Status).Render(strings.ToUpper(rec.Status))
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", status)

	m.detail.SetContent(m.detailContent(rec))

	footer := lipgloss.NewStyle().
		MarginTop(1).
		Foreground(styles.TextMuted).
		Render(
			styles.HelpKeyStyle.Render("j/k") + " scroll" +
				styles.HelpSeparatorStyle.Render(" | ") +
				styles.HelpKeyStyle.Render("e") + " export" +
				styles.HelpSeparatorStyle.Render(" | ") +
				styles.HelpKeyStyle.Render("d") + " delete" +
				styles.HelpSeparatorStyle.Render(" | ") +
				styles.HelpKeyStyle.Render("Esc") + " back",
		)

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", m.detail.View(), footer)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

// detailContent builds the scrollable body of the record inspector.
func (m *Model) detailContent(rec *models.LogRecord) string {
	cardWidth := m.detail.Width - 2
	if cardWidth < 40 {
		cardWidth = 40
	}

	var cards []string

	overview := []string{
		styles.CardTitleStyle.Render("📋 Overview"),
		"",
		detailRow("Time", format.Timestamp(rec.CreatedAt)),
		detailRow("Model", rec.Name),
		detailRow("Provider", rec.ProviderName),
		detailRow("Provider model", orMissing(rec.ProviderModel)),
		detailRow("Style", orMissing(rec.Style)),
		detailRow("Retries", fmt.Sprintf("%d", rec.Retry)),
		detailRow("User agent", orMissing(rec.UserAgent)),
		detailRow("Client IP", orMissing(rec.ClientIP)),
		detailRow("Chat I/O logged", fmt.Sprintf("%t", rec.ChatIO)),
	}
	cards = append(cards, styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, overview...)))

	if rec.IsError() && rec.Error != "" {
		errCard := []string{
			styles.CardTitleStyle.Render("❌ Error"),
			"",
			styles.ErrorTextStyle.Render(rec.Error),
		}
		cards = append(cards, styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, errCard...)))
	}

	timing := []string{
		styles.CardTitleStyle.Render("⏱️  Timing"),
		"",
		detailRow("Proxy time", format.OptDuration(rec.ProxyTime)),
		detailRow("First chunk", format.OptDuration(rec.FirstChunkTime)),
		detailRow("Total time", format.OptDuration(rec.ChunkTime)),
		detailRow("Throughput", format.TPS(rec.Tps)),
	}
	cards = append(cards, styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, timing...)))

	tokens := []string{
		styles.CardTitleStyle.Render("🔢 Tokens"),
		"",
		detailRow("Prompt", format.Tokens(rec.PromptTokens)),
		detailRow("Completion", format.Tokens(rec.CompletionTokens)),
		detailRow("Cached", format.Tokens(rec.CachedTokens)),
		detailRow("Total", format.Tokens(rec.TotalTokens)),
	}
	cards = append(cards, styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, tokens...)))

	cards = append(cards, m.payloadCard("📤 Request Headers", rec.RequestHeaders, cardWidth))
	cards = append(cards, m.payloadCard("📤 Request Body", rec.RequestBody, cardWidth))
	cards = append(cards, m.payloadCard("📥 Response Headers", rec.ResponseHeaders, cardWidth))

	if rec.HasRawResponse() {
		cards = append(cards, m.payloadCard("📥 Response Body (post-transformation)", rec.ResponseBody, cardWidth))
		cards = append(cards, m.payloadCard("📥 Raw Response Body (pre-transformation)", rec.RawResponseBody, cardWidth))
	} else {
		cards = append(cards, m.payloadCard("📥 Response Body", rec.ResponseBody, cardWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// payloadCard renders one headers/body section, marking empty captures.
func (m *Model) payloadCard(title, body string, cardWidth int) string {
	content := body
	if strings.TrimSpace(content) == "" {
		content = styles.HelpStyle.Render("(empty)")
	}
	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render(title),
			"",
			content,
		))
}

func detailRow(label, value string) string {
	return fmt.Sprintf("%s %s",
		styles.HelpStyle.Render(fmt.Sprintf("%-16s", label+":")),
		value,
	)
}

func orMissing(s string) string {
	if s == "" {
		return format.Missing
	}
	return s
}
