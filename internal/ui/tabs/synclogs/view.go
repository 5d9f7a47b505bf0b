package synclogs

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/modelgate/console/internal/browse"
	"github.com/modelgate/console/internal/format"
	"github.com/modelgate/console/internal/models"
	"github.com/modelgate/console/internal/ui/styles"
)

// View renders the sync history tab.
func (m *Model) View() string {
	if m.viewing && m.detailRec != nil {
		return m.renderDetail()
	}

	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderStatsCard())

	if m.flow.Confirming() {
		sections = append(sections, m.renderConfirm())
	}

	sections = append(sections, m.renderTable())
	sections = append(sections, m.renderFooter())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Model Sync")

	subtitle := fmt.Sprintf("%s runs · page %d/%d · %d per page",
		format.Count(m.query.Total()),
		m.query.Page(),
		m.query.Pages(),
		m.query.PageSize(),
	)
	if n := m.selection.Count(); n > 0 {
		subtitle += " · " + styles.MarkedRowStyle.Render(fmt.Sprintf("%d selected", n))
	}
	if !m.showUnchanged {
		subtitle += " · " + styles.UnchangedStyle.Render("unchanged hidden")
	}
	if m.loading {
		subtitle += " · loading..."
	}

	lines := []string{title, styles.HelpStyle.Render(subtitle)}
	if m.fetchErr != "" {
		lines = append(lines, styles.ErrorTextStyle.Render("Last fetch failed: "+m.fetchErr))
	}
	lines = append(lines, "")

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderStatsCard renders the scheduler summary above the table.
func (m *Model) renderStatsCard() string {
	cardWidth := m.width - 6
	if cardWidth < 60 {
		cardWidth = 60
	}

	if m.stats == nil {
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				styles.CardTitleStyle.Render("🔄 Sync Scheduler"),
				"",
				styles.HelpStyle.Render("Scheduler stats not loaded yet."),
			))
	}

	stats := m.stats

	counters := lipgloss.JoinHorizontal(lipgloss.Top,
		fmt.Sprintf("Providers: %d", stats.TotalProviders),
		"   ",
		styles.SuccessTextStyle.Render(fmt.Sprintf("updated: %d", stats.ProvidersWithUpdates)),
		"   ",
		styles.UnchangedStyle.Render(fmt.Sprintf("unchanged: %d", stats.ProvidersUnchanged)),
		"   ",
		styles.ErrorTextStyle.Render(fmt.Sprintf("errors: %d", stats.ProvidersWithErrors)),
	)

	enabled := styles.ErrorTextStyle.Render("disabled")
	if stats.SyncEnabled {
		enabled = styles.SuccessTextStyle.Render(fmt.Sprintf("enabled, every %d min", stats.SyncInterval))
	}

	schedule := fmt.Sprintf("Last sync: %s", format.OptTimestamp(stats.LastSyncAt))
	// The next-run time only means something while the scheduler runs.
	if stats.SyncEnabled {
		schedule += fmt.Sprintf("   Next sync: %s", format.OptTimestamp(stats.NextSyncAt))
	}

	rows := []string{
		styles.CardTitleStyle.Render("🔄 Sync Scheduler"),
		"",
		counters,
		schedule,
		"Automatic sync: " + enabled,
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

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

func (m *Model) renderEmptyState() string {
	cardWidth := m.width - 6
	if cardWidth < 40 {
		cardWidth = 40
	}

	hint := "Press 'S' to run a sync against every provider."
	if !m.showUnchanged {
		hint = "Press 'u' to include unchanged runs, or 'S' to sync now."
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render("No Sync Runs"),
		"",
		styles.HelpStyle.Render(hint),
		"",
	)

	return styles.CardStyle.Width(cardWidth).Render(content)
}

func (m *Model) renderConfirm() string {
	cardWidth := 50

	var question string
	switch m.flow.Kind() {
	case browse.KindDeleteOne:
		ids := m.flow.IDs()
		question = fmt.Sprintf("Delete sync log #%d?", ids[0])
	case browse.KindDeleteBatch:
		question = fmt.Sprintf("Delete %d selected sync logs?", len(m.flow.IDs()))
	case browse.KindClearAll:
		question = "Delete ALL sync history?"
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
	} else {
		shortcuts = []string{
			styles.HelpKeyStyle.Render("S") + " sync now",
			styles.HelpKeyStyle.Render("u") + " unchanged",
			styles.HelpKeyStyle.Render("h/l") + " page",
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

// renderDetail renders the full-screen run inspector.
func (m *Model) renderDetail() string {
	rec := m.detailRec

	title := styles.TitleStyle.Render(fmt.Sprintf("Sync #%d", rec.ID))
	status := statusStyle(rec.Status).Render(rec.Status)
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", status)

	m.detail.SetContent(m.detailContent(rec))

	footer := lipgloss.NewStyle().
		MarginTop(1).
		Foreground(styles.TextMuted).
		Render(
			styles.HelpKeyStyle.Render("j/k") + " scroll" +
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

func (m *Model) detailContent(rec *models.ModelSyncLogRecord) string {
	cardWidth := m.detail.Width - 2
	if cardWidth < 40 {
		cardWidth = 40
	}

	var cards []string

	overview := []string{
		styles.CardTitleStyle.Render("📋 Run"),
		"",
		detailRow("Provider", rec.ProviderName),
		detailRow("Synced at", format.Timestamp(rec.SyncedAt)),
		detailRow("Status", rec.Status),
		detailRow("Added", fmt.Sprintf("%d", rec.AddedCount)),
		detailRow("Removed", fmt.Sprintf("%d", rec.RemovedCount)),
	}
	cards = append(cards, styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, overview...)))

	if rec.Error != "" {
		cards = append(cards, styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				styles.CardTitleStyle.Render("❌ Error"),
				"",
				styles.ErrorTextStyle.Render(rec.Error),
			)))
	}

	if len(rec.AddedModels) > 0 {
		rows := []string{styles.CardTitleStyle.Render("➕ Added Models"), ""}
		for _, name := range rec.AddedModels {
			rows = append(rows, styles.DiffAddedStyle.Render("+ "+name))
		}
		cards = append(cards, styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...)))
	}

	if len(rec.RemovedModels) > 0 {
		rows := []string{styles.CardTitleStyle.Render("➖ Removed Models"), ""}
		for _, name := range rec.RemovedModels {
			rows = append(rows, styles.DiffRemovedStyle.Render("- "+name))
		}
		cards = append(cards, styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...)))
	}

	if !rec.HasChanges() && rec.Error == "" {
		cards = append(cards, styles.CardStyle.Width(cardWidth).Render(
			styles.UnchangedStyle.Render("The provider's model list did not change.")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case models.SyncStatusUnchanged:
		return styles.UnchangedStyle
	case models.StatusError:
		return styles.StatusErrorStyle
	default:
		return styles.StatusSuccessStyle
	}
}

func detailRow(label, value string) string {
	return fmt.Sprintf("%s %s",
		styles.HelpStyle.Render(fmt.Sprintf("%-12s", label+":")),
		value,
	)
}
