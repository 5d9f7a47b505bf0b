// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/modelgate/console/internal/logger"
	"github.com/modelgate/console/internal/ui/styles"
)

type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// Gauge renders an animated percentage bar with label, used for the
// dashboard success-rate display.
type Gauge struct {
	progress       progress.Model
	label          string
	percent        float64
	animationFrame int
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewGauge creates a gauge with gradient colors.
func NewGauge() Gauge {
	return NewGaugeWithWidth(30)
}

// NewGaugeWithWidth creates a gauge with a specific width.
func NewGaugeWithWidth(width int) Gauge {
	p := progress.New(
		progress.WithScaledGradient("#ff6b6b", "#51cf66"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)

	return Gauge{
		progress:       p,
		label:          "",
		percent:        0,
		animationFrame: 0,
		isAnimating:    false,
		targetPercent:  0,
		currentPercent: 0,
	}
}

// Init initializes the progress bar model.
func (g Gauge) Init() tea.Cmd {
	return nil
}

// Update handles progress bar animation messages.
func (g Gauge) Update(msg tea.Msg) (Gauge, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.(type) {
	case AnimationTickMsg:
		if g.isAnimating {
			g.animationFrame++

			if g.currentPercent < g.targetPercent {
				step := (g.targetPercent - g.currentPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				g.currentPercent += step
				if g.currentPercent > g.targetPercent {
					g.currentPercent = g.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else if g.currentPercent > g.targetPercent {
				step := (g.currentPercent - g.targetPercent) / 10
				if step < 0.5 {
					step = 0.5
				}
				g.currentPercent -= step
				if g.currentPercent < g.targetPercent {
					g.currentPercent = g.targetPercent
				}
				cmds = append(cmds, animationTick())
			} else {
				g.isAnimating = false
			}
		}
	}

	var cmd tea.Cmd
	model, cmd := g.progress.Update(msg)
	g.progress = model.(progress.Model)
	cmds = append(cmds, cmd)

	return g, tea.Batch(cmds...)
}

// SetPercent sets the target percentage and starts the animation.
func (g *Gauge) SetPercent(percent float64) tea.Cmd {
	g.percent = percent
	g.targetPercent = percent

	if !g.isAnimating {
		g.isAnimating = true
		g.animationFrame = 0
		return tea.Batch(
			g.progress.SetPercent(percent/100),
			animationTick(),
		)
	}

	return g.progress.SetPercent(percent / 100)
}

// SetLabel sets the bar label.
func (g *Gauge) SetLabel(label string) {
	g.label = label
}

// Percent returns the eased value the animation has reached so far,
// which trails the target set by SetPercent until the sweep finishes.
func (g Gauge) Percent() float64 {
	return g.currentPercent
}

// SetWidth sets the progress bar width.
func (g *Gauge) SetWidth(width int) {
	g.progress.Width = width
}

// View renders the gauge with percentage and label.
func (g Gauge) View(percent float64, label string, width int) string {
	// Update the progress bar width
	barWidth := width - 30 // Reserve space for label and percentage
	if barWidth < 10 {
		barWidth = 10
	}
	g.progress.Width = barWidth

	// Render the progress bar
	bar := g.progress.ViewAs(percent / 100)

	// Format percentage with color
	percentStyle := styles.GetRateStyle(percent)
	percentStr := percentStyle.Width(6).Align(lipgloss.Right).Render(fmt.Sprintf("%.0f%%", percent))

	// Render label
	labelStyle := styles.ProgressLabelStyle
	labelStr := labelStyle.Width(15).Render(label)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		bar,
		" ",
		percentStr,
	)
}

// ViewCompact renders a compact version without label.
func (g Gauge) ViewCompact(percent float64, width int) string {
	barWidth := width - 8
	if barWidth < 5 {
		barWidth = 5
	}
	g.progress.Width = barWidth

	bar := g.progress.ViewAs(percent / 100)
	percentStyle := styles.GetRateStyle(percent)
	percentStr := percentStyle.Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#ff6b6b", "#51cf66", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// RateBar renders a static labeled percentage bar with gradient colors.
func RateBar(percent float64, label string, width int) string {
	labelWidth := len(label) + 1
	percentWidth := 6
	barWidth := width - labelWidth - percentWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	bar := RenderGradientBar(percent, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := styles.GetRateStyle(percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
