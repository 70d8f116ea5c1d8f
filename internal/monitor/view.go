package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensores/internal/chart"
	"github.com/luki/sensores/internal/classify"
	"github.com/luki/sensores/internal/controller"
)

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorCrit     = lipgloss.Color("196")
	colorPaused   = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 60 {
		contentWidth = 60
	}

	sections := []string{m.renderTitleBar(contentWidth)}

	if m.err != nil {
		errBox := lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" ERROR: %v", m.err))
		sections = append(sections, errBox)
	}

	panelWidth := contentWidth - listWidth - 1
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.list.View(),
		" ",
		m.renderDisplay(panelWidth),
	)
	sections = append(sections, body)

	if toasts := m.renderNotices(contentWidth); toasts != "" {
		sections = append(sections, toasts)
	}

	sections = append(sections, m.renderFooter(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("SENSORES")

	dimS := lipgloss.NewStyle().Foreground(colorDim)

	statusParts := []string{
		lipgloss.NewStyle().Foreground(colorLabel).Render(m.phaseText()),
		dimS.Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime)))),
		dimS.Render(fmt.Sprintf("%d devices", len(m.catalog.Devices()))),
	}

	if m.paused {
		p := lipgloss.NewStyle().
			Foreground(colorPaused).
			Bold(true).
			Render("PAUSED")
		statusParts = append(statusParts, p)
	}

	sep := dimS.Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderDisplay(width int) string {
	if width < 20 {
		width = 20
	}
	inner := width - 4

	var rows []string
	dimS := lipgloss.NewStyle().Foreground(colorDim)

	switch {
	case m.display != nil:
		s := *m.display
		rows = append(rows, renderLabel(s, inner), "")
		rows = append(rows, chart.RenderImage(s.Image, chart.ValueColor(s)), "")
		rows = append(rows, chart.RenderScale(s, inner), dimS.Render(chart.RenderScaleLegend(s, inner)))
	case len(m.catalog.List()) == 0:
		rows = append(rows, dimS.Render("No sensors available on this platform."))
	case m.status.Phase == controller.Active:
		rows = append(rows, dimS.Render("Waiting for "+m.status.Kind.DisplayName()+"..."))
	case m.status.Phase == controller.Suspended:
		rows = append(rows, dimS.Render(m.status.Kind.DisplayName()+" paused in background."))
	default:
		rows = append(rows, dimS.Render("Select a sensor and press enter."))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderLabel draws the label bold and padded under alert emphasis, on the
// state's background colour when it has one.
func renderLabel(s classify.DisplayState, width int) string {
	style := lipgloss.NewStyle().Foreground(colorLabel).MaxWidth(width)
	if s.Emphasis == classify.EmphasisAlert {
		style = style.Bold(true).Padding(1, 2)
	}
	if bg, ok := chart.BackgroundColor(s.Background); ok {
		style = style.Background(bg).Foreground(lipgloss.Color("255"))
	}
	return style.Render(s.Label)
}

func (m Model) renderNotices(width int) string {
	items := m.notices.LastN(noticeKeep)
	if len(items) == 0 {
		return ""
	}
	rows := make([]string, len(items))
	for i, n := range items {
		color := colorOk
		if n.Failure() {
			color = colorCrit
		}
		rows[i] = lipgloss.NewStyle().
			Foreground(color).
			Width(width).
			Padding(0, 1).
			Render("● " + n.Text())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	labelS := lipgloss.NewStyle().Foreground(colorLabel)

	var keys []string
	for _, b := range m.keys.bindings() {
		h := b.Help()
		keys = append(keys, dimS.Render(h.Key)+labelS.Render(":"+h.Desc))
	}
	keys = append(keys, dimS.Render("j/k")+labelS.Render(":select"))
	help := strings.Join(keys, "  ")

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(help)
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
