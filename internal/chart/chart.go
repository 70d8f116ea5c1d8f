// Package chart renders the display panel pieces: a threshold scale bar for
// the current value and the two image variants.
package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensores/internal/classify"
	"github.com/luki/sensores/internal/sensor"
)

// ValueColor returns the accent colour for a display state.
func ValueColor(s classify.DisplayState) lipgloss.Color {
	switch {
	case s.Background == classify.BackgroundAlert:
		return lipgloss.Color("196") // red
	case s.Emphasis == classify.EmphasisAlert:
		return lipgloss.Color("208") // orange
	case s.Image == classify.ImageOne:
		return lipgloss.Color("220") // yellow
	default:
		return lipgloss.Color("78") // soft green
	}
}

// BackgroundColor maps the optional label background to a terminal colour.
func BackgroundColor(b classify.Background) (lipgloss.Color, bool) {
	switch b {
	case classify.BackgroundAlert:
		return lipgloss.Color("160"), true
	case classify.BackgroundNormal:
		return lipgloss.Color("242"), true
	}
	return "", false
}

// ScaleRange returns the display range used for a kind's scale bar.
func ScaleRange(kind sensor.Kind) (min, max float64) {
	switch kind {
	case sensor.Proximity:
		return 0, 5
	case sensor.MagneticField:
		return 0, 120
	case sensor.Light:
		return 0, 40
	case sensor.Tilt:
		return -1, 1
	}
	return 0, 1
}

// RenderScale renders a scale bar showing the current value against the
// rule threshold. Values outside the range are pinned to the ends.
func RenderScale(s classify.DisplayState, width int) string {
	if width <= 0 {
		return ""
	}

	rangeMin, rangeMax := ScaleRange(s.Kind)
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	bar := make([]rune, width)
	for i := range bar {
		bar[i] = '·'
	}

	thPos := -1
	if s.Threshold > rangeMin && s.Threshold < rangeMax {
		thPos = int(float64(width-1) * (s.Threshold - rangeMin) / span)
		bar[thPos] = '▪'
	}

	curPos := int(float64(width-1) * (s.Value - rangeMin) / span)
	if curPos < 0 {
		curPos = 0
	}
	if curPos >= width {
		curPos = width - 1
	}

	var sb strings.Builder
	for i, ch := range bar {
		switch {
		case i == curPos:
			style := lipgloss.NewStyle().Foreground(ValueColor(s)).Bold(true)
			sb.WriteString(style.Render("◆"))
		case i == thPos:
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Render(string(ch)))
		default:
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("236")).Render(string(ch)))
		}
	}

	return sb.String()
}

// RenderScaleLegend renders the min, threshold and max under a scale bar.
func RenderScaleLegend(s classify.DisplayState, width int) string {
	rangeMin, rangeMax := ScaleRange(s.Kind)
	left := fmt.Sprintf("%g", rangeMin)
	mid := fmt.Sprintf("threshold %g", s.Threshold)
	right := fmt.Sprintf("%g", rangeMax)

	gap := width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right)
	if gap < 2 {
		return left + " " + mid + " " + right
	}
	lpad := gap / 2
	return left + strings.Repeat(" ", lpad) + mid + strings.Repeat(" ", gap-lpad) + right
}

var images = map[classify.Image][]string{
	classify.ImageOne: {
		"  ▄████▄  ",
		" ██ ●● ██ ",
		" ██ ●● ██ ",
		"  ▀████▀  ",
	},
	classify.ImageTwo: {
		"  ╭────╮  ",
		"  │    │  ",
		"  │    │  ",
		"  ╰────╯  ",
	},
}

// RenderImage renders one of the two image variants in the given colour.
func RenderImage(img classify.Image, color lipgloss.Color) string {
	lines, ok := images[img]
	if !ok {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(color)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = style.Render(l)
	}
	return strings.Join(out, "\n")
}
