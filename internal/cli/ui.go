package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/placement"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"

	// cellGlyph is drawn once per grid cell; two columns wide so cells look
	// square in most terminal fonts.
	cellGlyph  = "██"
	emptyGlyph = "  "
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// statsLine formats build statistics on a single line.
func statsLine(elements, steps int, score float64, cached bool) string {
	parts := []string{
		fmt.Sprintf("%d elements", elements),
		fmt.Sprintf("%d steps", steps),
		fmt.Sprintf("score %.3f", score),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	var b strings.Builder
	b.WriteString("  ")
	for _, part := range parts {
		b.WriteString(StyleDim.Render(part))
		b.WriteString(StyleDim.Render(" · "))
	}
	b.WriteString(statusStyle.Render(status))
	return b.String()
}

// printStats prints build statistics on a single line.
func printStats(elements, steps int, score float64, cached bool) {
	fmt.Println(statsLine(elements, steps, score, cached))
}

// =============================================================================
// Grid Display
// =============================================================================

// gridPos addresses a cell of a rendered grid.
type gridPos struct{ row, column int }

// renderGrid draws a grid snapshot with each element in its dataset colour,
// rows top to bottom as in the image sinks. highlight, if non-nil, marks one
// cell.
func renderGrid(d *dataset.Dataset, grid placement.Snapshot, highlight *gridPos) string {
	styles := make(map[placement.Element]lipgloss.Style)
	style := func(column, id int) lipgloss.Style {
		key := placement.Element{Column: column, Row: id}
		if s, ok := styles[key]; ok {
			return s
		}
		var fg lipgloss.TerminalColor = colorGray
		if c := d.Element(column, id).Color; c != "" {
			fg = lipgloss.Color(c)
		}
		s := lipgloss.NewStyle().Foreground(fg)
		styles[key] = s
		return s
	}

	var b strings.Builder
	for row := range grid.Height() {
		for col := range grid.Depth() {
			id := grid.At(row, col)
			switch {
			case id == placement.Empty:
				b.WriteString(emptyGlyph)
			case highlight != nil && highlight.column == col && highlight.row == row:
				b.WriteString(StyleTitle.Render("[]"))
			default:
				b.WriteString(style(col, id).Render(cellGlyph))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
