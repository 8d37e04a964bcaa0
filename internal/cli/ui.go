package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// out receives command output. Logs and the spinner go to stderr.
var out io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorWater = lipgloss.Color("38")  // river blue - headings, numbers
	colorBank  = lipgloss.Color("71")  // green - success, cache hits
	colorSilt  = lipgloss.Color("179") // ochre - warnings
	colorDam   = lipgloss.Color("167") // red - errors
	colorFoam  = lipgloss.Color("255") // white - values
	colorStone = lipgloss.Color("245") // gray - labels
	colorShade = lipgloss.Color("240") // dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorWater)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorWater)
	StyleDim       = lipgloss.NewStyle().Foreground(colorShade)
	StyleValue     = lipgloss.NewStyle().Foreground(colorFoam)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorWater)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorBank)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorSilt)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorWater)
	styleIconError   = lipgloss.NewStyle().Foreground(colorDam)
	styleLabel       = lipgloss.NewStyle().Foreground(colorStone).Width(14)
	styleCommand     = lipgloss.NewStyle().Foreground(colorWater).Italic(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconBullet  = "·"
)

// =============================================================================
// Status lines
// =============================================================================

// status prints msg after a colored icon.
func status(icon string, iconStyle lipgloss.Style, msg string) {
	fmt.Fprintln(out, iconStyle.Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	status(iconSuccess, StyleSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status(iconWarning, StyleWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status(iconInfo, StyleDim, fmt.Sprintf(format, args...))
}

// PrintError writes err to w with the error icon.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+err.Error())
}

// =============================================================================
// Blocks
// =============================================================================

func printTitle(title string) {
	fmt.Fprintln(out, StyleTitle.Render(title))
}

// printItem prints one indented list entry.
func printItem(s string) {
	fmt.Fprintln(out, "  "+StyleValue.Render(s))
}

func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printRows prints record counts per table on one line.
func printRows(barriers, flowlines, catchments, tributaries int, cached bool) {
	printStatLine([]string{
		pluralize(barriers, "barrier", "barriers"),
		pluralize(flowlines, "flowline", "flowlines"),
		pluralize(catchments, "catchment", "catchments"),
		pluralize(tributaries, "tributary", "tributaries"),
	}, cached)
}

// printStatLine joins parts with dots and appends whether the records
// came from the cache.
func printStatLine(parts []string, cached bool) {
	source := StyleDim.Render("fresh")
	if cached {
		source = StyleSuccess.Render("cached")
	}
	dim := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		dim = append(dim, StyleDim.Render(p))
	}
	dim = append(dim, source)
	fmt.Fprintln(out, "  "+strings.Join(dim, StyleDim.Render(" "+iconBullet+" ")))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(out)
}

// =============================================================================
// Formatting
// =============================================================================

// pluralize formats n with the singular or plural noun.
func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return strconv.Itoa(n) + " " + singular
	}
	return strconv.Itoa(n) + " " + plural
}

// formatQuantity formats a length or area for display.
func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
