package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, good scores
	colorYellow = lipgloss.Color("220") // Amber - warnings, middling scores
	colorRed    = lipgloss.Color("167") // Soft red - errors, poor scores
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleScoreGood = lipgloss.NewStyle().Foreground(colorGreen)
	styleScoreFair = lipgloss.NewStyle().Foreground(colorYellow)
	styleScorePoor = lipgloss.NewStyle().Foreground(colorRed)

	styleLabel = lipgloss.NewStyle().Foreground(colorGray).Width(22)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// =============================================================================
// Report Table
// =============================================================================

// scoreStyle colors a score by band.
func scoreStyle(v float64) lipgloss.Style {
	switch {
	case v >= 0.7:
		return styleScoreGood
	case v >= 0.4:
		return styleScoreFair
	default:
		return styleScorePoor
	}
}

// printReport renders a report as a two-column table followed by one
// warning line per defaulted metric.
func printReport(w io.Writer, sc *scorecard.Scorecard) {
	r := sc.Report()

	fmt.Fprintln(w, StyleTitle.Render(sc.Owner+"/"+sc.Repo)+" "+StyleDim.Render(iconArrow)+" "+StyleLink.Render(r.URL))
	printRow(w, "NetScore", r.NetScore, r.NetScoreLatency)
	fmt.Fprintln(w, "  "+StyleDim.Render(strings.Repeat("─", 40)))

	defaulted := make(map[scorecard.Metric]bool)
	for _, m := range sc.Defaulted() {
		defaulted[m] = true
	}
	for _, m := range scorecard.Metrics {
		label := string(m)
		if defaulted[m] {
			label += " " + iconWarning
		}
		printRow(w, label, r.Score(m), r.Latency(m))
	}

	for _, m := range scorecard.Metrics {
		if d := sc.Dimension(m); d.Defaulted() {
			printWarning(w, "%s defaulted to 0: %v", m, d.Err)
		}
	}
}

func printRow(w io.Writer, label string, score, latency float64) {
	fmt.Fprintln(w, "  "+styleLabel.Render(label)+" "+
		scoreStyle(score).Render(fmt.Sprintf("%5.3f", score))+"  "+
		StyleDim.Render(fmt.Sprintf("%.3fs", latency)))
}
