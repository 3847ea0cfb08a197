package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 palette.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220") // warnings and Shape/Size ops
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Shared styles.
var (
	StyleTitle        = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim          = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue        = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber       = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning      = lipgloss.NewStyle().Foreground(colorYellow)
	StyleHighPriority = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)

	styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// statusLine is a message prefixed with a colored marker.
type statusLine struct {
	marker string
	style  lipgloss.Style
}

var (
	lineSuccess = statusLine{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	lineWarning = statusLine{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	lineInfo    = statusLine{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (l statusLine) print(w io.Writer, msg string) {
	fmt.Fprintln(w, l.style.Render(l.marker)+" "+msg)
}

func printSuccess(w io.Writer, format string, args ...any) {
	lineSuccess.print(w, fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	lineWarning.print(w, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	lineInfo.print(w, fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "N nodes · M edges · cached|fresh".
func printStats(w io.Writer, nodeCount, edgeCount int, cached bool) {
	source := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		source = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(w, "  "+strings.Join([]string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodeCount)),
		StyleDim.Render(fmt.Sprintf("%d edges", edgeCount)),
		source,
	}, sep))
}
