package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stackmap/pkg/mapper"
)

var (
	colorCyan   = lipgloss.Color("36")  // Primary
	colorGreen  = lipgloss.Color("35")  // Success, cached results
	colorYellow = lipgloss.Color("220") // Warnings
	colorBlue   = lipgloss.Color("75")  // Commands
	colorWhite  = lipgloss.Color("255") // Values
	colorGray   = lipgloss.Color("245") // Labels
	colorDim    = lipgloss.Color("240") // Muted text
)

// Styles shared by all commands.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed    = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	sep         = " · "
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints the size of a mapping and whether it came from the
// cache, e.g. "256 vertices · 480 edges · 8 domains · cached".
func printStats(vertices, edges, domains int, cached bool) {
	var parts []string
	for _, f := range []struct {
		n    int
		unit string
	}{{vertices, "vertices"}, {edges, "edges"}, {domains, "domains"}} {
		if f.n > 0 {
			parts = append(parts, StyleDim.Render(strconv.Itoa(f.n)+" "+f.unit))
		}
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(sep)))
}

// printCost prints the communication cost and load balance of a mapping.
func printCost(comm, cut, minLoad, maxLoad int, imbalance float64) {
	printKeyValue("comm", StyleNumber.Render(strconv.Itoa(comm)))
	printKeyValue("cut", strconv.Itoa(cut))
	printKeyValue("loads", fmt.Sprintf("%d..%d (imbalance %.3f)", minLoad, maxLoad, imbalance))
}

// printMapperCost is printCost for a freshly computed result.
func printMapperCost(c mapper.Cost) {
	printCost(c.Comm, c.Cut, c.MinLoad, c.MaxLoad, c.Imbalance)
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
