// Package ui provides terminal output styling and prompts for the
// gamedock CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette — muted, dark-terminal friendly.
var (
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	yellow = lipgloss.Color("214")
	dim    = lipgloss.Color("243")
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(green)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red)
	WarnStyle    = lipgloss.NewStyle().Foreground(yellow)
	MutedStyle   = lipgloss.NewStyle().Foreground(dim)
	LabelStyle   = lipgloss.NewStyle().Foreground(dim)
)

func Muted(s string) string { return MutedStyle.Render(s) }

// Message helpers. Single-line strings, no trailing newline; only the
// glyph is styled.

func SuccessMsg(format string, a ...any) string { return msg(SuccessStyle, "✓", format, a...) }
func WarnMsg(format string, a ...any) string    { return msg(WarnStyle, "!", format, a...) }
func ErrorMsg(format string, a ...any) string   { return msg(ErrorStyle, "✗", format, a...) }

func msg(style lipgloss.Style, glyph, format string, a ...any) string {
	return style.Render(glyph) + " " + fmt.Sprintf(format, a...)
}

// StateText colors a lifecycle state for display.
func StateText(state string) string {
	switch state {
	case "running":
		return SuccessStyle.Render(state)
	case "stopped":
		return WarnStyle.Render(state)
	default:
		return MutedStyle.Render(state)
	}
}

// Pair holds a key-value pair for KeyValues output.
type Pair struct {
	key   string
	value string
}

// KV creates a key-value pair.
func KV(key, value string) Pair {
	return Pair{key: key, value: value}
}

// KeyValues renders aligned "key:  value" lines with a trailing
// newline.
func KeyValues(indent string, pairs ...Pair) string {
	maxLen := 0
	for _, p := range pairs {
		if len(p.key) > maxLen {
			maxLen = len(p.key)
		}
	}

	var sb strings.Builder
	for _, p := range pairs {
		label := fmt.Sprintf("%-*s", maxLen+1, p.key+":")
		sb.WriteString(indent + LabelStyle.Render(label) + " " + p.value + "\n")
	}
	return sb.String()
}
