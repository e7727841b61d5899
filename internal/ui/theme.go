package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	IconScroll  = "📜"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconFire    = "🔥"
	IconLoop    = "🔁"
	IconTarget  = "🎯"
	IconShield  = "🛡️"
	IconSkull   = "💀"
	IconClock   = "⏳"
	IconWarn    = "⚠️"
	IconError   = "🧨"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

// leagueColors follows the tier order bronze..immortal.
var leagueColors = map[string]lipgloss.Color{
	"bronze":      lipgloss.Color("130"),
	"silver":      lipgloss.Color("250"),
	"gold":        cGold,
	"platinum":    lipgloss.Color("153"),
	"diamond":     lipgloss.Color("45"),
	"master":      lipgloss.Color("135"),
	"grandmaster": lipgloss.Color("161"),
	"champion":    cWarn,
	"legend":      cAccent,
	"immortal":    cBad,
}

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func LeagueName(name string) string {
	c, ok := leagueColors[name]
	if !ok {
		c = cMuted
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c).Render(strings.ToUpper(name))
}

// ProgressBar renders frac (0..1) as a fixed-width bar.
func ProgressBar(frac float64, width int) string {
	if width <= 0 {
		width = 20
	}
	frac = min(max(frac, 0), 1)
	filled := int(frac * float64(width))
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

func DoneMark(done bool) string {
	if done {
		return Good.Render("[x]")
	}
	return Muted.Render("[ ]")
}

func Difficulty(d string) string {
	switch d {
	case "easy":
		return Good.Render(d)
	case "medium":
		return H2.Render(d)
	case "hard":
		return Warn.Render(d)
	case "epic":
		return Bad.Render(d)
	default:
		return Muted.Render(d)
	}
}
