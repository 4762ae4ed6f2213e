package console

import (
	"github.com/Cyclone1070/toolgate/internal/tool"
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary = lipgloss.Color("63")
	ColorWarn    = lipgloss.Color("214")
	ColorError   = lipgloss.Color("196")
	ColorOK      = lipgloss.Color("42")
	ColorDim     = lipgloss.Color("241")

	ApprovalBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorWarn).
				Padding(0, 1)

	StatusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	TitleStyle  = lipgloss.NewStyle().Bold(true)
	FaintStyle  = lipgloss.NewStyle().Foreground(ColorDim)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ColorError)
	PromptStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
)

var badgeBase = lipgloss.NewStyle().Bold(true).Padding(0, 1)

// outcomeBadges colours each outcome.
var outcomeBadges = map[tool.Outcome]lipgloss.Style{
	tool.Success:  badgeBase.Foreground(ColorOK),
	tool.Denied:   badgeBase.Foreground(ColorWarn),
	tool.Expired:  badgeBase.Foreground(ColorWarn),
	tool.Rejected: badgeBase.Foreground(ColorWarn),
	tool.Failed:   badgeBase.Foreground(ColorError),
}

func badge(o tool.Outcome) string {
	style, ok := outcomeBadges[o]
	if !ok {
		style = badgeBase
	}
	return style.Render(string(o))
}
