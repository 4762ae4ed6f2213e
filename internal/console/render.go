package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/Cyclone1070/toolgate/internal/dispatch"
	"github.com/Cyclone1070/toolgate/internal/session"
	"github.com/Cyclone1070/toolgate/internal/tool"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Renderer turns results and prompts into terminal text.
type Renderer struct {
	md *glamour.TermRenderer
}

// NewRenderer renders payloads as markdown with the named glamour style
// ("dark", "light", "notty", ...), wrapped at width.
func NewRenderer(style string, width int) (*Renderer, error) {
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{md: md}, nil
}

// PlainRenderer skips markdown rendering.
func PlainRenderer() *Renderer {
	return &Renderer{}
}

// Markdown renders s, falling back to s itself.
func (r *Renderer) Markdown(s string) string {
	if r.md == nil {
		return s
	}
	out, err := r.md.Render(s)
	if err != nil {
		return s
	}
	return strings.Trim(out, "\n")
}

func (r *Renderer) Result(res tool.Result) string {
	header := fmt.Sprintf("%s %s %s",
		TitleStyle.Render(string(res.Call.Name)),
		badge(res.Outcome),
		FaintStyle.Render("["+res.Call.ConversationID+"]"))

	if res.Err != nil {
		return header + "\n" + ErrorStyle.Render(fmt.Sprintf("%s: %s", res.Err.Kind, res.Err.Message))
	}
	body := res.Content()
	if body == "" {
		return header
	}
	return header + "\n" + r.Markdown("```\n"+body+"\n```")
}

func (r *Renderer) Approval(req dispatch.ApprovalRequest, now time.Time) string {
	remaining := req.Deadline.Sub(now).Round(time.Second)
	if remaining < 0 {
		remaining = 0
	}
	lines := []string{
		TitleStyle.Render("Approval required") + FaintStyle.Render(" "+req.ID),
		"",
		req.Description(),
		"",
		fmt.Sprintf("[%s] approve  [%s] deny  %s",
			keys.Approve.Help().Key, keys.Deny.Help().Key,
			FaintStyle.Render(fmt.Sprintf("expires in %s", remaining))),
	}
	return ApprovalBoxStyle.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) Pending(reqs []dispatch.ApprovalRequest, now time.Time) string {
	if len(reqs) == 0 {
		return "No approvals pending"
	}
	lines := make([]string, 0, len(reqs))
	for _, req := range reqs {
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s", req.ID, req.ConversationID, req.Tool,
			FaintStyle.Render(req.Deadline.Sub(now).Round(time.Second).String())))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) Status(s dispatch.Status) string {
	confirm := "required"
	if !s.RequireConfirmation {
		confirm = "disabled"
	}
	rows := [][2]string{
		{"Allowed directories", strings.Join(s.AllowedRoots, ", ")},
		{"Project root", s.ProjectRoot},
		{"Confirmation", confirm},
		{"Confirmation window", s.ConfirmationWindow.String()},
		{"History length", fmt.Sprint(s.MaxHistoryLen)},
		{"Conversations", fmt.Sprint(s.Conversations)},
		{"Pending approvals", fmt.Sprint(s.PendingApprovals)},
	}
	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row[0]))
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, row[0], row[1]))
	}
	return StatusPanelStyle.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) History(conversationID string, entries []session.Entry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No history for %s", conversationID)
	}
	lines := []string{TitleStyle.Render("History of " + conversationID)}
	for i, e := range entries {
		line := fmt.Sprintf("%2d. %s %s %s", i+1, e.At.Format(time.TimeOnly), e.Call.Name, badge(e.Result.Outcome))
		if e.Result.Err != nil {
			line += " " + FaintStyle.Render(string(e.Result.Err.Kind))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
