package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Cyclone1070/toolgate/internal/dispatch"
	"github.com/Cyclone1070/toolgate/internal/tool"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// reservedRows is the space kept below the viewport for input and status.
const reservedRows = 4

type model struct {
	ctx     context.Context
	console *Console
	now     func() time.Time

	input    textinput.Model
	viewport viewport.Model
	log      []string
	pending  []dispatch.ApprovalRequest
	inflight int
	width    int
	height   int
}

type resultsMsg []tool.Result
type approvalsMsg struct{}
type tickMsg time.Time

func newModel(ctx context.Context, c *Console) model {
	ti := textinput.New()
	ti.Placeholder = `{"name": "read_file", "args": {"path": "README.md"}} or /help`
	ti.Prompt = PromptStyle.Render("> ")
	ti.Focus()

	return model{
		ctx:      ctx,
		console:  c,
		now:      time.Now,
		input:    ti,
		viewport: viewport.New(80, 20),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		listenForApprovals(m.console.approvals.Changed()),
		tick(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-reservedRows, 1)
		m.refresh()
		return m, nil

	case resultsMsg:
		m.inflight--
		for _, r := range msg {
			m.appendLog(m.console.renderer.Result(r))
		}
		return m, nil

	case approvalsMsg:
		m.pending = m.console.approvals.Pending()
		return m, listenForApprovals(m.console.approvals.Changed())

	case tickMsg:
		// Expired prompts drop out of the queue on read.
		m.pending = m.console.approvals.Pending()
		return m, tick()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	// Approval prompts take the keyboard until answered.
	if len(m.pending) > 0 {
		switch {
		case key.Matches(msg, keys.Approve):
			m.answer(true)
		case key.Matches(msg, keys.Deny):
			m.answer(false)
		}
		return m, nil
	}

	if !key.Matches(msg, keys.Submit) {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.appendLog(FaintStyle.Render("> " + line))

	if strings.HasPrefix(line, "/") {
		out, quit, err := m.console.Command(line)
		switch {
		case err != nil:
			m.appendLog(ErrorStyle.Render(err.Error()))
		case out != "":
			m.appendLog(out)
		}
		m.pending = m.console.approvals.Pending()
		if quit {
			return m, tea.Quit
		}
		return m, nil
	}

	batch, err := ParseRequest(line, m.console.conversation)
	if err != nil {
		m.appendLog(ErrorStyle.Render(err.Error()))
		return m, nil
	}
	m.inflight++
	return m, m.dispatch(batch)
}

func (m *model) answer(approve bool) {
	req, err := m.console.Answer("", approve)
	m.pending = m.console.approvals.Pending()
	if err != nil {
		m.appendLog(ErrorStyle.Render(err.Error()))
		return
	}
	verb := "Denied"
	if approve {
		verb = "Approved"
	}
	m.appendLog(FaintStyle.Render(fmt.Sprintf("%s %s (%s)", verb, req.Tool, req.ID)))
}

// dispatch runs off the update loop; bubbletea executes commands concurrently.
func (m model) dispatch(b Batch) tea.Cmd {
	ctx, c := m.ctx, m.console
	return func() tea.Msg {
		return resultsMsg(c.Dispatch(ctx, b))
	}
}

func (m *model) appendLog(s string) {
	m.log = append(m.log, s)
	m.refresh()
}

func (m *model) refresh() {
	m.viewport.SetContent(strings.Join(m.log, "\n\n"))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	sections := []string{m.viewport.View()}
	if len(m.pending) > 0 {
		box := m.console.renderer.Approval(m.pending[0], m.now())
		if more := len(m.pending) - 1; more > 0 {
			box += "\n" + FaintStyle.Render(fmt.Sprintf("%d more waiting", more))
		}
		sections = append(sections, box)
	} else {
		sections = append(sections, m.input.View())
	}
	sections = append(sections, m.statusLine())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) statusLine() string {
	s := m.console.gw.Status()
	parts := []string{fmt.Sprintf("%d allowed dir(s)", len(s.AllowedRoots))}
	if s.RequireConfirmation {
		parts = append(parts, "confirmation on")
	} else {
		parts = append(parts, "confirmation off")
	}
	if m.inflight > 0 {
		parts = append(parts, fmt.Sprintf("%d running", m.inflight))
	}
	parts = append(parts, keys.Quit.Help().Key+" "+keys.Quit.Help().Desc)
	return FaintStyle.Render(strings.Join(parts, " | "))
}

func listenForApprovals(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return approvalsMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// RunInteractive runs the full-screen console until the operator quits or ctx ends.
func (c *Console) RunInteractive(ctx context.Context, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(newModel(ctx, c),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
