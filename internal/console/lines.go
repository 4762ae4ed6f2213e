package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Cyclone1070/toolgate/internal/intent/gemini"
	"github.com/Cyclone1070/toolgate/internal/tool"
	"google.golang.org/genai"
)

const maxLineSize = 1 << 20

// resultLine is the JSON shape of one result in line mode.
type resultLine struct {
	ConversationID string `json:"conversation_id"`
	Tool           string `json:"tool"`
	Outcome        string `json:"outcome"`
	Content        string `json:"content,omitempty"`
	ErrorKind      string `json:"error_kind,omitempty"`
	Error          string `json:"error,omitempty"`
}

type approvalLine struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	Tool           string         `json:"tool"`
	Args           map[string]any `json:"args"`
	Notes          []string       `json:"notes,omitempty"`
	Deadline       time.Time      `json:"deadline"`
}

// envelope is one output line; exactly one field is set.
type envelope struct {
	Result   *resultLine    `json:"result,omitempty"`
	Approval *approvalLine  `json:"approval,omitempty"`
	Content  *genai.Content `json:"content,omitempty"`
	Message  string         `json:"message,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// lineWriter serializes output lines. After the first failed write it drops
// everything and RunLines stops at the next input line.
type lineWriter struct {
	mu     sync.Mutex
	enc    *json.Encoder
	logger *slog.Logger
	err    error
}

func (w *lineWriter) write(e envelope) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return
	}
	if err := w.enc.Encode(e); err != nil {
		w.err = fmt.Errorf("writing output: %w", err)
		w.logger.Error("line output failed", "error", err)
	}
}

func (w *lineWriter) failed() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// RunLines is the scripted console: JSON requests in, JSON lines out.
// A bare "y" or "n" answers the oldest pending approval.
func (c *Console) RunLines(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := &lineWriter{enc: json.NewEncoder(out), logger: c.logger}
	announced := make(chan struct{})
	go func() {
		defer close(announced)
		c.announce(ctx, w)
	}()

	var wg sync.WaitGroup
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if w.failed() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "y" || line == "n":
			req, err := c.Answer("", line == "y")
			if err != nil {
				w.write(envelope{Error: err.Error()})
				continue
			}
			w.write(envelope{Message: "answered " + req.ID})
			continue
		case strings.HasPrefix(line, "/"):
			text, quit, err := c.Command(line)
			if err != nil {
				w.write(envelope{Error: err.Error()})
			} else if text != "" {
				w.write(envelope{Message: text})
			}
			if quit {
				wg.Wait()
				cancel()
				<-announced
				return w.failed()
			}
			continue
		}

		batch, err := ParseRequest(line, c.conversation)
		if err != nil {
			w.write(envelope{Error: err.Error()})
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			results := c.Dispatch(ctx, batch)
			for _, r := range results {
				w.write(envelope{Result: toResultLine(r)})
			}
			if batch.FromContent {
				w.write(envelope{Content: gemini.ResultsContent(results)})
			}
		}()
	}

	wg.Wait()
	cancel()
	<-announced
	if err := w.failed(); err != nil {
		return err
	}
	return scanner.Err()
}

// announce prints each new approval request once.
func (c *Console) announce(ctx context.Context, w *lineWriter) {
	seen := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.approvals.Changed():
		}
		for _, req := range c.approvals.Pending() {
			if seen[req.ID] {
				continue
			}
			seen[req.ID] = true
			w.write(envelope{Approval: &approvalLine{
				ID:             req.ID,
				ConversationID: req.ConversationID,
				Tool:           req.Tool,
				Args:           req.Args,
				Notes:          req.Notes,
				Deadline:       req.Deadline,
			}})
		}
	}
}

func toResultLine(r tool.Result) *resultLine {
	line := &resultLine{
		ConversationID: r.Call.ConversationID,
		Tool:           string(r.Call.Name),
		Outcome:        string(r.Outcome),
	}
	if r.Err != nil {
		line.ErrorKind = string(r.Err.Kind)
		line.Error = r.Err.Message
	} else {
		line.Content = r.Content()
	}
	return line
}
