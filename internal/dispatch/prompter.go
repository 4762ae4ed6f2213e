package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Cyclone1070/toolgate/internal/gate"
)

// ApprovalRequest is what a human sees before deciding.
type ApprovalRequest struct {
	ID             string
	ConversationID string
	Tool           string
	Args           map[string]any
	// Notes holds tool-specific extras, such as the programs a command runs.
	Notes    []string
	Deadline time.Time
}

// Description renders the tool name, its arguments as indented JSON, and any notes.
func (r ApprovalRequest) Description() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tool: %s\n", r.Tool)
	args, err := json.MarshalIndent(r.Args, "", "  ")
	if err != nil {
		args = []byte(fmt.Sprint(r.Args))
	}
	sb.Write(args)
	for _, n := range r.Notes {
		sb.WriteString("\n")
		sb.WriteString(n)
	}
	return sb.String()
}

// Prompter delivers an approval request to a human. It must not block until
// the human answers: the answer arrives later through Dispatcher.Resolve.
type Prompter interface {
	Prompt(ctx context.Context, req ApprovalRequest) error
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, req ApprovalRequest) error

func (f PrompterFunc) Prompt(ctx context.Context, req ApprovalRequest) error {
	return f(ctx, req)
}

func newApprovalRequest(p gate.PendingApproval, notes []string) ApprovalRequest {
	return ApprovalRequest{
		ID:             p.ID,
		ConversationID: p.Call.ConversationID,
		Tool:           string(p.Call.Name),
		Args:           p.Call.Args(),
		Notes:          notes,
		Deadline:       p.Deadline,
	}
}
