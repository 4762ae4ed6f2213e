package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/toolgate/internal/intent/gemini"
	"github.com/Cyclone1070/toolgate/internal/tool"
	"google.golang.org/genai"
)

// Request is one input line. Either Name or Content is set; Content carries
// a model turn whose function calls are dispatched in order.
type Request struct {
	ConversationID string         `json:"conversation_id"`
	Name           string         `json:"name,omitempty"`
	Args           map[string]any `json:"args,omitempty"`
	Content        *genai.Content `json:"content,omitempty"`
}

// Batch is the calls decoded from one Request.
type Batch struct {
	Calls       []tool.Call
	FromContent bool
}

var (
	ErrEmptyRequest = errors.New("request needs a name or content")
	ErrNoCalls      = errors.New("content has no function calls")
)

// ParseRequest decodes one JSON line.
func ParseRequest(line, defaultConversation string) (Batch, error) {
	var req Request
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &req); err != nil {
		return Batch{}, fmt.Errorf("invalid request: %w", err)
	}
	conv := req.ConversationID
	if conv == "" {
		conv = defaultConversation
	}

	switch {
	case req.Content != nil:
		calls, err := gemini.CallsFromContent(conv, req.Content)
		if err != nil {
			return Batch{}, err
		}
		if len(calls) == 0 {
			return Batch{}, ErrNoCalls
		}
		return Batch{Calls: calls, FromContent: true}, nil
	case req.Name != "":
		return Batch{Calls: []tool.Call{tool.NewCall(conv, tool.Name(req.Name), req.Args)}}, nil
	default:
		return Batch{}, ErrEmptyRequest
	}
}
