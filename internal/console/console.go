// Package console is the local operator frontend: it reads tool requests,
// shows approval prompts, and renders results.
package console

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Cyclone1070/toolgate/internal/dispatch"
	"github.com/Cyclone1070/toolgate/internal/logging"
	"github.com/Cyclone1070/toolgate/internal/session"
	"github.com/Cyclone1070/toolgate/internal/tool"
)

// DefaultConversation is used for requests that name no conversation.
const DefaultConversation = "console"

// Gateway is the part of the dispatcher the console drives.
type Gateway interface {
	Dispatch(ctx context.Context, call tool.Call) tool.Result
	Resolve(id string, approve bool) error
	Clear(conversationID string) bool
	History(conversationID string) []session.Entry
	Status() dispatch.Status
	SetAllowedRoots(roots []string, projectRoot string) error
}

var (
	ErrNothingPending = errors.New("no approval is pending")
	ErrNotPending     = errors.New("no pending approval with that id")
)

// Console ties a Gateway to an operator.
type Console struct {
	gw           Gateway
	approvals    *Approvals
	renderer     *Renderer
	conversation string
	logger       *slog.Logger
}

type Options struct {
	// Conversation defaults to DefaultConversation.
	Conversation string
	Logger       *slog.Logger
}

func New(gw Gateway, approvals *Approvals, renderer *Renderer, opts Options) *Console {
	if gw == nil {
		panic("gateway is required")
	}
	if approvals == nil {
		panic("approvals is required")
	}
	if renderer == nil {
		panic("renderer is required")
	}
	conv := opts.Conversation
	if conv == "" {
		conv = DefaultConversation
	}
	return &Console{
		gw:           gw,
		approvals:    approvals,
		renderer:     renderer,
		conversation: conv,
		logger:       logging.OrDiscard(opts.Logger),
	}
}

// Dispatch runs a batch in order and returns one result per call.
func (c *Console) Dispatch(ctx context.Context, b Batch) []tool.Result {
	results := make([]tool.Result, 0, len(b.Calls))
	for _, call := range b.Calls {
		results = append(results, c.gw.Dispatch(ctx, call))
	}
	return results
}

// Answer resolves the approval with id, or the oldest one when id is empty.
func (c *Console) Answer(id string, approve bool) (dispatch.ApprovalRequest, error) {
	req, ok := c.approvals.Take(id)
	if !ok {
		if id == "" {
			return req, ErrNothingPending
		}
		return req, ErrNotPending
	}
	if err := c.gw.Resolve(req.ID, approve); err != nil {
		return req, err
	}
	c.logger.Info("operator answered", "id", req.ID, "tool", req.Tool, "approve", approve)
	return req, nil
}
