// Package gate holds dangerous calls until a human approves or denies them,
// or their deadline passes.
package gate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Cyclone1070/toolgate/internal/logging"
	"github.com/Cyclone1070/toolgate/internal/tool"
	"github.com/google/uuid"
)

// defaultTombstones is how many resolved ids are remembered for AlreadyResolved reporting.
const defaultTombstones = 256

// Decision is a human's answer to an approval prompt.
type Decision int

const (
	Approve Decision = iota
	Deny
)

func (d Decision) String() string {
	if d == Approve {
		return "approve"
	}
	return "deny"
}

// Resolution is the state of a PendingApproval.
type Resolution string

const (
	Pending  Resolution = "pending"
	Approved Resolution = "approved"
	Denied   Resolution = "denied"
	Expired  Resolution = "expired"
	// Withdrawn means the caller stopped waiting before anyone answered.
	Withdrawn Resolution = "withdrawn"
)

// PendingApproval is a dangerous call waiting for a decision.
type PendingApproval struct {
	ID        string
	Call      tool.Call
	CreatedAt time.Time
	Deadline  time.Time
}

// Registry reserves the single pending slot of a conversation.
type Registry interface {
	// ReservePending claims the slot for id. When the slot is taken it
	// returns the holder's id and false.
	ReservePending(conversationID, id string) (string, bool)
	ReleasePending(conversationID, id string)
}

type entry struct {
	approval   PendingApproval
	resolution Resolution
	done       chan struct{}
	timer      *time.Timer
}

// Gate owns every PendingApproval from Open until it resolves.
type Gate struct {
	registry Registry
	window   time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]*entry

	// resolved remembers the last few outcomes so late answers get AlreadyResolved.
	resolved map[string]Resolution
	order    []string
	keep     int
}

// New creates a Gate whose approvals expire window after they open.
func New(registry Registry, window time.Duration, logger *slog.Logger) *Gate {
	if registry == nil {
		panic("registry is required")
	}
	if window <= 0 {
		panic("window must be positive")
	}
	return &Gate{
		registry: registry,
		window:   window,
		logger:   logging.OrDiscard(logger),
		now:      time.Now,
		pending:  make(map[string]*entry),
		resolved: make(map[string]Resolution),
		keep:     defaultTombstones,
	}
}

// Window is the lifetime of a new approval.
func (g *Gate) Window() time.Duration {
	return g.window
}

// Open creates a PendingApproval for call and starts its deadline timer.
// It fails with *ConflictError while the conversation already has one.
func (g *Gate) Open(call tool.Call) (PendingApproval, error) {
	id := uuid.NewString()
	if holder, ok := g.registry.ReservePending(call.ConversationID, id); !ok {
		return PendingApproval{}, &ConflictError{ConversationID: call.ConversationID, PendingID: holder}
	}

	now := g.now()
	e := &entry{
		approval: PendingApproval{
			ID:        id,
			Call:      call,
			CreatedAt: now,
			Deadline:  now.Add(g.window),
		},
		resolution: Pending,
		done:       make(chan struct{}),
	}

	g.mu.Lock()
	g.pending[id] = e
	e.timer = time.AfterFunc(g.window, func() { g.finish(id, Expired) })
	g.mu.Unlock()

	g.logger.Info("approval opened", "id", id, "tool", call.Name, "conversation", call.ConversationID, "deadline", e.approval.Deadline)
	return e.approval, nil
}

// Resolve records a human decision. Only a pending approval can be resolved;
// anything later fails with *AlreadyResolvedError and changes nothing.
func (g *Gate) Resolve(id string, d Decision) error {
	target := Denied
	if d == Approve {
		target = Approved
	}
	if g.finish(id, target) {
		return nil
	}

	g.mu.Lock()
	prior, known := g.resolved[id]
	g.mu.Unlock()
	if known {
		g.logger.Warn("approval already resolved", "id", id, "resolution", prior, "decision", d)
		return &AlreadyResolvedError{ID: id, Resolution: prior}
	}

	g.logger.Error("resolve for unknown approval", "id", id, "decision", d)
	return &UnknownApprovalError{ID: id}
}

// Withdraw abandons a pending approval without a decision. It reports whether
// the approval was still pending.
func (g *Gate) Withdraw(id string) bool {
	return g.finish(id, Withdrawn)
}

// Wait blocks until the approval resolves or ctx is done. When ctx ends first
// the approval is withdrawn and ctx.Err() is returned alongside Withdrawn.
func (g *Gate) Wait(ctx context.Context, id string) (Resolution, error) {
	g.mu.Lock()
	e, ok := g.pending[id]
	if !ok {
		prior, known := g.resolved[id]
		g.mu.Unlock()
		if known {
			return prior, nil
		}
		return "", &UnknownApprovalError{ID: id}
	}
	g.mu.Unlock()

	select {
	case <-e.done:
		return g.resolutionOf(e), nil
	case <-ctx.Done():
		if g.finish(id, Withdrawn) {
			return Withdrawn, ctx.Err()
		}
		// Lost the race to a decision or the timer.
		<-e.done
		return g.resolutionOf(e), nil
	}
}

// Get returns a pending approval by id.
func (g *Gate) Get(id string) (PendingApproval, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.pending[id]
	if !ok {
		return PendingApproval{}, false
	}
	return e.approval, true
}

// Len is the number of approvals currently pending.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

func (g *Gate) resolutionOf(e *entry) Resolution {
	g.mu.Lock()
	defer g.mu.Unlock()
	return e.resolution
}

// finish moves a pending approval to its terminal state exactly once.
func (g *Gate) finish(id string, to Resolution) bool {
	g.mu.Lock()
	e, ok := g.pending[id]
	if !ok {
		g.mu.Unlock()
		return false
	}
	delete(g.pending, id)
	e.resolution = to
	e.timer.Stop()
	g.remember(id, to)
	// The slot is free before any waiter wakes.
	g.registry.ReleasePending(e.approval.Call.ConversationID, id)
	close(e.done)
	g.mu.Unlock()

	level := slog.LevelInfo
	if to == Expired || to == Withdrawn {
		level = slog.LevelWarn
	}
	g.logger.Log(context.Background(), level, "approval "+string(to),
		"id", id, "tool", e.approval.Call.Name, "conversation", e.approval.Call.ConversationID,
		"waited", g.now().Sub(e.approval.CreatedAt))
	return true
}

func (g *Gate) remember(id string, r Resolution) {
	g.resolved[id] = r
	g.order = append(g.order, id)
	if len(g.order) > g.keep {
		oldest := g.order[0]
		g.order = g.order[1:]
		delete(g.resolved, oldest)
	}
}
