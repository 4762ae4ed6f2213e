package console

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Cyclone1070/toolgate/internal/dispatch"
)

// ErrQueueFull is returned by Prompt when limit requests are already waiting.
var ErrQueueFull = errors.New("approval queue is full")

// Approvals queues approval requests for the operator. It implements
// dispatch.Prompter and never blocks the dispatcher.
type Approvals struct {
	mu      sync.Mutex
	queue   []dispatch.ApprovalRequest
	limit   int
	changed chan struct{}
	now     func() time.Time
}

// NewApprovals creates a queue holding at most limit unexpired requests.
func NewApprovals(limit int) *Approvals {
	if limit <= 0 {
		panic("limit must be positive")
	}
	return &Approvals{
		limit:   limit,
		changed: make(chan struct{}, 1),
		now:     time.Now,
	}
}

// Prompt queues req and returns at once. Expired requests are pruned first.
func (a *Approvals) Prompt(ctx context.Context, req dispatch.ApprovalRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	a.prune()
	if len(a.queue) >= a.limit {
		a.mu.Unlock()
		return ErrQueueFull
	}
	a.queue = append(a.queue, req)
	a.mu.Unlock()
	a.signal()
	return nil
}

// Changed receives a value after every new request. Signals coalesce.
func (a *Approvals) Changed() <-chan struct{} {
	return a.changed
}

// Pending returns the unexpired requests, oldest first.
func (a *Approvals) Pending() []dispatch.ApprovalRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prune()
	return slices.Clone(a.queue)
}

// Take removes the request with id, or the oldest when id is empty.
func (a *Approvals) Take(id string) (dispatch.ApprovalRequest, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prune()
	if len(a.queue) == 0 {
		return dispatch.ApprovalRequest{}, false
	}
	i := 0
	if id != "" {
		i = slices.IndexFunc(a.queue, func(r dispatch.ApprovalRequest) bool { return r.ID == id })
		if i < 0 {
			return dispatch.ApprovalRequest{}, false
		}
	}
	req := a.queue[i]
	a.queue = slices.Delete(a.queue, i, i+1)
	return req, true
}

func (a *Approvals) prune() {
	now := a.now()
	a.queue = slices.DeleteFunc(a.queue, func(r dispatch.ApprovalRequest) bool {
		return !r.Deadline.IsZero() && !now.Before(r.Deadline)
	})
}

func (a *Approvals) signal() {
	select {
	case a.changed <- struct{}{}:
	default:
	}
}
