// Package session keeps per-conversation history and the pending-approval
// slot, and serializes calls within a conversation.
package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Cyclone1070/toolgate/internal/tool"
)

// Entry is one dispatched call and its result.
type Entry struct {
	Call   tool.Call
	Result tool.Result
	At     time.Time
}

// Info describes a conversation without exposing its history.
type Info struct {
	ID         string
	CreatedAt  time.Time
	HistoryLen int
	PendingID  string
}

type conversation struct {
	createdAt time.Time
	history   []Entry
}

// Store is safe for concurrent use.
type Store struct {
	maxHistory int
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*conversation
	pending  map[string]string

	locks *keyedLock
}

// NewStore creates a Store keeping at most maxHistory entries per conversation.
func NewStore(maxHistory int) *Store {
	if maxHistory <= 0 {
		panic("maxHistory must be positive")
	}
	return &Store{
		maxHistory: maxHistory,
		now:        time.Now,
		sessions:   make(map[string]*conversation),
		pending:    make(map[string]string),
		locks:      newKeyedLock(),
	}
}

// MaxHistory is the per-conversation history bound.
func (s *Store) MaxHistory() int {
	return s.maxHistory
}

// GetOrCreate returns the conversation, creating it on first use.
func (s *Store) GetOrCreate(id string) Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.getOrCreate(id)
	return Info{ID: id, CreatedAt: c.createdAt, HistoryLen: len(c.history), PendingID: s.pending[id]}
}

func (s *Store) getOrCreate(id string) *conversation {
	c, ok := s.sessions[id]
	if !ok {
		c = &conversation{createdAt: s.now()}
		s.sessions[id] = c
	}
	return c
}

// Append records a result, evicting the oldest entries past the bound.
func (s *Store) Append(id string, call tool.Call, result tool.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.getOrCreate(id)
	c.history = append(c.history, Entry{Call: call, Result: result, At: s.now()})
	if over := len(c.history) - s.maxHistory; over > 0 {
		c.history = slices.Delete(c.history, 0, over)
	}
}

// History returns a copy of the conversation's history, oldest first.
func (s *Store) History(id string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[id]
	if !ok {
		return nil
	}
	return slices.Clone(c.history)
}

// Clear forgets a conversation's history. A pending approval is left alone:
// it belongs to a call that is still in flight.
func (s *Store) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Conversations lists known conversation ids, sorted.
func (s *Store) Conversations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ReservePending claims the conversation's single approval slot for
// approvalID. If another approval holds it, the holder is returned with false.
func (s *Store) ReservePending(id, approvalID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if holder, ok := s.pending[id]; ok {
		return holder, false
	}
	s.pending[id] = approvalID
	return "", true
}

// ReleasePending frees the slot if approvalID still holds it.
func (s *Store) ReleasePending(id, approvalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[id] == approvalID {
		delete(s.pending, id)
	}
}

// PendingID returns the approval holding the conversation's slot.
func (s *Store) PendingID(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	approvalID, ok := s.pending[id]
	return approvalID, ok
}

// Lock serializes work on one conversation. Waiters are served in arrival
// order. The returned release func is safe to call more than once.
func (s *Store) Lock(ctx context.Context, id string) (func(), error) {
	return s.locks.lock(ctx, id)
}

// AppendInTurn records an entry after every caller already queued on the
// conversation lock has released it, keeping history in dispatch order. It
// never blocks; the entry is appended in the background when the lock is held.
func (s *Store) AppendInTurn(id string, call tool.Call, result tool.Result) {
	turn := s.locks.enqueue(id)
	select {
	case <-turn:
		s.Append(id, call, result)
		s.locks.release(id)
		return
	default:
	}
	go func() {
		<-turn
		s.Append(id, call, result)
		s.locks.release(id)
	}()
}
