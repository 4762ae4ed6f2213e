package gate

import (
	"errors"
	"fmt"
)

// ConflictError is returned by Open while the conversation already has a pending approval.
type ConflictError struct {
	ConversationID string
	PendingID      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conversation %s already has pending approval %s", e.ConversationID, e.PendingID)
}
func (e *ConflictError) Unwrap() error { return ErrConflict }

// AlreadyResolvedError is returned when resolving an approval that is no longer pending.
type AlreadyResolvedError struct {
	ID         string
	Resolution Resolution
}

func (e *AlreadyResolvedError) Error() string {
	return fmt.Sprintf("approval %s already resolved as %s", e.ID, e.Resolution)
}
func (e *AlreadyResolvedError) Unwrap() error { return ErrAlreadyResolved }

// UnknownApprovalError is returned for an id the gate has never issued, or
// one resolved so long ago that it has been forgotten.
type UnknownApprovalError struct {
	ID string
}

func (e *UnknownApprovalError) Error() string {
	return fmt.Sprintf("unknown approval %s", e.ID)
}
func (e *UnknownApprovalError) Unwrap() error { return ErrUnknownApproval }

var (
	ErrConflict        = errors.New("approval already pending")
	ErrAlreadyResolved = errors.New("approval already resolved")
	ErrUnknownApproval = errors.New("unknown approval")
)
