package gemini

import (
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// BlockedError is returned when the model stopped without usable output.
type BlockedError struct {
	Reason genai.FinishReason
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("model response blocked: %s", e.Reason)
}
func (e *BlockedError) Unwrap() error { return ErrBlocked }

// -- Sentinels --

var (
	ErrNoCandidates = errors.New("no candidates in response")
	ErrBlocked      = errors.New("model response blocked")
	ErrNoContent    = errors.New("content has no parts")
)
