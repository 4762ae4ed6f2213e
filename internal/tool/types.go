package tool

import (
	"fmt"
	"maps"
)

// Name identifies one of the gateway's tools.
type Name string

const (
	ReadFile   Name = "read_file"
	WriteFile  Name = "write_file"
	ListDir    Name = "list_dir"
	Search     Name = "search"
	GitStatus  Name = "git_status"
	GitDiff    Name = "git_diff"
	GitLog     Name = "git_log"
	GitCommit  Name = "git_commit"
	GitPush    Name = "git_push"
	RunCommand Name = "run_command"
	Tree       Name = "tree"
	TodoFind   Name = "todo_find"
)

// Names lists every tool in declaration order.
var Names = []Name{
	ReadFile, WriteFile, ListDir, Search,
	GitStatus, GitDiff, GitLog, GitCommit, GitPush,
	RunCommand, Tree, TodoFind,
}

// Valid reports whether n is a known tool.
func (n Name) Valid() bool {
	_, ok := classes[n]
	return ok
}

// Class decides whether a call needs human approval.
type Class int

const (
	Safe Class = iota
	Dangerous
)

func (c Class) String() string {
	if c == Dangerous {
		return "dangerous"
	}
	return "safe"
}

// classes is the static classification table. It is never consulted with
// argument values: the name alone decides.
var classes = map[Name]Class{
	ReadFile:   Safe,
	WriteFile:  Dangerous,
	ListDir:    Safe,
	Search:     Safe,
	GitStatus:  Safe,
	GitDiff:    Safe,
	GitLog:     Safe,
	GitCommit:  Dangerous,
	GitPush:    Dangerous,
	RunCommand: Dangerous,
	Tree:       Safe,
	TodoFind:   Safe,
}

// Classify returns the operation class for a tool name.
// Unknown names are treated as dangerous.
func Classify(n Name) Class {
	c, ok := classes[n]
	if !ok {
		return Dangerous
	}
	return c
}

// Call is a single structured request to perform one operation.
// It is never mutated after construction; Args returns a copy.
type Call struct {
	Name           Name
	ConversationID string
	args           map[string]any
}

// NewCall builds a Call, copying args.
func NewCall(conversationID string, name Name, args map[string]any) Call {
	return Call{
		Name:           name,
		ConversationID: conversationID,
		args:           maps.Clone(args),
	}
}

// Args returns a copy of the call arguments.
func (c Call) Args() map[string]any {
	if c.args == nil {
		return map[string]any{}
	}
	return maps.Clone(c.args)
}

// Arg returns a single argument.
func (c Call) Arg(key string) (any, bool) {
	v, ok := c.args[key]
	return v, ok
}

func (c Call) String() string {
	return fmt.Sprintf("%s[%s]", c.Name, c.ConversationID)
}

// Outcome is the terminal state of a dispatched call.
type Outcome string

const (
	Success  Outcome = "success"
	Denied   Outcome = "denied"
	Expired  Outcome = "expired"
	Rejected Outcome = "rejected"
	Failed   Outcome = "failed"
)

// ErrorKind classifies why a call did not succeed.
type ErrorKind string

const (
	KindPathViolation   ErrorKind = "path_violation"
	KindFileTooLarge    ErrorKind = "file_too_large"
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindConflict        ErrorKind = "conflict"
	KindTimeout         ErrorKind = "timeout"
	KindSpawnFailure    ErrorKind = "spawn_failure"
	KindDenied          ErrorKind = "denied"
	KindExpired         ErrorKind = "expired"
	KindPromptFailure   ErrorKind = "prompt_failure"
	KindCancelled       ErrorKind = "cancelled"
	KindExecution       ErrorKind = "execution_failure"
)

// Error is the structured failure attached to a non-successful Result.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Payload is the successful output of a tool.
type Payload interface {
	// LLMContent renders the payload as plain text for the intent source.
	LLMContent() string
}

// Text is a plain-text payload.
type Text string

func (t Text) LLMContent() string { return string(t) }

// Result is produced exactly once per dispatched Call.
type Result struct {
	Call    Call
	Outcome Outcome
	Payload Payload
	Err     *Error
}

// Content renders the result for display or for the intent source.
func (r Result) Content() string {
	switch {
	case r.Outcome == Success && r.Payload != nil:
		return r.Payload.LLMContent()
	case r.Err != nil:
		return r.Err.Message
	default:
		return string(r.Outcome)
	}
}

// Succeeded builds a Success result.
func Succeeded(call Call, payload Payload) Result {
	return Result{Call: call, Outcome: Success, Payload: payload}
}

// Unsuccessful builds a non-success result.
func Unsuccessful(call Call, outcome Outcome, kind ErrorKind, msg string) Result {
	return Result{Call: call, Outcome: outcome, Err: &Error{Kind: kind, Message: msg}}
}

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Declaration declares a tool's function signature for the intent source.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}
