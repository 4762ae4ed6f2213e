// Package dispatch is the single entry point for tool calls. It resolves path
// arguments, classifies the call, holds dangerous calls at the approval gate,
// and turns every outcome into one tool.Result.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/gate"
	"github.com/Cyclone1070/toolgate/internal/logging"
	"github.com/Cyclone1070/toolgate/internal/metrics"
	"github.com/Cyclone1070/toolgate/internal/session"
	"github.com/Cyclone1070/toolgate/internal/tool"
	"github.com/Cyclone1070/toolgate/internal/tool/directory"
	"github.com/Cyclone1070/toolgate/internal/tool/file"
	"github.com/Cyclone1070/toolgate/internal/tool/gitcmd"
	"github.com/Cyclone1070/toolgate/internal/tool/search"
	"github.com/Cyclone1070/toolgate/internal/tool/service/executor"
	"github.com/Cyclone1070/toolgate/internal/tool/service/fs"
	"github.com/Cyclone1070/toolgate/internal/tool/service/git"
	"github.com/Cyclone1070/toolgate/internal/tool/service/path"
	"github.com/Cyclone1070/toolgate/internal/tool/shell"
	"github.com/Cyclone1070/toolgate/internal/tool/todo"
)

// Deps are the collaborators a Dispatcher is built from.
type Deps struct {
	Guard    *path.Guard
	FS       *fs.OSFileSystem
	Executor *executor.OSCommandExecutor
	Prompter Prompter
	// Window overrides the configured confirmation window when positive.
	Window time.Duration
	// Metrics is optional.
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Dispatcher routes tool calls. It is safe for concurrent use; calls for one
// conversation are serialized in arrival order.
type Dispatcher struct {
	config   *config.Config
	guard    *path.Guard
	store    *session.Store
	gate     *gate.Gate
	prompter Prompter
	metrics  *metrics.Metrics
	logger   *slog.Logger
	handlers map[tool.Name]handler

	requireConfirmation atomic.Bool
}

// New wires the tools, session store and gate from cfg.
func New(cfg *config.Config, deps Deps) *Dispatcher {
	if cfg == nil {
		panic("cfg is required")
	}
	if deps.Guard == nil {
		panic("guard is required")
	}
	if deps.FS == nil {
		panic("fs is required")
	}
	if deps.Executor == nil {
		panic("executor is required")
	}
	if deps.Prompter == nil {
		panic("prompter is required")
	}

	logger := logging.OrDiscard(deps.Logger)
	window := cfg.ConfirmationWindow()
	if deps.Window > 0 {
		window = deps.Window
	}
	store := session.NewStore(cfg.Gateway.MaxHistoryLen)
	ignores := git.NewService(deps.FS, cfg.Tools.RespectGitignore, logger)

	d := &Dispatcher{
		config:   cfg,
		guard:    deps.Guard,
		store:    store,
		gate:     gate.New(store, window, logger.With("component", "gate")),
		prompter: deps.Prompter,
		metrics:  deps.Metrics,
		logger:   logger,
		handlers: newRegistry(cfg, deps.FS, tools{
			read:   file.NewReadFileTool(deps.FS, cfg),
			write:  file.NewWriteFileTool(deps.FS, cfg),
			list:   directory.NewListDirTool(deps.FS, ignores, cfg),
			tree:   directory.NewTreeTool(deps.FS, ignores, cfg),
			search: search.NewSearchTool(deps.FS, ignores, cfg),
			todo:   todo.NewFindTool(deps.FS, ignores, cfg),
			git:    gitcmd.NewTool(deps.Executor, deps.Guard, cfg),
			shell:  shell.NewShellTool(deps.Executor, deps.FS, cfg),
		}),
	}
	d.requireConfirmation.Store(cfg.Gateway.RequireConfirmation)
	return d
}

// Dispatch runs call to completion and returns its single Result. It never
// panics on bad input and never returns before a pending approval resolves.
func (d *Dispatcher) Dispatch(ctx context.Context, call tool.Call) tool.Result {
	start := time.Now()
	d.store.GetOrCreate(call.ConversationID)

	result := d.dispatch(ctx, call)

	elapsed := time.Since(start)
	if d.metrics != nil {
		d.metrics.ObserveDispatch(string(call.Name), string(result.Outcome), elapsed)
	}
	d.logResult(result, elapsed)
	return result
}

func (d *Dispatcher) dispatch(ctx context.Context, call tool.Call) tool.Result {
	h, ok := d.handlers[call.Name]
	if !ok {
		return d.record(call, d.failure(call, &ArgumentError{Tool: call.Name, Cause: ErrUnknownTool}))
	}

	dangerous := tool.Classify(call.Name) == tool.Dangerous
	confirm := dangerous && d.requireConfirmation.Load()

	// The call holding the slot also holds the conversation lock while it
	// waits, so a competing dangerous call is answered here instead of queueing.
	// Its history entry still waits its turn behind the holder.
	if confirm {
		if holder, pending := d.store.PendingID(call.ConversationID); pending {
			if _, err := d.prepare(ctx, call, h); err != nil {
				return d.recordInTurn(call, d.failure(call, err))
			}
			return d.recordInTurn(call, d.rejected(call, holder))
		}
	}

	unlock, err := d.store.Lock(ctx, call.ConversationID)
	if err != nil {
		return d.record(call, d.failure(call, err))
	}
	defer unlock()

	p, err := d.prepare(ctx, call, h)
	if err != nil {
		return d.record(call, d.failure(call, err))
	}
	if !confirm {
		return d.record(call, d.execute(ctx, call, p))
	}
	return d.record(call, d.approve(ctx, call, h, p))
}

// prepare resolves path arguments against the current allow-list and checks
// the remaining arguments. It performs no writes.
func (d *Dispatcher) prepare(ctx context.Context, call tool.Call, h handler) (*prepared, error) {
	args, err := resolvePaths(d.guard, call.Name, call.Args(), h.paths)
	if err != nil {
		return nil, err
	}
	return h.prepare(ctx, args)
}

// approve opens a PendingApproval, prompts, and waits for its resolution.
func (d *Dispatcher) approve(ctx context.Context, call tool.Call, h handler, p *prepared) tool.Result {
	pending, err := d.gate.Open(call)
	if err != nil {
		var conflict *gate.ConflictError
		if errors.As(err, &conflict) {
			return d.rejected(call, conflict.PendingID)
		}
		return d.failure(call, err)
	}
	if d.metrics != nil {
		d.metrics.ApprovalOpened()
	}

	req := newApprovalRequest(pending, p.notes)
	req.Args = p.args
	resolution, err := d.await(ctx, pending, req)
	if d.metrics != nil {
		d.metrics.ApprovalClosed(string(resolution), time.Since(pending.CreatedAt))
	}

	switch {
	case errors.Is(err, errPrompt):
		return tool.Unsuccessful(call, tool.Failed, tool.KindPromptFailure, err.Error())
	case err != nil:
		return d.failure(call, err)
	}

	switch resolution {
	case gate.Approved:
		if err := d.recheckPaths(call, h, p); err != nil {
			return d.failure(call, err)
		}
		return d.execute(ctx, call, p)
	case gate.Denied:
		return tool.Unsuccessful(call, tool.Denied, tool.KindDenied, "Operation denied by user")
	case gate.Expired:
		return tool.Unsuccessful(call, tool.Expired, tool.KindExpired, "Confirmation window expired")
	default:
		return tool.Unsuccessful(call, tool.Failed, tool.KindCancelled, "Approval withdrawn")
	}
}

var errPrompt = errors.New("approval prompt failed")

// recheckPaths resolves the path arguments again after approval. The allow-list
// may have been reloaded, or a symlink swapped in, while the prompt was open.
func (d *Dispatcher) recheckPaths(call tool.Call, h handler, p *prepared) error {
	args, err := resolvePaths(d.guard, call.Name, call.Args(), h.paths)
	if err != nil {
		return err
	}
	for _, pa := range h.paths {
		if args[pa.key] != p.args[pa.key] {
			return &ArgumentError{Tool: call.Name, Key: pa.key, Cause: ErrPathChanged}
		}
	}
	return nil
}

func (d *Dispatcher) await(ctx context.Context, pending gate.PendingApproval, req ApprovalRequest) (gate.Resolution, error) {
	if err := d.prompter.Prompt(ctx, req); err != nil {
		d.gate.Withdraw(pending.ID)
		d.logger.Error("approval prompt failed", "id", pending.ID, "tool", pending.Call.Name, "error", err)
		return gate.Withdrawn, fmt.Errorf("%w: %w", errPrompt, err)
	}
	return d.gate.Wait(ctx, pending.ID)
}

// execute runs the effect and maps its outcome.
func (d *Dispatcher) execute(ctx context.Context, call tool.Call, p *prepared) tool.Result {
	start := time.Now()
	payload, err := p.run(ctx)
	if d.metrics != nil {
		d.metrics.ObserveEffect(string(call.Name), time.Since(start))
	}
	if err != nil {
		return d.failure(call, err)
	}
	return tool.Succeeded(call, payload)
}

func (d *Dispatcher) failure(call tool.Call, err error) tool.Result {
	return tool.Unsuccessful(call, tool.Failed, errorKind(err), err.Error())
}

func (d *Dispatcher) rejected(call tool.Call, holder string) tool.Result {
	return tool.Unsuccessful(call, tool.Rejected, tool.KindConflict,
		"Another operation is awaiting confirmation ("+holder+")")
}

func (d *Dispatcher) record(call tool.Call, result tool.Result) tool.Result {
	d.store.Append(call.ConversationID, call, result)
	return result
}

func (d *Dispatcher) recordInTurn(call tool.Call, result tool.Result) tool.Result {
	d.store.AppendInTurn(call.ConversationID, call, result)
	return result
}

func (d *Dispatcher) logResult(r tool.Result, elapsed time.Duration) {
	attrs := []any{
		"tool", r.Call.Name,
		"conversation", r.Call.ConversationID,
		"outcome", r.Outcome,
		"duration", elapsed,
	}
	if r.Err != nil {
		attrs = append(attrs, "kind", r.Err.Kind, "error", r.Err.Message)
	}
	if r.Outcome == tool.Failed {
		d.logger.Warn("dispatch", attrs...)
		return
	}
	d.logger.Info("dispatch", attrs...)
}

// Resolve answers the pending approval with the given id.
func (d *Dispatcher) Resolve(id string, approve bool) error {
	decision := gate.Deny
	if approve {
		decision = gate.Approve
	}
	return d.gate.Resolve(id, decision)
}

// Clear drops a conversation's history. A pending approval is left to resolve on its own.
func (d *Dispatcher) Clear(conversationID string) bool {
	return d.store.Clear(conversationID)
}

// History returns a copy of a conversation's recorded calls, oldest first.
func (d *Dispatcher) History(conversationID string) []session.Entry {
	return d.store.History(conversationID)
}

// Pending returns a pending approval by id.
func (d *Dispatcher) Pending(id string) (gate.PendingApproval, bool) {
	return d.gate.Get(id)
}

// Status is a read-only snapshot of the gateway policy.
type Status struct {
	AllowedRoots        []string
	ProjectRoot         string
	RequireConfirmation bool
	ConfirmationWindow  time.Duration
	MaxHistoryLen       int
	Conversations       int
	PendingApprovals    int
}

func (d *Dispatcher) Status() Status {
	return Status{
		AllowedRoots:        d.guard.Roots(),
		ProjectRoot:         d.guard.ProjectRoot(),
		RequireConfirmation: d.requireConfirmation.Load(),
		ConfirmationWindow:  d.gate.Window(),
		MaxHistoryLen:       d.store.MaxHistory(),
		Conversations:       len(d.store.Conversations()),
		PendingApprovals:    d.gate.Len(),
	}
}

// SetRequireConfirmation turns the approval gate on or off for later calls.
func (d *Dispatcher) SetRequireConfirmation(on bool) {
	d.requireConfirmation.Store(on)
	d.logger.Info("confirmation setting changed", "require_confirmation", on)
}

// SetAllowedRoots swaps the allow-list atomically. On error the previous list stays in force.
func (d *Dispatcher) SetAllowedRoots(roots []string, projectRoot string) error {
	if err := d.guard.SetRoots(roots, projectRoot); err != nil {
		return err
	}
	d.logger.Info("allowed directories reloaded", "roots", d.guard.Roots(), "project_root", d.guard.ProjectRoot())
	return nil
}
