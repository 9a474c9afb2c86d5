package api

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Defaults for the guest command polling loop. Both are overridable per
// request so tests and callers with tighter budgets can shrink them.
const (
	DefaultExecMaxAttempts  = 10
	DefaultExecPollInterval = time.Second
)

// ExecRequest describes one guest command invocation. It is immutable once
// submitted; the coordinator never mutates the caller's copy.
type ExecRequest struct {
	// Node hosting the VM. When empty the node is resolved by walking the
	// cluster topology before submission.
	Node string

	// VMID identifies the target VM, unique cluster-wide.
	VMID int

	// Command is the shell command executed inside the guest.
	Command string

	// MaxAttempts bounds the poll loop. Zero means DefaultExecMaxAttempts.
	MaxAttempts int

	// PollInterval separates poll iterations. Zero means DefaultExecPollInterval.
	PollInterval time.Duration
}

// ExecResult is the terminal outcome of one guest command invocation.
// Exactly one ExecResult (or error) is produced per request; partial state
// is never exposed.
//
// ExitCode is nil when the process did not report one (e.g. terminated by a
// signal). A nil ExitCode with a non-nil ExecResult still means the command
// was submitted and finished; "could not be run at all" surfaces as an error
// from ExecuteVMCommand instead.
type ExecResult struct {
	Success   bool   `json:"success"`
	Output    string `json:"output"`
	ErrOutput string `json:"error,omitempty"`
	ExitCode  *int   `json:"exit_code,omitempty"`
}

// ExecuteVMCommand runs a shell command inside a VM through the QEMU guest
// agent and waits for it to finish.
//
// The execution proceeds through a fixed sequence: resolve the hosting node
// (when not supplied), submit the command, then poll for completion up to
// MaxAttempts times with PollInterval between iterations. Resolution and
// submission failures are final; retrying a submission against a stopped VM
// or a dead agent cannot succeed within the same invocation window. During
// polling, a single failed poll consumes an attempt but does not abort the
// loop; only ErrTaskUnknown aborts immediately. When the budget is exhausted
// without completion the call fails with ErrExecTimeout, carrying the last
// observed state. Output is never fabricated on any failure path.
//
// Abandoning the call (context cancellation) stops polling but does not
// cancel the in-guest command; the guest agent offers no cancellation
// primitive for started processes.
func (c *Client) ExecuteVMCommand(ctx context.Context, req ExecRequest) (*ExecResult, error) {
	if req.MaxAttempts <= 0 {
		req.MaxAttempts = DefaultExecMaxAttempts
	}
	if req.PollInterval <= 0 {
		req.PollInterval = DefaultExecPollInterval
	}

	node := req.Node
	if node == "" {
		located, err := c.LocateVM(ctx, req.VMID)
		if err != nil {
			return nil, err
		}
		node = located
	}

	pid, err := c.AgentExec(ctx, node, req.VMID, req.Command)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Guest command started on %s/%d with pid %d", node, req.VMID, pid)

	var lastPollErr error
	for attempt := 1; attempt <= req.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(req.PollInterval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		status, err := c.AgentExecStatus(ctx, node, req.VMID, pid)
		if err != nil {
			if errors.Is(err, ErrTaskUnknown) {
				return nil, err
			}
			// A dropped poll consumes an attempt; a permanently dead agent
			// surfaces as exhaustion below rather than a fast-fail.
			c.logger.Debug("Poll %d/%d for pid %d failed: %v", attempt, req.MaxAttempts, pid, err)
			lastPollErr = err
			continue
		}

		if !status.Exited {
			c.logger.Debug("Poll %d/%d for pid %d: still running", attempt, req.MaxAttempts, pid)
			lastPollErr = nil
			continue
		}

		return resultFromStatus(status), nil
	}

	if lastPollErr != nil {
		return nil, fmt.Errorf("%w after %d attempts (last poll error: %v)", ErrExecTimeout, req.MaxAttempts, lastPollErr)
	}
	return nil, fmt.Errorf("%w after %d attempts: pid %d still running", ErrExecTimeout, req.MaxAttempts, pid)
}

// resultFromStatus reconciles a finished agent status into the terminal
// result. Success requires a clean exit: exit code zero and no stderr data
// reported by the agent.
func resultFromStatus(status *AgentExecStatus) *ExecResult {
	result := &ExecResult{
		Output:    status.OutData,
		ErrOutput: status.ErrData,
	}

	if status.ExitCode != nil {
		code := *status.ExitCode
		result.ExitCode = &code
	} else if status.Signal != nil {
		result.ErrOutput = appendNote(result.ErrOutput, fmt.Sprintf("process terminated by signal %d", *status.Signal))
	}

	result.Success = status.ExitCode != nil && *status.ExitCode == 0 && status.ErrData == ""

	return result
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
