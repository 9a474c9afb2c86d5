package api

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Sentinel errors for guest command execution. Callers match these with
// errors.Is; all of them are terminal for the invocation that produced them.
var (
	// ErrVMNotFound indicates the VM ID was absent from every node's listing.
	ErrVMNotFound = errors.New("vm not found on any node")

	// ErrVMNotRunning indicates the VM exists but is not powered on.
	ErrVMNotRunning = errors.New("vm is not running")

	// ErrAgentUnavailable indicates the QEMU guest agent is not installed,
	// not configured, or not responding inside the guest.
	ErrAgentUnavailable = errors.New("qemu guest agent is not available")

	// ErrTaskUnknown indicates the agent no longer recognizes the exec task
	// handle, typically because the task expired or the agent restarted.
	ErrTaskUnknown = errors.New("guest agent no longer recognizes the command")

	// ErrExecTimeout indicates the polling budget was exhausted before the
	// guest command reported completion. The command may still be running
	// inside the guest; there is no cross-system cancellation primitive.
	ErrExecTimeout = errors.New("guest command did not complete in time")
)

// APIError represents an error response from the Proxmox API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("proxmox api error (status %d): %s", e.StatusCode, e.Message)
}

// IsTransient reports whether err looks like a single recoverable remote-call
// failure: network trouble or a server-side 5xx that carries no permanent
// condition. The sentinel errors above are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrVMNotFound) || errors.Is(err, ErrVMNotRunning) ||
		errors.Is(err, ErrAgentUnavailable) || errors.Is(err, ErrTaskUnknown) ||
		errors.Is(err, ErrExecTimeout) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Wrapped transport errors lose their type through fmt.Errorf without %w,
	// so fall back to message inspection the same way the retry logic does.
	msg := err.Error()
	return strings.Contains(msg, "connection") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "EOF")
}
