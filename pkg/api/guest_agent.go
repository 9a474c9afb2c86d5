package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// AgentExecStatus represents the status and output of a command executed via
// the QEMU guest agent.
type AgentExecStatus struct {
	Exited   bool   `json:"exited"`        // Whether the process has exited
	ExitCode *int   `json:"exitcode"`      // Exit code (only if exited)
	OutData  string `json:"out-data"`      // Stdout data (decoded)
	ErrData  string `json:"err-data"`      // Stderr data (decoded)
	Signal   *int   `json:"signal"`        // Signal number if process was terminated
	OutTrunc bool   `json:"out-truncated"` // Whether stdout was truncated
	ErrTrunc bool   `json:"err-truncated"` // Whether stderr was truncated
}

// AgentExec starts command execution via the QEMU guest agent and returns the
// in-guest PID of the started process. The command runs through the guest's
// shell so pipes and quoting behave the way an operator expects.
//
// There is no separate precheck: a stopped VM or a missing agent is detected
// by this call failing, mapped to ErrVMNotRunning or ErrAgentUnavailable.
func (c *Client) AgentExec(ctx context.Context, node string, vmid int, command string) (int, error) {
	endpoint := fmt.Sprintf("/nodes/%s/qemu/%d/agent/exec", node, vmid)

	reqData := map[string]interface{}{
		"command": []string{"/bin/sh", "-c", command},
	}

	var res map[string]interface{}
	if err := c.PostWithResponse(ctx, endpoint, reqData, &res); err != nil {
		return 0, classifyAgentError(vmid, err)
	}

	data, ok := res["data"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("unexpected response format: missing 'data' field")
	}

	pid, ok := data["pid"].(float64) // JSON numbers are float64
	if !ok {
		return 0, fmt.Errorf("unexpected response format: missing or invalid 'pid' field")
	}

	return int(pid), nil
}

// AgentExecStatus retrieves the status of a command started via AgentExec.
// This is a single non-blocking poll: Exited=false means still running.
// An unrecognized PID maps to ErrTaskUnknown, which is terminal; any other
// failure is a single dropped poll the caller may absorb and retry.
func (c *Client) AgentExecStatus(ctx context.Context, node string, vmid, pid int) (*AgentExecStatus, error) {
	endpoint := fmt.Sprintf("/nodes/%s/qemu/%d/agent/exec-status?pid=%d", node, vmid, pid)

	var res map[string]interface{}
	if err := c.GetNoRetry(ctx, endpoint, &res); err != nil {
		return nil, classifyStatusError(pid, err)
	}

	data, ok := res["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected response format: missing 'data' field")
	}

	status := &AgentExecStatus{
		Exited:   getBool(data, "exited"),
		OutData:  decodeAgentData(getString(data, "out-data")),
		ErrData:  decodeAgentData(getString(data, "err-data")),
		OutTrunc: getBool(data, "out-truncated"),
		ErrTrunc: getBool(data, "err-truncated"),
	}

	if exitCode, ok := data["exitcode"].(float64); ok {
		code := int(exitCode)
		status.ExitCode = &code
	}

	if signal, ok := data["signal"].(float64); ok {
		sig := int(signal)
		status.Signal = &sig
	}

	return status, nil
}

// classifyAgentError maps a failed exec submission to the error taxonomy.
// Proxmox reports both conditions as a 500 with a descriptive message:
// "No QEMU guest agent configured" / "QEMU guest agent is not running" for a
// missing or dead agent, "VM <id> not running" for a stopped VM. The agent
// check must come first since its message also contains "not running".
func classifyAgentError(vmid int, err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("failed to execute guest agent command: %w", err)
	}

	msg := strings.ToLower(apiErr.Message)
	switch {
	case strings.Contains(msg, "guest agent"):
		return fmt.Errorf("vm %d: %w: %s", vmid, ErrAgentUnavailable, apiErr.Message)
	case strings.Contains(msg, "not running"):
		return fmt.Errorf("vm %d: %w", vmid, ErrVMNotRunning)
	default:
		return fmt.Errorf("failed to execute guest agent command: %w", err)
	}
}

// classifyStatusError maps a failed exec-status poll. A PID the agent no
// longer tracks is terminal; everything else stays as-is for the caller's
// transient handling.
func classifyStatusError(pid int, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg := strings.ToLower(apiErr.Message)
		if strings.Contains(msg, "pid") && (strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found")) {
			return fmt.Errorf("pid %d: %w", pid, ErrTaskUnknown)
		}
	}

	return fmt.Errorf("failed to get guest agent exec status: %w", err)
}

// decodeAgentData decodes the base64 payload Proxmox uses for agent output.
// Older API versions returned plain text; fall back to the raw string when
// the payload is not valid base64.
func decodeAgentData(s string) string {
	if s == "" {
		return ""
	}

	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
		return string(decoded)
	}

	return s
}
