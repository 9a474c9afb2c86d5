package api

import (
	"context"
	"fmt"
	"strings"
)

// VMAction is a power-state transition for a QEMU VM.
type VMAction string

// Allowed power-state transitions. Each maps to a fixed status endpoint;
// there is no dynamic dispatch, so an action outside this set is rejected
// before any remote call is made.
const (
	ActionStart    VMAction = "start"
	ActionStop     VMAction = "stop"
	ActionShutdown VMAction = "shutdown"
	ActionReboot   VMAction = "reboot"
	ActionReset    VMAction = "reset"
	ActionSuspend  VMAction = "suspend"
	ActionResume   VMAction = "resume"
)

// vmActionEndpoints is the complete table of supported transitions.
var vmActionEndpoints = map[VMAction]string{
	ActionStart:    "start",
	ActionStop:     "stop",
	ActionShutdown: "shutdown",
	ActionReboot:   "reboot",
	ActionReset:    "reset",
	ActionSuspend:  "suspend",
	ActionResume:   "resume",
}

// ParseVMAction validates a caller-supplied action name against the table of
// allowed transitions.
func ParseVMAction(s string) (VMAction, error) {
	action := VMAction(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := vmActionEndpoints[action]; !ok {
		return "", fmt.Errorf("invalid action %q: must be one of %s", s, strings.Join(VMActionNames(), ", "))
	}
	return action, nil
}

// VMActionNames returns the allowed action names in a stable order.
func VMActionNames() []string {
	return []string{
		string(ActionStart), string(ActionStop), string(ActionShutdown),
		string(ActionReboot), string(ActionReset), string(ActionSuspend),
		string(ActionResume),
	}
}

// ChangeVMState performs a power-state transition on a QEMU VM and returns
// the task UPID Proxmox assigns to the asynchronous operation.
func (c *Client) ChangeVMState(ctx context.Context, node string, vmid int, action VMAction) (string, error) {
	endpoint, ok := vmActionEndpoints[action]
	if !ok {
		return "", fmt.Errorf("invalid action %q: must be one of %s", action, strings.Join(VMActionNames(), ", "))
	}

	path := fmt.Sprintf("/nodes/%s/qemu/%d/status/%s", node, vmid, endpoint)
	c.logger.Info("Changing state of VM %d on %s: %s", vmid, node, action)

	var response map[string]interface{}
	if err := c.PostWithResponse(ctx, path, nil, &response); err != nil {
		return "", fmt.Errorf("failed to %s VM %d: %w", action, vmid, err)
	}

	return extractUPID(response), nil
}

// extractUPID extracts the task UPID from a Proxmox API response. Some
// synchronous operations return no UPID; that is not an error.
func extractUPID(response map[string]interface{}) string {
	if dataField, ok := response["data"]; ok {
		if upid, ok := dataField.(string); ok && strings.HasPrefix(upid, "UPID:") {
			return upid
		}
	}
	return ""
}
