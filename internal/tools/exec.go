package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/devnullvoid/proxmox-mcp/pkg/api"
)

func executeVMCommandTool() mcp.Tool {
	return mcp.NewTool("execute_vm_command",
		mcp.WithDescription(executeVMCommandDesc),
		mcp.WithString("node",
			mcp.Description("Host node name (e.g. 'pve1'); resolved automatically when omitted"),
		),
		mcp.WithString("vmid",
			mcp.Required(),
			mcp.Description("VM ID number (e.g. '100')"),
		),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Shell command to run (e.g. 'uname -a')"),
		),
	)
}

func (s *Server) handleExecuteVMCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vmid, err := api.ParseVMID(req.GetArguments()["vmid"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid vmid: %v", err)), nil
	}

	command, err := req.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if command == "" {
		return mcp.NewToolResultError("command must not be empty"), nil
	}

	node := req.GetString("node", "")

	// Correlation ID ties the log lines of one invocation together; a busy
	// server interleaves many concurrent executions.
	reqID := uuid.NewString()[:8]
	s.logger.Info("[%s] execute_vm_command vmid=%d node=%q command=%q", reqID, vmid, node, command)

	result, err := s.client.ExecuteVMCommand(ctx, api.ExecRequest{
		Node:         node,
		VMID:         vmid,
		Command:      command,
		MaxAttempts:  s.opts.ExecMaxAttempts,
		PollInterval: s.opts.ExecPollInterval,
	})
	if err != nil {
		s.logger.Error("[%s] execute_vm_command failed: %v", reqID, err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to execute command on VM %d: %v", vmid, err)), nil
	}

	s.logger.Info("[%s] execute_vm_command finished: success=%t", reqID, result.Success)
	return mcp.NewToolResultText(formatCommandResult(command, result)), nil
}
