package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/devnullvoid/proxmox-mcp/pkg/api"
)

func createVMTool() mcp.Tool {
	return mcp.NewTool("create_vm",
		mcp.WithDescription(createVMDesc),
		mcp.WithString("node",
			mcp.Required(),
			mcp.Description("Host node name (e.g. 'pve1')"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name for the new VM"),
		),
		mcp.WithString("iso",
			mcp.Required(),
			mcp.Description("ISO volume ID from local storage (e.g. 'local:iso/ubuntu-22.04.iso')"),
		),
		mcp.WithNumber("cores",
			mcp.Description("Number of CPU cores (default: 2)"),
		),
		mcp.WithNumber("memory",
			mcp.Description("Memory in MB (default: 2048)"),
		),
		mcp.WithString("storage",
			mcp.Description("Storage pool for the system disk (default: 'local-lvm')"),
		),
	)
}

func (s *Server) handleCreateVM(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	iso, err := req.RequireString("iso")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	createReq := api.CreateVMRequest{
		Node:     node,
		Name:     name,
		ISO:      iso,
		Cores:    req.GetInt("cores", 0),
		MemoryMB: req.GetInt("memory", 0),
		Storage:  req.GetString("storage", ""),
	}

	vmid, err := s.client.CreateVM(ctx, createReq)
	if err != nil {
		s.logger.Error("create_vm failed for %s on %s: %v", name, node, err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to create VM: %v", err)), nil
	}

	s.logger.Info("Created VM %d (%s) on node %s", vmid, name, node)
	return mcp.NewToolResultText(formatCreateVM(vmid, name, node)), nil
}

func changeVMStateTool() mcp.Tool {
	return mcp.NewTool("change_vm_state",
		mcp.WithDescription(changeVMStateDesc),
		mcp.WithString("node",
			mcp.Required(),
			mcp.Description("Host node name (e.g. 'pve1')"),
		),
		mcp.WithString("vmid",
			mcp.Required(),
			mcp.Description("VM ID number (e.g. '100')"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("Power action: start, stop, shutdown, reboot, reset, suspend, resume"),
		),
	)
}

func (s *Server) handleChangeVMState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	vmid, err := api.ParseVMID(req.GetArguments()["vmid"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid vmid: %v", err)), nil
	}

	actionName, err := req.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Unknown actions are rejected here, before any remote call
	action, err := api.ParseVMAction(actionName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	upid, err := s.client.ChangeVMState(ctx, node, vmid, action)
	if err != nil {
		s.logger.Error("change_vm_state (%s) failed for VM %d: %v", action, vmid, err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s VM %d: %v", action, vmid, err)), nil
	}

	return mcp.NewToolResultText(formatStateChange(action, vmid, node, upid)), nil
}
