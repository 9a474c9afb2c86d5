package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func getVMsTool() mcp.Tool {
	return mcp.NewTool("get_vms",
		mcp.WithDescription(getVMsDesc),
	)
}

func (s *Server) handleGetVMs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vms, err := s.client.ListVMs(ctx)
	if err != nil {
		s.logger.Error("get_vms failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to get VMs: %v", err)), nil
	}

	return mcp.NewToolResultText(formatVMs(vms)), nil
}

func getContainersTool() mcp.Tool {
	return mcp.NewTool("get_containers",
		mcp.WithDescription(getContainersDesc),
	)
}

func (s *Server) handleGetContainers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	containers, err := s.client.ListContainers(ctx)
	if err != nil {
		s.logger.Error("get_containers failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to get containers: %v", err)), nil
	}

	return mcp.NewToolResultText(formatContainers(containers)), nil
}
