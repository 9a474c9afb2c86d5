package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func getStorageTool() mcp.Tool {
	return mcp.NewTool("get_storage",
		mcp.WithDescription(getStorageDesc),
	)
}

func (s *Server) handleGetStorage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pools, err := s.client.ListStorage(ctx)
	if err != nil {
		s.logger.Error("get_storage failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to get storage: %v", err)), nil
	}

	return mcp.NewToolResultText(formatStorage(pools)), nil
}

func getClusterStatusTool() mcp.Tool {
	return mcp.NewTool("get_cluster_status",
		mcp.WithDescription(getClusterStatusDesc),
	)
}

func (s *Server) handleGetClusterStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.client.GetClusterStatus(ctx)
	if err != nil {
		s.logger.Error("get_cluster_status failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to get cluster status: %v", err)), nil
	}

	return mcp.NewToolResultText(formatClusterStatus(status)), nil
}
