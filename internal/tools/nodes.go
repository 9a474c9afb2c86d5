package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func getNodesTool() mcp.Tool {
	return mcp.NewTool("get_nodes",
		mcp.WithDescription(getNodesDesc),
	)
}

func (s *Server) handleGetNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes, err := s.client.ListNodes(ctx)
	if err != nil {
		s.logger.Error("get_nodes failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to get nodes: %v", err)), nil
	}

	return mcp.NewToolResultText(formatNodes(nodes)), nil
}

func getNodeStatusTool() mcp.Tool {
	return mcp.NewTool("get_node_status",
		mcp.WithDescription(getNodeStatusDesc),
		mcp.WithString("node",
			mcp.Required(),
			mcp.Description("Name of the node to query (e.g. 'pve1')"),
		),
	)
}

func (s *Server) handleGetNodeStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeName, err := req.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	node, err := s.client.GetNodeStatus(ctx, nodeName)
	if err != nil {
		s.logger.Error("get_node_status failed for %s: %v", nodeName, err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to get status for node %s: %v", nodeName, err)), nil
	}

	return mcp.NewToolResultText(formatNodeStatus(node)), nil
}
