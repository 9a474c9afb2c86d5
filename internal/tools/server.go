// Package tools exposes Proxmox cluster operations as MCP tools.
//
// Each tool wraps one API client operation, translates MCP arguments into
// typed requests, and renders the outcome as text for the calling agent.
// The package owns tool registration and dispatch; all cluster semantics
// live in pkg/api.
package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/devnullvoid/proxmox-mcp/internal/version"
	"github.com/devnullvoid/proxmox-mcp/pkg/api"
	"github.com/devnullvoid/proxmox-mcp/pkg/api/interfaces"
)

// ProxmoxClient is the surface of the API client the tools consume. It is an
// interface so tests can substitute a fake without a live cluster.
type ProxmoxClient interface {
	ListNodes(ctx context.Context) ([]api.Node, error)
	GetNodeStatus(ctx context.Context, nodeName string) (*api.Node, error)
	ListVMs(ctx context.Context) ([]api.VMSummary, error)
	ListContainers(ctx context.Context) ([]api.Container, error)
	ListStorage(ctx context.Context) ([]api.StoragePool, error)
	GetClusterStatus(ctx context.Context) (*api.ClusterStatus, error)
	CreateVM(ctx context.Context, req api.CreateVMRequest) (int, error)
	ChangeVMState(ctx context.Context, node string, vmid int, action api.VMAction) (string, error)
	ExecuteVMCommand(ctx context.Context, req api.ExecRequest) (*api.ExecResult, error)
}

// Options tunes the tool layer.
type Options struct {
	// ExecMaxAttempts bounds the guest command poll loop. Zero uses the
	// api package default.
	ExecMaxAttempts int

	// ExecPollInterval separates guest command poll iterations. Zero uses
	// the api package default.
	ExecPollInterval time.Duration
}

// Server wires Proxmox operations into an MCP server.
type Server struct {
	mcp    *server.MCPServer
	client ProxmoxClient
	logger interfaces.Logger
	opts   Options
}

// New creates a tool server backed by the given Proxmox client.
func New(client ProxmoxClient, logger interfaces.Logger, opts Options) *Server {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	s := &Server{
		mcp: server.NewMCPServer(
			"proxmox-mcp",
			version.GetVersionString(),
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		client: client,
		logger: logger,
		opts:   opts,
	}

	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(getNodesTool(), s.handleGetNodes)
	s.mcp.AddTool(getNodeStatusTool(), s.handleGetNodeStatus)
	s.mcp.AddTool(getVMsTool(), s.handleGetVMs)
	s.mcp.AddTool(getContainersTool(), s.handleGetContainers)
	s.mcp.AddTool(getStorageTool(), s.handleGetStorage)
	s.mcp.AddTool(getClusterStatusTool(), s.handleGetClusterStatus)
	s.mcp.AddTool(createVMTool(), s.handleCreateVM)
	s.mcp.AddTool(changeVMStateTool(), s.handleChangeVMState)
	s.mcp.AddTool(executeVMCommandTool(), s.handleExecuteVMCommand)
}

// ServeStdio runs the MCP server over stdin/stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("Starting MCP server on stdio")
	return server.ServeStdio(s.mcp)
}
