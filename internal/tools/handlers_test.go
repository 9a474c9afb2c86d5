package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnullvoid/proxmox-mcp/pkg/api"
)

// fakeClient is a scripted ProxmoxClient for handler tests.
type fakeClient struct {
	nodes         []api.Node
	nodeStatus    *api.Node
	vms           []api.VMSummary
	containers    []api.Container
	storage       []api.StoragePool
	clusterStatus *api.ClusterStatus
	createdVMID   int
	upid          string
	execResult    *api.ExecResult
	err           error

	lastCreateReq api.CreateVMRequest
	lastExecReq   api.ExecRequest
	lastAction    api.VMAction
	lastNode      string
	lastVMID      int
}

func (f *fakeClient) ListNodes(ctx context.Context) ([]api.Node, error) {
	return f.nodes, f.err
}

func (f *fakeClient) GetNodeStatus(ctx context.Context, nodeName string) (*api.Node, error) {
	f.lastNode = nodeName
	return f.nodeStatus, f.err
}

func (f *fakeClient) ListVMs(ctx context.Context) ([]api.VMSummary, error) {
	return f.vms, f.err
}

func (f *fakeClient) ListContainers(ctx context.Context) ([]api.Container, error) {
	return f.containers, f.err
}

func (f *fakeClient) ListStorage(ctx context.Context) ([]api.StoragePool, error) {
	return f.storage, f.err
}

func (f *fakeClient) GetClusterStatus(ctx context.Context) (*api.ClusterStatus, error) {
	return f.clusterStatus, f.err
}

func (f *fakeClient) CreateVM(ctx context.Context, req api.CreateVMRequest) (int, error) {
	f.lastCreateReq = req
	return f.createdVMID, f.err
}

func (f *fakeClient) ChangeVMState(ctx context.Context, node string, vmid int, action api.VMAction) (string, error) {
	f.lastNode = node
	f.lastVMID = vmid
	f.lastAction = action
	return f.upid, f.err
}

func (f *fakeClient) ExecuteVMCommand(ctx context.Context, req api.ExecRequest) (*api.ExecResult, error) {
	f.lastExecReq = req
	return f.execResult, f.err
}

func newTestServer(client *fakeClient, opts Options) *Server {
	return New(client, nil, opts)
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestHandleGetNodes(t *testing.T) {
	client := &fakeClient{nodes: []api.Node{
		{Name: "pve1", Status: "online", CPUCount: 8, CPUUsage: 0.5},
	}}
	s := newTestServer(client, Options{})

	result, err := s.handleGetNodes(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "pve1")
}

func TestHandleGetNodes_Error(t *testing.T) {
	client := &fakeClient{err: errors.New("cluster unreachable")}
	s := newTestServer(client, Options{})

	result, err := s.handleGetNodes(context.Background(), toolRequest(nil))
	require.NoError(t, err, "tool failures are reported in-band, not as handler errors")
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "cluster unreachable")
}

func TestHandleGetNodeStatus(t *testing.T) {
	client := &fakeClient{nodeStatus: &api.Node{Name: "pve1", Status: "online", CPUCount: 8}}
	s := newTestServer(client, Options{})

	result, err := s.handleGetNodeStatus(context.Background(), toolRequest(map[string]interface{}{
		"node": "pve1",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "pve1", client.lastNode)
	assert.Contains(t, resultText(t, result), "Node: pve1")
}

func TestHandleGetNodeStatus_MissingNode(t *testing.T) {
	s := newTestServer(&fakeClient{}, Options{})

	result, err := s.handleGetNodeStatus(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGetVMs(t *testing.T) {
	cores := 4
	client := &fakeClient{vms: []api.VMSummary{
		{VMID: 100, Name: "web", Node: "pve1", Status: "running", Cores: &cores},
	}}
	s := newTestServer(client, Options{})

	result, err := s.handleGetVMs(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "web")
}

func TestHandleGetContainers(t *testing.T) {
	client := &fakeClient{containers: []api.Container{
		{VMID: 200, Name: "dns", Node: "pve1", Status: "running"},
	}}
	s := newTestServer(client, Options{})

	result, err := s.handleGetContainers(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "dns")
}

func TestHandleGetStorage(t *testing.T) {
	client := &fakeClient{storage: []api.StoragePool{
		{Name: "local-lvm", Node: "pve1", Plugintype: "lvmthin", Status: "available", Disk: 100, MaxDisk: 1000},
	}}
	s := newTestServer(client, Options{})

	result, err := s.handleGetStorage(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "local-lvm")
}

func TestHandleGetClusterStatus(t *testing.T) {
	client := &fakeClient{clusterStatus: &api.ClusterStatus{
		Name: "homelab", Quorate: true, TotalNodes: 3, OnlineNodes: 3,
	}}
	s := newTestServer(client, Options{})

	result, err := s.handleGetClusterStatus(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "homelab")
	assert.Contains(t, text, "Quorum: ok")
}

func TestHandleCreateVM(t *testing.T) {
	client := &fakeClient{createdVMID: 105}
	s := newTestServer(client, Options{})

	result, err := s.handleCreateVM(context.Background(), toolRequest(map[string]interface{}{
		"node":   "pve1",
		"name":   "test-vm",
		"iso":    "local:iso/debian.iso",
		"cores":  4.0,
		"memory": 4096.0,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Created VM 105")

	assert.Equal(t, "pve1", client.lastCreateReq.Node)
	assert.Equal(t, "test-vm", client.lastCreateReq.Name)
	assert.Equal(t, "local:iso/debian.iso", client.lastCreateReq.ISO)
	assert.Equal(t, 4, client.lastCreateReq.Cores)
	assert.Equal(t, 4096, client.lastCreateReq.MemoryMB)
}

func TestHandleCreateVM_MissingRequired(t *testing.T) {
	s := newTestServer(&fakeClient{}, Options{})

	result, err := s.handleCreateVM(context.Background(), toolRequest(map[string]interface{}{
		"node": "pve1",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleChangeVMState(t *testing.T) {
	client := &fakeClient{upid: "UPID:pve1:0001:qmstart:100:root@pam:"}
	s := newTestServer(client, Options{})

	result, err := s.handleChangeVMState(context.Background(), toolRequest(map[string]interface{}{
		"node":   "pve1",
		"vmid":   "100",
		"action": "start",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, api.ActionStart, client.lastAction)
	assert.Equal(t, 100, client.lastVMID)
	assert.Contains(t, resultText(t, result), "UPID:pve1:0001:qmstart:100:root@pam:")
}

func TestHandleChangeVMState_InvalidAction(t *testing.T) {
	client := &fakeClient{}
	s := newTestServer(client, Options{})

	result, err := s.handleChangeVMState(context.Background(), toolRequest(map[string]interface{}{
		"node":   "pve1",
		"vmid":   "100",
		"action": "explode",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Empty(t, client.lastAction, "invalid actions must be rejected before any client call")
	assert.Contains(t, resultText(t, result), "invalid action")
}

func TestHandleChangeVMState_InvalidVMID(t *testing.T) {
	s := newTestServer(&fakeClient{}, Options{})

	result, err := s.handleChangeVMState(context.Background(), toolRequest(map[string]interface{}{
		"node":   "pve1",
		"vmid":   "abc",
		"action": "start",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "invalid vmid")
}

func TestHandleExecuteVMCommand(t *testing.T) {
	zero := 0
	client := &fakeClient{execResult: &api.ExecResult{
		Success:  true,
		Output:   "Linux vm1 5.4.0\n",
		ExitCode: &zero,
	}}
	s := newTestServer(client, Options{ExecMaxAttempts: 7, ExecPollInterval: 250 * time.Millisecond})

	result, err := s.handleExecuteVMCommand(context.Background(), toolRequest(map[string]interface{}{
		"vmid":    100.0,
		"command": "uname -a",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Success: true")
	assert.Contains(t, text, "Linux vm1 5.4.0")

	assert.Equal(t, 100, client.lastExecReq.VMID)
	assert.Equal(t, "uname -a", client.lastExecReq.Command)
	assert.Empty(t, client.lastExecReq.Node)
	assert.Equal(t, 7, client.lastExecReq.MaxAttempts, "configured poll budget must reach the client")
}

func TestHandleExecuteVMCommand_WithNode(t *testing.T) {
	client := &fakeClient{execResult: &api.ExecResult{Success: true}}
	s := newTestServer(client, Options{})

	_, err := s.handleExecuteVMCommand(context.Background(), toolRequest(map[string]interface{}{
		"node":    "pve2",
		"vmid":    "100",
		"command": "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, "pve2", client.lastExecReq.Node)
}

func TestHandleExecuteVMCommand_EmptyCommand(t *testing.T) {
	client := &fakeClient{}
	s := newTestServer(client, Options{})

	result, err := s.handleExecuteVMCommand(context.Background(), toolRequest(map[string]interface{}{
		"vmid":    "100",
		"command": "",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Empty(t, client.lastExecReq.Command, "an empty command must never be submitted")
}

func TestHandleExecuteVMCommand_ExecutionFailure(t *testing.T) {
	client := &fakeClient{err: api.ErrVMNotRunning}
	s := newTestServer(client, Options{})

	result, err := s.handleExecuteVMCommand(context.Background(), toolRequest(map[string]interface{}{
		"vmid":    "100",
		"command": "uname -a",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not running")
}
