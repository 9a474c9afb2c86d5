package tools

import (
	"fmt"
	"strings"

	"github.com/devnullvoid/proxmox-mcp/pkg/api"
)

// Text rendering for tool responses. Output is line-oriented plain text so
// the calling agent can quote it directly.

func formatNodes(nodes []api.Node) string {
	if len(nodes) == 0 {
		return "No nodes found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Proxmox Nodes (%d)\n", len(nodes))
	for _, n := range nodes {
		status := n.Status
		if status == "" {
			status = "unknown"
		}
		fmt.Fprintf(&b, "%s | %s | CPU: %.1f%% of %.0f cores | Memory: %s / %s | Uptime: %s\n",
			n.Name, status, n.CPUUsage*100, n.CPUCount,
			api.FormatBytes(n.MemoryUsed), api.FormatBytes(n.MemoryTotal),
			api.FormatUptime(n.Uptime))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatNodeStatus(n *api.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Node: %s\n", n.Name)
	fmt.Fprintf(&b, "Status: %s\n", n.Status)
	fmt.Fprintf(&b, "CPU: %.1f%% of %.0f cores\n", n.CPUUsage*100, n.CPUCount)
	fmt.Fprintf(&b, "Memory: %s / %s\n", api.FormatBytes(n.MemoryUsed), api.FormatBytes(n.MemoryTotal))
	fmt.Fprintf(&b, "Root FS: %s / %s\n", api.FormatBytes(n.UsedStorage), api.FormatBytes(n.TotalStorage))
	fmt.Fprintf(&b, "Uptime: %s", api.FormatUptime(n.Uptime))
	if n.Version != "" {
		fmt.Fprintf(&b, "\nVersion: %s", n.Version)
	}
	if n.KernelVersion != "" {
		fmt.Fprintf(&b, "\nKernel: %s", n.KernelVersion)
	}
	return b.String()
}

func formatVMs(vms []api.VMSummary) string {
	if len(vms) == 0 {
		return "No VMs found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Virtual Machines (%d)\n", len(vms))
	for _, vm := range vms {
		cores := "unknown"
		if vm.Cores != nil {
			cores = fmt.Sprintf("%d", *vm.Cores)
		}
		fmt.Fprintf(&b, "%d | %s | %s | node: %s | cores: %s | memory: %s / %s\n",
			vm.VMID, vm.Name, vm.Status, vm.Node, cores,
			api.FormatBytes(vm.Mem), api.FormatBytes(vm.MaxMem))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatContainers(containers []api.Container) string {
	if len(containers) == 0 {
		return "No containers found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Containers (%d)\n", len(containers))
	for _, ct := range containers {
		fmt.Fprintf(&b, "%d | %s | %s | node: %s | memory: %s / %s\n",
			ct.VMID, ct.Name, ct.Status, ct.Node,
			api.FormatBytes(ct.Mem), api.FormatBytes(ct.MaxMem))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStorage(pools []api.StoragePool) string {
	if len(pools) == 0 {
		return "No storage pools found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Storage Pools (%d)\n", len(pools))
	for _, p := range pools {
		scope := "node: " + p.Node
		if p.Shared {
			scope = "shared"
		}
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s / %s (%.1f%%)\n",
			p.Name, p.Plugintype, p.Status, scope,
			api.FormatBytes(p.Disk), api.FormatBytes(p.MaxDisk), p.GetUsagePercent())
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatClusterStatus(status *api.ClusterStatus) string {
	quorum := "ok"
	if !status.Quorate {
		quorum = "lost"
	}
	return fmt.Sprintf("Cluster: %s\nQuorum: %s\nNodes: %d (%d online)",
		status.Name, quorum, status.TotalNodes, status.OnlineNodes)
}

func formatCreateVM(vmid int, name, node string) string {
	return fmt.Sprintf("Created VM %d (%s) on node %s", vmid, name, node)
}

func formatStateChange(action api.VMAction, vmid int, node, upid string) string {
	msg := fmt.Sprintf("Action '%s' submitted for VM %d on node %s", action, vmid, node)
	if upid != "" {
		msg += "\nTask: " + upid
	}
	return msg
}

// formatCommandResult distinguishes a command that ran and failed (exit code
// present) from one whose outcome carries agent-reported errors.
func formatCommandResult(command string, result *api.ExecResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command: %s\n", command)
	fmt.Fprintf(&b, "Success: %t\n", result.Success)
	if result.ExitCode != nil {
		fmt.Fprintf(&b, "Exit code: %d\n", *result.ExitCode)
	}

	output := strings.TrimRight(result.Output, "\n")
	if output == "" {
		output = "(no output)"
	}
	fmt.Fprintf(&b, "Output:\n%s", output)

	if result.ErrOutput != "" {
		fmt.Fprintf(&b, "\nError:\n%s", strings.TrimRight(result.ErrOutput, "\n"))
	}

	return b.String()
}
