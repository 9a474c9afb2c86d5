package api

import (
	"context"
	"fmt"
	"strings"
)

// Node represents a Proxmox cluster node
type Node struct {
	Name          string  `json:"node"`
	Status        string  `json:"status"`
	CPUCount      float64 `json:"maxcpu"`
	CPUUsage      float64 `json:"cpu"`
	MemoryTotal   int64   `json:"maxmem"`
	MemoryUsed    int64   `json:"mem"`
	TotalStorage  int64   `json:"maxdisk"`
	UsedStorage   int64   `json:"disk"`
	Uptime        int64   `json:"uptime"`
	Version       string  `json:"pveversion"`
	KernelVersion string  `json:"kversion"`
}

// Online reports whether the node is reported online by the cluster.
func (n *Node) Online() bool {
	return strings.EqualFold(n.Status, "online")
}

// ListNodes retrieves all nodes in the cluster with their summary metrics.
func (c *Client) ListNodes(ctx context.Context) ([]Node, error) {
	var res map[string]interface{}
	if err := c.GetWithCache(ctx, "/nodes", &res, NodeDataTTL); err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	data, ok := res["data"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid node list response format")
	}

	nodes := make([]Node, 0, len(data))
	for _, item := range data {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		nodes = append(nodes, Node{
			Name:         getString(entry, "node"),
			Status:       getString(entry, "status"),
			CPUCount:     getFloat(entry, "maxcpu"),
			CPUUsage:     getFloat(entry, "cpu"),
			MemoryTotal:  int64(getFloat(entry, "maxmem")),
			MemoryUsed:   int64(getFloat(entry, "mem")),
			TotalStorage: int64(getFloat(entry, "maxdisk")),
			UsedStorage:  int64(getFloat(entry, "disk")),
			Uptime:       int64(getFloat(entry, "uptime")),
		})
	}

	return nodes, nil
}

// GetNodeStatus retrieves real-time status for a specific node
func (c *Client) GetNodeStatus(ctx context.Context, nodeName string) (*Node, error) {
	var res map[string]interface{}
	statusPath := fmt.Sprintf("/nodes/%s/status", nodeName)
	if err := c.Get(ctx, statusPath, &res); err != nil {
		return nil, fmt.Errorf("failed to get status for node %s: %w", nodeName, err)
	}

	data, ok := res["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid status response format for node %s", nodeName)
	}

	node := &Node{
		Name:          nodeName,
		Status:        "online",
		KernelVersion: getString(data, "kversion"),
		Version:       getString(data, "pveversion"),
		Uptime:        int64(getFloat(data, "uptime")),
	}

	// The status endpoint nests CPU and memory differently from /nodes
	if cpuinfo, ok := data["cpuinfo"].(map[string]interface{}); ok {
		node.CPUCount = getFloat(cpuinfo, "cpus")
	}
	node.CPUUsage = getFloat(data, "cpu")

	if memory, ok := data["memory"].(map[string]interface{}); ok {
		node.MemoryTotal = int64(getFloat(memory, "total"))
		node.MemoryUsed = int64(getFloat(memory, "used"))
	}

	if rootfs, ok := data["rootfs"].(map[string]interface{}); ok {
		node.TotalStorage = int64(getFloat(rootfs, "total"))
		node.UsedStorage = int64(getFloat(rootfs, "used"))
	}

	return node, nil
}
