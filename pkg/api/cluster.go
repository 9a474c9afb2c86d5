package api

import (
	"context"
	"fmt"
)

// ClusterStatus represents overall Proxmox cluster health
type ClusterStatus struct {
	Name        string `json:"name"`
	Quorate     bool   `json:"quorate"`
	TotalNodes  int    `json:"nodes"`
	OnlineNodes int    `json:"online_nodes"`
}

// GetClusterStatus retrieves cluster health from /cluster/status. The
// endpoint returns a flat list of typed entries: one "cluster" entry with
// quorum information and one "node" entry per member.
func (c *Client) GetClusterStatus(ctx context.Context) (*ClusterStatus, error) {
	var res map[string]interface{}
	if err := c.GetWithCache(ctx, "/cluster/status", &res, ClusterDataTTL); err != nil {
		return nil, fmt.Errorf("failed to get cluster status: %w", err)
	}

	data, ok := res["data"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid cluster status response format")
	}

	status := &ClusterStatus{}
	for _, item := range data {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		switch getString(entry, "type") {
		case "cluster":
			status.Name = getString(entry, "name")
			status.Quorate = getBool(entry, "quorate")
			status.TotalNodes = getInt(entry, "nodes")
		case "node":
			if getBool(entry, "online") {
				status.OnlineNodes++
			}
		}
	}

	// Single-node installations have no cluster entry, only node entries
	if status.Name == "" {
		status.Name = "proxmox"
		status.TotalNodes = status.OnlineNodes
	}

	return status, nil
}
