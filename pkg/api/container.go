package api

import (
	"context"
	"fmt"
)

// Container represents a Proxmox LXC container
type Container struct {
	VMID   int    `json:"vmid"`
	Name   string `json:"name"`
	Node   string `json:"node"`
	Status string `json:"status"`
	Mem    int64  `json:"mem"`
	MaxMem int64  `json:"maxmem"`
	Tags   string `json:"tags,omitempty"`
}

// ListContainers retrieves all LXC containers across the cluster.
func (c *Client) ListContainers(ctx context.Context) ([]Container, error) {
	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return nil, err
	}

	var containers []Container
	for _, node := range nodes {
		var res map[string]interface{}
		path := fmt.Sprintf("/nodes/%s/lxc", node.Name)
		if err := c.GetWithCache(ctx, path, &res, VMDataTTL); err != nil {
			return nil, fmt.Errorf("failed to list containers on node %s: %w", node.Name, err)
		}

		data, ok := res["data"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid container list response format for node %s", node.Name)
		}

		for _, item := range data {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			containers = append(containers, Container{
				VMID:   getInt(entry, "vmid"),
				Name:   getString(entry, "name"),
				Node:   node.Name,
				Status: getString(entry, "status"),
				Mem:    int64(getFloat(entry, "mem")),
				MaxMem: int64(getFloat(entry, "maxmem")),
				Tags:   getString(entry, "tags"),
			})
		}
	}

	return containers, nil
}
