package api

import (
	"context"
	"fmt"
)

// StoragePool represents a Proxmox storage resource as reported by a node.
type StoragePool struct {
	Name       string `json:"storage"`
	Node       string `json:"node"`
	Plugintype string `json:"plugintype"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	Disk       int64  `json:"disk"`
	MaxDisk    int64  `json:"maxdisk"`
	Shared     bool   `json:"shared"`
}

// GetUsagePercent returns the storage usage as a percentage
func (s *StoragePool) GetUsagePercent() float64 {
	if s.MaxDisk == 0 {
		return 0
	}
	return (float64(s.Disk) / float64(s.MaxDisk)) * 100
}

// ListStorage retrieves storage pools across the cluster. Shared storage is
// reported by every node that mounts it; only the first sighting is kept.
// Local storage is unique per node, so every entry is kept.
func (c *Client) ListStorage(ctx context.Context) ([]StoragePool, error) {
	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return nil, err
	}

	var pools []StoragePool
	seenShared := make(map[string]bool)

	for _, node := range nodes {
		var res map[string]interface{}
		path := fmt.Sprintf("/nodes/%s/storage", node.Name)
		if err := c.GetWithCache(ctx, path, &res, StorageDataTTL); err != nil {
			return nil, fmt.Errorf("failed to list storage on node %s: %w", node.Name, err)
		}

		data, ok := res["data"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid storage response format for node %s", node.Name)
		}

		for _, item := range data {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}

			pool := StoragePool{
				Name:       getString(entry, "storage"),
				Node:       node.Name,
				Plugintype: getString(entry, "type"),
				Content:    getString(entry, "content"),
				Status:     storageStatus(entry),
				Disk:       int64(getFloat(entry, "used")),
				MaxDisk:    int64(getFloat(entry, "total")),
				Shared:     getBool(entry, "shared"),
			}

			if pool.Shared {
				if seenShared[pool.Name] {
					continue
				}
				seenShared[pool.Name] = true
			}

			pools = append(pools, pool)
		}
	}

	return pools, nil
}

func storageStatus(entry map[string]interface{}) string {
	if getBool(entry, "active") {
		return "available"
	}
	if getBool(entry, "enabled") {
		return "inactive"
	}
	return "disabled"
}
