package api

import (
	"context"
	"fmt"
)

// LocateVM finds the node currently hosting the given VM ID by walking the
// cluster topology: every node is enumerated, then each node's QEMU listing
// is scanned until the first match. The cluster guarantees VM IDs are unique
// cluster-wide, so first-node-first-match is deterministic; enumeration order
// is whatever the API reports.
//
// The lookup is read-only and deliberately uncached: topology changes
// (migration) outside this process must be visible on the next call.
//
// Returns ErrVMNotFound when no node reports the VM after a full enumeration.
// An enumeration call failure is propagated as-is; retrying is the caller's
// decision, not this layer's.
func (c *Client) LocateVM(ctx context.Context, vmid int) (string, error) {
	nodes, err := c.nodeNames(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to enumerate nodes: %w", err)
	}

	for _, node := range nodes {
		vmids, err := c.nodeVMIDs(ctx, node)
		if err != nil {
			return "", fmt.Errorf("failed to list VMs on node %s: %w", node, err)
		}

		for _, id := range vmids {
			if id == vmid {
				c.logger.Debug("VM %d located on node %s", vmid, node)
				return node, nil
			}
		}
	}

	return "", fmt.Errorf("vm %d: %w", vmid, ErrVMNotFound)
}

// nodeNames returns the names of all cluster nodes, bypassing the cache.
func (c *Client) nodeNames(ctx context.Context) ([]string, error) {
	var res map[string]interface{}
	if err := c.Get(ctx, "/nodes", &res); err != nil {
		return nil, err
	}

	data, ok := res["data"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid node list response format")
	}

	names := make([]string, 0, len(data))
	for _, item := range data {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if name := getString(entry, "node"); name != "" {
			names = append(names, name)
		}
	}

	return names, nil
}

// nodeVMIDs returns the VM IDs reported by one node's QEMU listing,
// bypassing the cache.
func (c *Client) nodeVMIDs(ctx context.Context, nodeName string) ([]int, error) {
	var res map[string]interface{}
	path := fmt.Sprintf("/nodes/%s/qemu", nodeName)
	if err := c.Get(ctx, path, &res); err != nil {
		return nil, err
	}

	data, ok := res["data"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid VM list response format for node %s", nodeName)
	}

	vmids := make([]int, 0, len(data))
	for _, item := range data {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		vmids = append(vmids, getInt(entry, "vmid"))
	}

	return vmids, nil
}
