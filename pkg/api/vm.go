package api

import (
	"context"
	"fmt"
)

// VM type constants matching the Proxmox API resource types.
const (
	VMTypeQemu = "qemu"
	VMTypeLXC  = "lxc"
)

// VM status constants used by the Proxmox API.
const (
	VMStatusRunning = "running"
	VMStatusStopped = "stopped"
)

// VMSummary describes one QEMU VM as reported by a node's listing, enriched
// with its configured core count when the per-VM config could be fetched.
//
// Cores is nil when the config fetch failed: "could not determine" is a
// different statement than "zero cores" and the two are never conflated.
type VMSummary struct {
	VMID   int    `json:"vmid"`
	Name   string `json:"name"`
	Node   string `json:"node"`
	Status string `json:"status"`
	Cores  *int   `json:"cores,omitempty"`
	Mem    int64  `json:"mem"`
	MaxMem int64  `json:"maxmem"`
}

// ListVMs retrieves all QEMU VMs across the cluster with status and resource
// usage. Each VM's config is fetched to determine its core count; when that
// fetch fails the VM is still reported, on the degraded path with Cores nil.
func (c *Client) ListVMs(ctx context.Context) ([]VMSummary, error) {
	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return nil, err
	}

	var vms []VMSummary
	for _, node := range nodes {
		nodeVMs, err := c.listNodeVMs(ctx, node.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to list VMs on node %s: %w", node.Name, err)
		}
		vms = append(vms, nodeVMs...)
	}

	return vms, nil
}

func (c *Client) listNodeVMs(ctx context.Context, nodeName string) ([]VMSummary, error) {
	var res map[string]interface{}
	path := fmt.Sprintf("/nodes/%s/qemu", nodeName)
	if err := c.GetWithCache(ctx, path, &res, VMDataTTL); err != nil {
		return nil, err
	}

	data, ok := res["data"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid VM list response format for node %s", nodeName)
	}

	vms := make([]VMSummary, 0, len(data))
	for _, item := range data {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		vms = append(vms, c.describeVM(ctx, nodeName, entry))
	}

	return vms, nil
}

// describeVM builds a VMSummary from a node listing entry. It has two
// statically visible paths: the rich one includes the configured core count,
// the degraded one reports the same VM with Cores unknown when the config
// endpoint fails.
func (c *Client) describeVM(ctx context.Context, nodeName string, entry map[string]interface{}) VMSummary {
	summary := VMSummary{
		VMID:   getInt(entry, "vmid"),
		Name:   getString(entry, "name"),
		Node:   nodeName,
		Status: getString(entry, "status"),
		Mem:    int64(getFloat(entry, "mem")),
		MaxMem: int64(getFloat(entry, "maxmem")),
	}

	cores, err := c.vmCores(ctx, nodeName, summary.VMID)
	if err != nil {
		c.logger.Debug("Config fetch failed for VM %d on %s, reporting cores as unknown: %v", summary.VMID, nodeName, err)
		return summary
	}

	summary.Cores = &cores
	return summary
}

// vmCores fetches the configured core count for one VM.
func (c *Client) vmCores(ctx context.Context, nodeName string, vmid int) (int, error) {
	var res map[string]interface{}
	path := fmt.Sprintf("/nodes/%s/qemu/%d/config", nodeName, vmid)
	if err := c.GetWithCache(ctx, path, &res, VMDataTTL); err != nil {
		return 0, err
	}

	data, ok := res["data"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("unexpected config response format for VM %d", vmid)
	}

	if _, present := data["cores"]; !present {
		// Proxmox defaults to 1 core when the key is absent from the config
		return 1, nil
	}

	return getInt(data, "cores"), nil
}
