package api

import (
	"context"
	"fmt"
)

// Defaults for CreateVM matching common small-VM provisioning.
const (
	DefaultCreateCores    = 2
	DefaultCreateMemoryMB = 2048
	DefaultCreateStorage  = "local-lvm"
	defaultCreateDiskSize = 32 // GB
)

// CreateVMRequest describes a new VM provisioned from a local ISO image.
type CreateVMRequest struct {
	Node     string // Host node name, required
	Name     string // Name for the new VM, required
	ISO      string // ISO volume ID, e.g. "local:iso/ubuntu-22.04.iso", required
	Cores    int    // CPU cores, defaults to DefaultCreateCores
	MemoryMB int    // Memory in MB, defaults to DefaultCreateMemoryMB
	Storage  string // Storage pool for the system disk, defaults to DefaultCreateStorage
}

func (r *CreateVMRequest) applyDefaults() {
	if r.Cores <= 0 {
		r.Cores = DefaultCreateCores
	}
	if r.MemoryMB <= 0 {
		r.MemoryMB = DefaultCreateMemoryMB
	}
	if r.Storage == "" {
		r.Storage = DefaultCreateStorage
	}
}

func (r *CreateVMRequest) validate() error {
	if r.Node == "" {
		return fmt.Errorf("node is required")
	}
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.ISO == "" {
		return fmt.Errorf("iso is required")
	}
	return nil
}

// NextVMID asks the cluster for the next free VM ID.
func (c *Client) NextVMID(ctx context.Context) (int, error) {
	var res map[string]interface{}
	if err := c.Get(ctx, "/cluster/nextid", &res); err != nil {
		return 0, fmt.Errorf("failed to get next VM ID: %w", err)
	}

	// Proxmox returns the ID as a JSON string
	id, err := ParseVMID(res["data"])
	if err != nil {
		return 0, fmt.Errorf("invalid next VM ID response: %w", err)
	}

	return id, nil
}

// CreateVM provisions a new QEMU VM from a local ISO and returns its VM ID.
// The VM gets a virtio-scsi controller, a 32G system disk on the requested
// storage, and boots from the ISO first so the installer runs.
func (c *Client) CreateVM(ctx context.Context, req CreateVMRequest) (int, error) {
	if err := req.validate(); err != nil {
		return 0, err
	}
	req.applyDefaults()

	vmid, err := c.NextVMID(ctx)
	if err != nil {
		return 0, err
	}

	params := map[string]interface{}{
		"vmid":   vmid,
		"name":   req.Name,
		"ide2":   req.ISO + ",media=cdrom",
		"ostype": "l26",
		"cores":  req.Cores,
		"memory": req.MemoryMB,
		"scsihw": "virtio-scsi-pci",
		"scsi0":  fmt.Sprintf("%s:%d", req.Storage, defaultCreateDiskSize),
		"boot":   "order=ide2;scsi0",
	}

	path := fmt.Sprintf("/nodes/%s/qemu", req.Node)
	c.logger.Info("Creating VM %d (%s) on node %s", vmid, req.Name, req.Node)

	if err := c.Post(ctx, path, params); err != nil {
		return 0, fmt.Errorf("failed to create VM %d: %w", vmid, err)
	}

	return vmid, nil
}
