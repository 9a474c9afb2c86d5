package tools

// Tool descriptions shown to the calling agent.

const getNodesDesc = `List all nodes in the Proxmox cluster with their status, CPU, memory, and storage usage.

Example:
pve1 | online | CPU: 15.0% of 16 cores | Memory: 8.0 GB / 32.0 GB`

const getNodeStatusDesc = `Get detailed status information for a specific Proxmox node.

Parameters:
node* - Name of the node to query (e.g. 'pve1')`

const getVMsDesc = `List all virtual machines across the cluster with their status and resource usage.

Example:
100 | ubuntu | running | node: pve1 | cores: 2 | memory: 1.5 GB / 4.0 GB`

const getContainersDesc = `List all LXC containers across the cluster with their status and configuration.

Example:
200 | nginx | running | node: pve1 | memory: 256.0 MB / 1.0 GB`

const getStorageDesc = `List storage pools across the cluster with their usage and configuration.

Example:
local-lvm | lvmthin | available | 500.0 GB / 1.0 TB (50.0%)`

const getClusterStatusDesc = `Get overall Proxmox cluster health: cluster name, quorum state, and node counts.`

const createVMDesc = `Create (spin up) a new virtual machine from a local ISO.

Parameters:
node* - Host node name (e.g. 'pve1')
name* - Name for the new VM (e.g. 'my-new-vm')
iso* - ISO volume ID from local storage (e.g. 'local:iso/ubuntu-22.04.iso')
cores - Number of CPU cores (default: 2)
memory - Memory in MB (default: 2048)
storage - Storage pool for the system disk (default: 'local-lvm')`

const changeVMStateDesc = `Change the power state of a virtual machine.

Parameters:
node* - Host node name (e.g. 'pve1')
vmid* - VM ID number (e.g. '100')
action* - One of: start, stop, shutdown, reboot, reset, suspend, resume`

const executeVMCommandDesc = `Execute a shell command in a VM via the QEMU guest agent.

The VM must be running and have the guest agent installed. When 'node' is
omitted, the VM is located by scanning the cluster.

Parameters:
node - Host node name (e.g. 'pve1'); optional
vmid* - VM ID number (e.g. '100')
command* - Shell command to run (e.g. 'uname -a')`
