package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Online(t *testing.T) {
	assert.True(t, (&Node{Status: "online"}).Online())
	assert.True(t, (&Node{Status: "Online"}).Online())
	assert.False(t, (&Node{Status: "offline"}).Online())
	assert.False(t, (&Node{}).Online())
}

func TestListNodes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api2/json/nodes", r.URL.Path)
		writeJSON(t, w, map[string]interface{}{"data": []interface{}{
			map[string]interface{}{
				"node": "pve1", "status": "online", "maxcpu": 16.0, "cpu": 0.25,
				"maxmem": 64000000000.0, "mem": 32000000000.0,
				"maxdisk": 500000000000.0, "disk": 100000000000.0,
				"uptime": 86400.0,
			},
			map[string]interface{}{
				"node": "pve2", "status": "offline",
			},
		}})
	}))

	nodes, err := client.ListNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, "pve1", nodes[0].Name)
	assert.True(t, nodes[0].Online())
	assert.Equal(t, 16.0, nodes[0].CPUCount)
	assert.Equal(t, 0.25, nodes[0].CPUUsage)
	assert.Equal(t, int64(64000000000), nodes[0].MemoryTotal)
	assert.Equal(t, int64(86400), nodes[0].Uptime)

	assert.Equal(t, "pve2", nodes[1].Name)
	assert.False(t, nodes[1].Online())
}

func TestGetNodeStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api2/json/nodes/pve1/status", r.URL.Path)
		writeJSON(t, w, map[string]interface{}{"data": map[string]interface{}{
			"kversion":   "Linux 6.8.4-2-pve",
			"pveversion": "pve-manager/8.2.4",
			"uptime":     3600.0,
			"cpu":        0.1,
			"cpuinfo":    map[string]interface{}{"cpus": 8.0, "model": "AMD EPYC"},
			"memory":     map[string]interface{}{"total": 32000000000.0, "used": 8000000000.0},
			"rootfs":     map[string]interface{}{"total": 100000000000.0, "used": 20000000000.0},
		}})
	}))

	node, err := client.GetNodeStatus(context.Background(), "pve1")
	require.NoError(t, err)

	assert.Equal(t, "pve1", node.Name)
	assert.Equal(t, "online", node.Status)
	assert.Equal(t, "Linux 6.8.4-2-pve", node.KernelVersion)
	assert.Equal(t, "pve-manager/8.2.4", node.Version)
	assert.Equal(t, 8.0, node.CPUCount)
	assert.Equal(t, 0.1, node.CPUUsage)
	assert.Equal(t, int64(32000000000), node.MemoryTotal)
	assert.Equal(t, int64(8000000000), node.MemoryUsed)
	assert.Equal(t, int64(100000000000), node.TotalStorage)
	assert.Equal(t, int64(20000000000), node.UsedStorage)
	assert.Equal(t, int64(3600), node.Uptime)
}

func TestGetNodeStatus_InvalidResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{"data": []interface{}{}})
	}))

	_, err := client.GetNodeStatus(context.Background(), "pve1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status response format")
}
