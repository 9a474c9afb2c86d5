package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoragePool_GetUsagePercent(t *testing.T) {
	pool := &StoragePool{Disk: 25, MaxDisk: 100}
	assert.Equal(t, 25.0, pool.GetUsagePercent())

	empty := &StoragePool{}
	assert.Equal(t, 0.0, empty.GetUsagePercent())
}

func TestListStorage_DeduplicatesShared(t *testing.T) {
	nodeStorage := map[string][]interface{}{
		"pve1": {
			map[string]interface{}{
				"storage": "local-lvm", "type": "lvmthin", "active": 1.0,
				"used": 100.0, "total": 1000.0,
			},
			map[string]interface{}{
				"storage": "ceph-pool", "type": "rbd", "active": 1.0, "shared": 1.0,
				"used": 500.0, "total": 5000.0,
			},
		},
		"pve2": {
			map[string]interface{}{
				"storage": "local-lvm", "type": "lvmthin", "active": 1.0,
				"used": 200.0, "total": 1000.0,
			},
			map[string]interface{}{
				"storage": "ceph-pool", "type": "rbd", "active": 1.0, "shared": 1.0,
				"used": 500.0, "total": 5000.0,
			},
		},
	}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api2/json/nodes" {
			writeJSON(t, w, map[string]interface{}{"data": []interface{}{
				map[string]interface{}{"node": "pve1", "status": "online"},
				map[string]interface{}{"node": "pve2", "status": "online"},
			}})
			return
		}
		for name, entries := range nodeStorage {
			if r.URL.Path == "/api2/json/nodes/"+name+"/storage" {
				writeJSON(t, w, map[string]interface{}{"data": entries})
				return
			}
		}
		t.Errorf("unexpected request: %s", r.URL.Path)
	}))

	pools, err := client.ListStorage(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 3, "shared storage must appear once, local storage per node")

	var sharedCount, localCount int
	for _, pool := range pools {
		if pool.Shared {
			sharedCount++
			assert.Equal(t, "ceph-pool", pool.Name)
		} else {
			localCount++
			assert.Equal(t, "local-lvm", pool.Name)
		}
	}
	assert.Equal(t, 1, sharedCount)
	assert.Equal(t, 2, localCount)
}

func TestStorageStatus(t *testing.T) {
	tests := []struct {
		name     string
		entry    map[string]interface{}
		expected string
	}{
		{
			name:     "active",
			entry:    map[string]interface{}{"active": 1.0, "enabled": 1.0},
			expected: "available",
		},
		{
			name:     "enabled but inactive",
			entry:    map[string]interface{}{"active": 0.0, "enabled": 1.0},
			expected: "inactive",
		},
		{
			name:     "disabled",
			entry:    map[string]interface{}{},
			expected: "disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, storageStatus(tt.entry))
		})
	}
}
