package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnullvoid/proxmox-mcp/pkg/api/testutils"
)

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		body     string
		expected string
	}{
		{
			name:     "message field",
			status:   "500 Internal Server Error",
			body:     `{"message": "VM 100 not running"}`,
			expected: "VM 100 not running",
		},
		{
			name:     "errors field",
			status:   "400 Bad Request",
			body:     `{"errors": {"vmid": "invalid format"}}`,
			expected: "vmid: invalid format",
		},
		{
			name:     "raw body fallback",
			status:   "500 Internal Server Error",
			body:     "something broke",
			expected: "500 Internal Server Error: something broke",
		},
		{
			name:     "empty body",
			status:   "502 Bad Gateway",
			body:     "",
			expected: "502 Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apiErrorMessage(tt.status, []byte(tt.body)))
		})
	}
}

func TestHTTPClient_TokenAuthHeader(t *testing.T) {
	var authHeader string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		writeJSON(t, w, map[string]interface{}{"data": map[string]interface{}{}})
	}))

	var res map[string]interface{}
	require.NoError(t, client.GetNoRetry(context.Background(), "/version", &res))
	assert.Equal(t, "PVEAPIToken=testuser@pam!testtoken=testsecret", authHeader)
}

func TestHTTPClient_TicketAuthHeaders(t *testing.T) {
	var cookie, csrf string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api2/json/access/ticket":
			writeJSON(t, w, map[string]interface{}{
				"data": map[string]interface{}{
					"ticket":              "ticket-value",
					"CSRFPreventionToken": "csrf-value",
					"username":            "testuser@pam",
				},
			})
		case "/api2/json/nodes/pve1/qemu/100/status/start":
			cookie = r.Header.Get("Cookie")
			csrf = r.Header.Get("CSRFPreventionToken")
			writeJSON(t, w, map[string]interface{}{"data": "UPID:pve1:0001:qmstart:100:root@pam:"})
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	config := &testutils.TestConfig{
		Addr:     server.URL,
		User:     "testuser",
		Password: "testpass",
		Realm:    "pam",
		Insecure: true,
	}
	client, err := NewClient(context.Background(), config, WithLogger(testutils.NewTestLogger()))
	require.NoError(t, err)

	_, err = client.ChangeVMState(context.Background(), "pve1", 100, ActionStart)
	require.NoError(t, err)

	assert.Equal(t, "PVEAuthCookie=ticket-value", cookie)
	assert.Equal(t, "csrf-value", csrf, "write operations need the CSRF token")
}

func TestHTTPClient_RetriesTransientErrors(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			writeJSON(t, w, map[string]interface{}{"message": "temporarily unavailable"})
			return
		}
		writeJSON(t, w, map[string]interface{}{"data": []interface{}{}})
	}))

	var res map[string]interface{}
	err := client.Get(context.Background(), "/nodes", &res)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestHTTPClient_NoRetryOnClientError(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(t, w, map[string]interface{}{"message": "bad request"})
	}))

	var res map[string]interface{}
	err := client.Get(context.Background(), "/nodes", &res)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "client errors must not be retried")
}

func TestHTTPClient_GetNoRetryIsSingleShot(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(t, w, map[string]interface{}{"message": "temporarily unavailable"})
	}))

	var res map[string]interface{}
	err := client.GetNoRetry(context.Background(), "/nodes", &res)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "the no-retry path must issue exactly one request")
}
