package all_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/essentialsgg/relay/api/cmd/build/all"
	"github.com/essentialsgg/relay/app/sdk/mux"
	"github.com/essentialsgg/relay/foundation/logger"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	operatorUser = "operator"
	operatorPass = "s3cr3t"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelError, "TEST", nil)

	cfg := mux.Config{
		Build:  "test",
		Log:    log,
		Tracer: noop.NewTracerProvider().Tracer("test"),
		AuthConfig: mux.AuthConfig{
			OperatorUser: operatorUser,
			OperatorPass: operatorPass,
		},
		StoreConfig: mux.StoreConfig{
			Backend:  "file",
			FilePath: filepath.Join(t.TempDir(), "relay.json"),
		},
	}

	webAPI, err := mux.WebAPI(cfg, all.Routes())
	require.NoError(t, err)

	srv := httptest.NewServer(webAPI)
	t.Cleanup(srv.Close)

	return srv
}

type call struct {
	method   string
	path     string
	body     any
	operator bool
	header   map[string]string
}

func do(t *testing.T, srv *httptest.Server, c call) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if c.body != nil {
		data, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(c.method, srv.URL+c.path, body)
	require.NoError(t, err)

	if c.operator {
		req.SetBasicAuth(operatorUser, operatorPass)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var doc map[string]any
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &doc))
	}

	return resp.StatusCode, doc
}

func registerTenant(t *testing.T, srv *httptest.Server, tenantID string, cap string) string {
	t.Helper()

	status, doc := do(t, srv, call{
		method:   http.MethodPost,
		path:     "/v1/tenants",
		body:     map[string]string{"tenantId": tenantID, "capability": cap},
		operator: true,
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, doc["apiKey"])

	return doc["apiKey"].(string)
}

func Test_RelayScenario(t *testing.T) {
	srv := newTestServer(t)

	key := registerTenant(t, srv, "guild-1", "ManageGuild")
	require.Len(t, key, 48)

	// Submit a broadcast.
	status, doc := do(t, srv, call{
		method:   http.MethodPost,
		path:     "/v1/commands/broadcast",
		body:     map[string]string{"type": "message", "title": "Maintenance", "message": "5 min"},
		operator: true,
		header: map[string]string{
			"x-api-key":             key,
			"X-Caller-Capabilities": "SendMessages, ManageGuild",
		},
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, doc["success"])
	require.NotEmpty(t, doc["id"])
	id := doc["id"]

	// The legacy broadcast poll is repeatable.
	for i := 0; i < 2; i++ {
		status, doc = do(t, srv, call{method: http.MethodGet, path: "/v1/latest?key=" + key})
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, id, doc["id"])
		require.Equal(t, "Maintenance", doc["title"])
	}

	// Submit a kick.
	status, doc = do(t, srv, call{
		method:   http.MethodPost,
		path:     "/v1/commands/kick",
		body:     map[string]string{"targetUser": "alice", "reason": "afk"},
		operator: true,
		header: map[string]string{
			"x-api-key":             key,
			"X-Caller-Capabilities": "ManageGuild",
		},
	})
	require.Equal(t, http.StatusOK, status)

	// The first kick poll consumes the entry, the second finds it gone.
	status, doc = do(t, srv, call{method: http.MethodGet, path: "/v1/commands/kick/latest?key=" + key})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "alice", doc["targetUser"])

	status, _ = do(t, srv, call{method: http.MethodGet, path: "/v1/commands/kick/latest?key=" + key})
	require.Equal(t, http.StatusNoContent, status)
}

func Test_OverwriteWins(t *testing.T) {
	srv := newTestServer(t)
	key := registerTenant(t, srv, "guild-1", "ManageGuild")

	submit := func(msg string) {
		status, _ := do(t, srv, call{
			method:   http.MethodPost,
			path:     "/v1/commands/broadcast",
			body:     map[string]string{"type": "message", "title": "T", "message": msg},
			operator: true,
			header: map[string]string{
				"x-api-key":             key,
				"X-Caller-Capabilities": "ManageGuild",
			},
		})
		require.Equal(t, http.StatusOK, status)
	}

	submit("first")
	submit("second")

	status, doc := do(t, srv, call{method: http.MethodGet, path: "/v1/latest?key=" + key})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "second", doc["message"])
}

func Test_AuthIsolation(t *testing.T) {
	srv := newTestServer(t)
	key := registerTenant(t, srv, "guild-1", "ManageGuild")

	// A missing operator credential is 401, a wrong one 403. The tenant key
	// grants nothing on operator routes.
	status, _ := do(t, srv, call{method: http.MethodGet, path: "/v1/keys"})
	require.Equal(t, http.StatusUnauthorized, status)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/keys", nil)
	require.NoError(t, err)
	req.SetBasicAuth(operatorUser, "wrong")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	status, _ = do(t, srv, call{method: http.MethodGet, path: "/v1/keys?key=" + key})
	require.Equal(t, http.StatusUnauthorized, status)

	// The operator credential grants nothing on poll routes: a submission
	// without a tenant key is 400, with an unknown key 403.
	status, _ = do(t, srv, call{
		method:   http.MethodPost,
		path:     "/v1/commands/kick",
		body:     map[string]string{"targetUser": "alice"},
		operator: true,
		header:   map[string]string{"X-Caller-Capabilities": "ManageGuild"},
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, srv, call{
		method:   http.MethodPost,
		path:     "/v1/commands/kick",
		body:     map[string]string{"targetUser": "alice"},
		operator: true,
		header: map[string]string{
			"x-api-key":             "000000000000000000000000000000000000000000000000",
			"X-Caller-Capabilities": "ManageGuild",
		},
	})
	require.Equal(t, http.StatusForbidden, status)

	// A poll with an unknown key is 403, with no key 400.
	status, _ = do(t, srv, call{method: http.MethodGet, path: "/v1/latest?key=bogus"})
	require.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, srv, call{method: http.MethodGet, path: "/v1/latest"})
	require.Equal(t, http.StatusBadRequest, status)
}

func Test_CapabilityGate(t *testing.T) {
	srv := newTestServer(t)
	key := registerTenant(t, srv, "guild-1", "ManageGuild")

	submit := func(caps string) int {
		status, _ := do(t, srv, call{
			method:   http.MethodPost,
			path:     "/v1/commands/kick",
			body:     map[string]string{"targetUser": "alice"},
			operator: true,
			header: map[string]string{
				"x-api-key":             key,
				"X-Caller-Capabilities": caps,
			},
		})
		return status
	}

	require.Equal(t, http.StatusForbidden, submit("SendMessages"))
	require.Equal(t, http.StatusForbidden, submit(""))
	require.Equal(t, http.StatusOK, submit("ManageGuild"))
}

func Test_SubmitValidation(t *testing.T) {
	srv := newTestServer(t)
	key := registerTenant(t, srv, "guild-1", "ManageGuild")

	submit := func(path string, body any) int {
		status, _ := do(t, srv, call{
			method:   http.MethodPost,
			path:     path,
			body:     body,
			operator: true,
			header: map[string]string{
				"x-api-key":             key,
				"X-Caller-Capabilities": "ManageGuild",
			},
		})
		return status
	}

	// Unknown kind.
	require.Equal(t, http.StatusBadRequest, submit("/v1/commands/restart", map[string]string{}))

	// Missing required fields.
	require.Equal(t, http.StatusBadRequest, submit("/v1/commands/kick", map[string]string{"reason": "afk"}))
	require.Equal(t, http.StatusBadRequest, submit("/v1/commands/shutdown", map[string]string{"reason": "x"}))

	// Broadcast type outside the hint/message vocabulary.
	require.Equal(t, http.StatusBadRequest, submit("/v1/commands/broadcast",
		map[string]string{"type": "shout", "title": "T", "message": "M"}))
}

func Test_ValidateAndKeys(t *testing.T) {
	srv := newTestServer(t)
	key := registerTenant(t, srv, "guild-1", "BanMembers")

	status, doc := do(t, srv, call{method: http.MethodGet, path: "/v1/validate?key=" + key})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, doc["valid"])
	require.Equal(t, "BanMembers", doc["requiredCapability"])

	status, _ = do(t, srv, call{method: http.MethodGet, path: "/v1/validate?key=bogus"})
	require.Equal(t, http.StatusForbidden, status)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/keys", nil)
	require.NoError(t, err)
	req.SetBasicAuth(operatorUser, operatorPass)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tenants []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tenants))
	require.Len(t, tenants, 1)
	require.Equal(t, "guild-1", tenants[0]["tenantId"])
	require.Equal(t, key, tenants[0]["apiKey"])
}

func Test_Liveness(t *testing.T) {
	srv := newTestServer(t)

	status, doc := do(t, srv, call{method: http.MethodGet, path: "/v1/liveness"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "up", doc["status"])

	status, doc = do(t, srv, call{method: http.MethodGet, path: "/v1/readiness"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "OK", doc["status"])
}
