package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"licensing-map/internal/catalog"
	"licensing-map/internal/catalogstore"
	"licensing-map/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingArchiver struct {
	mu    sync.Mutex
	names []string
}

func (a *recordingArchiver) Archive(ctx context.Context, name string, body []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.names = append(a.names, name)
	return nil
}

type testEnv struct {
	router   *gin.Engine
	server   *Server
	store    *catalogstore.Store
	dir      *users.Directory
	archiver *recordingArchiver
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := catalogstore.New(nil)
	t.Cleanup(func() { _ = store.Close() })

	dir, err := users.NewDirectory("ADMIN", "SUPER")
	require.NoError(t, err)

	archiver := &recordingArchiver{}
	s := NewServer(Deps{
		Store:    store,
		Users:    dir,
		Tokens:   users.NewTokens("test-secret", time.Hour),
		Archiver: archiver,
	})
	s.now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }

	return &testEnv{router: s.Router(), server: s, store: store, dir: dir, archiver: archiver}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, username, passcode string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "passcode": passcode})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := setupTestRouter(t)
	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestSummaryDefaultSelection(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/summary", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, catalog.DefaultComparisonBundleIDs(), resp.BundleIDs)
	assert.Equal(t, len(env.store.Capabilities()), resp.Coverage.Total)
	assert.Greater(t, resp.TotalUSD, 0.0)
	assert.True(t, strings.HasPrefix(resp.FormattedUSD, "$"))
	assert.True(t, strings.HasPrefix(resp.FormattedINR, "₹"))
}

func TestSummaryEmptySelection(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/summary?bundles=&frequency=annual", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.BundleIDs)
	assert.Equal(t, 0, resp.UniqueCapabilityCount)
	assert.Equal(t, "$0.00", resp.FormattedUSD)
	assert.Equal(t, "₹0", resp.FormattedINR)
	assert.EqualValues(t, "annual", resp.Frequency)
}

func TestListCapabilitiesFilters(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/capabilities?category=Security&search=defender", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Capabilities []catalog.Capability `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Capabilities)
	for _, c := range resp.Capabilities {
		assert.Equal(t, catalog.CategorySecurity, c.Category)
		assert.Contains(t, strings.ToLower(c.Name+" "+c.Description), "defender")
	}

	w = env.do(t, http.MethodGet, "/api/capabilities?category=Nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntitlement(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/entitlement?bundle="+catalog.BundleIDE3+"&capability=feat-office-apps", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["included"])
	result := resp["result"].(map[string]interface{})
	assert.Equal(t, "included_at_tier", result["kind"])
	assert.Equal(t, "Desktop Apps", result["tierName"])

	w = env.do(t, http.MethodGet, "/api/entitlement?bundle=missing&capability=feat-office-apps", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/entitlement?bundle="+catalog.BundleIDE3, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMatrix(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/matrix?bundles="+catalog.BundleIDE5+","+catalog.BundleIDE3, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Bundles []catalog.Bundle `json:"bundles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Bundles, 2)
	// Catalog order, not request order.
	assert.Equal(t, catalog.BundleIDE3, resp.Bundles[0].ID)
	assert.Equal(t, catalog.BundleIDE5, resp.Bundles[1].ID)
}

func TestExportCSV(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/export.csv", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="m365_comparison_2024-03-09.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), `"Category","Feature","Description"`))
	assert.Equal(t, []string{"m365_comparison_2024-03-09.csv"}, env.archiver.names)
}

func TestChatWithoutAgent(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/chat", "", gin.H{"question": "Which plan has Intune?"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.NotEmpty(t, resp["sessionId"])
	messages := resp["messages"].([]interface{})
	// greeting, question, reply
	assert.Len(t, messages, 3)

	w = env.do(t, http.MethodPost, "/api/chat", "", gin.H{"sessionId": resp["sessionId"], "question": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginFlow(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ana", "passcode": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ana", "passcode": "ADMIN"})
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ana", "passcode": "ADMIN"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	token := env.login(t, "SuperAdmin", "SUPER")
	w = env.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SuperAdmin", decode(t, w)["username"])
}

func TestAdminRoutesNeedAuth(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/admin/reset", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/reset", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserManagementIsSuperAdminOnly(t *testing.T) {
	env := setupTestRouter(t)
	super := env.login(t, "SuperAdmin", "SUPER")

	w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ana", "passcode": "ADMIN"})
	require.Equal(t, http.StatusAccepted, w.Code)
	pending := decode(t, w)["account"].(map[string]interface{})
	id := pending["id"].(string)

	w = env.do(t, http.MethodPost, "/api/admin/users/"+id+"/approve", super, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	admin := env.login(t, "ana", "ADMIN")
	w = env.do(t, http.MethodGet, "/api/admin/users", admin, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access Restricted", decode(t, w)["error"])

	w = env.do(t, http.MethodDelete, "/api/admin/users/"+users.SeedSuperAdminID, super, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodDelete, "/api/admin/users/"+id, super, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// The deleted account's token no longer works.
	w = env.do(t, http.MethodGet, "/api/me", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetFrequency(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "SuperAdmin", "SUPER")

	w := env.do(t, http.MethodPut, "/api/me/frequency", token, gin.H{"frequency": "annual"})
	require.Equal(t, http.StatusOK, w.Code)

	a, err := env.dir.Get(users.SeedSuperAdminID)
	require.NoError(t, err)
	assert.EqualValues(t, "annual", a.BillingFrequency)

	w = env.do(t, http.MethodPut, "/api/me/frequency", token, gin.H{"frequency": "weekly"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCapabilityCRUD(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "SuperAdmin", "SUPER")

	w := env.do(t, http.MethodPost, "/api/admin/capabilities", token, gin.H{
		"name":        "Copilot",
		"description": "Assistant",
		"category":    "Productivity",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)
	assert.True(t, strings.HasPrefix(id, "cap-"))

	w = env.do(t, http.MethodPut, "/api/admin/capabilities/"+id, token, gin.H{
		"name":     "Copilot Chat",
		"category": "Productivity",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	c, err := env.store.Capability(id)
	require.NoError(t, err)
	assert.Equal(t, "Copilot Chat", c.Name)

	w = env.do(t, http.MethodDelete, "/api/admin/capabilities/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, "/api/admin/capabilities/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminDeleteBundleAndReset(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "SuperAdmin", "SUPER")

	w := env.do(t, http.MethodDelete, "/api/admin/bundles/"+catalog.BundleIDE3, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	_, err := env.store.Bundle(catalog.BundleIDE3)
	assert.ErrorIs(t, err, catalogstore.ErrNotFound)

	w = env.do(t, http.MethodPost, "/api/admin/reset", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err = env.store.Bundle(catalog.BundleIDE3)
	assert.NoError(t, err)
}

func TestEditorSession(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "SuperAdmin", "SUPER")

	w := env.do(t, http.MethodPost, "/api/admin/editor/open", token, gin.H{"kind": "capability", "id": "feat-office-apps"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "editing", decode(t, w)["state"])

	// A second open while editing conflicts.
	w = env.do(t, http.MethodPost, "/api/admin/editor/open", token, gin.H{"kind": "bundle"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/editor/ops", token, gin.H{"op": "rename_tier", "tier": 0, "value": "Browser"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["dirty"])

	w = env.do(t, http.MethodPost, "/api/admin/editor/ops", token, gin.H{"op": "rename_tier", "tier": 9, "value": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/editor/ops", token, gin.H{"op": "toggle_capability", "capabilityId": "feat-teams"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/editor/tab", token, gin.H{"tab": "bundles"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, true, decode(t, w)["confirmRequired"])

	w = env.do(t, http.MethodPost, "/api/admin/editor/save", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "feat-office-apps", decode(t, w)["id"])

	c, err := env.store.Capability("feat-office-apps")
	require.NoError(t, err)
	assert.Equal(t, "Browser", c.TierStructure.Tiers[0].Name)

	w = env.do(t, http.MethodGet, "/api/admin/editor", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", decode(t, w)["state"])
}

func TestEditorDiscardNeedsConfirm(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "SuperAdmin", "SUPER")

	w := env.do(t, http.MethodPost, "/api/admin/editor/open", token, gin.H{"kind": "bundle", "id": catalog.BundleIDE5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/admin/editor/ops", token, gin.H{"op": "toggle_capability", "capabilityId": "feat-teams"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/admin/editor/discard", token, gin.H{})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/editor/discard", token, gin.H{"confirm": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", decode(t, w)["state"])

	b, err := env.store.Bundle(catalog.BundleIDE5)
	require.NoError(t, err)
	assert.False(t, b.Includes("feat-teams"))
}
