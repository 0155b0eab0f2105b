package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fgperfume/internal/assistant"
	"fgperfume/internal/health"
	"fgperfume/internal/llm"
	"fgperfume/internal/models"
	"fgperfume/internal/services"
	"fgperfume/internal/store"
	"fgperfume/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	answer string
	calls  int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	p.calls++
	return p.answer, nil
}

type testEnv struct {
	app      *fiber.App
	store    *store.MemoryStore
	provider *stubProvider
	sessions *auth.SessionAuth
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemoryStore(store.DefaultSeed())
	provider := &stubProvider{answer: "**Noir Essence** is our evening scent."}
	concierge := assistant.NewConcierge(st, assistant.NewClassifier(nil, ""), assistant.NewConciergeStrategy(provider))

	sessions, err := auth.NewSessionAuth("test-secret", time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	RegisterRoutes(app, Dependencies{
		Concierge:    concierge,
		Catalog:      services.NewCatalogService(st),
		AdminAuth:    services.NewAdminAuthService(sessions, "", "Wangi2025"),
		StoreBackend: "memory",
	})

	return &testEnv{app: app, store: st, provider: provider, sessions: sessions}
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := e.sessions.IssueToken("admin", auth.RoleAdmin)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func TestChat_Answers(t *testing.T) {
	env := setupTestApp(t)

	resp, data := env.do(t, "POST", "/api/chat", fiber.Map{"message": "Which perfume suits evenings?", "language": "en"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))

	var out models.ConciergeResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "**Noir Essence** is our evening scent.", out.Answer)
	assert.Contains(t, out.AnswerHTML, "<strong>Noir Essence</strong>")
	assert.Equal(t, "answered", out.Outcome)

	logs, err := env.store.ListQueryLogs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Which perfume suits evenings?", logs[0].Query)
}

func TestChat_RefusesOffTopic(t *testing.T) {
	env := setupTestApp(t)

	_, data := env.do(t, "POST", "/api/chat", fiber.Map{"message": "Write me a poem about cars"}, "")
	out := decode(t, data)
	assert.Equal(t, assistant.RefusalMessage, out["answer"])
	assert.Equal(t, "refused", out["outcome"])
	assert.Equal(t, 0, env.provider.calls)
}

func TestChat_AdminTokenShortCircuits(t *testing.T) {
	env := setupTestApp(t)

	_, data := env.do(t, "POST", "/api/chat", fiber.Map{"message": "Tell me about the perfume"}, env.adminToken(t))
	out := decode(t, data)
	assert.Equal(t, assistant.AdminMessage, out["answer"])
	assert.Equal(t, "admin", out["outcome"])
	assert.Equal(t, 0, env.provider.calls)
}

func TestChat_RejectsBadInput(t *testing.T) {
	env := setupTestApp(t)

	resp, _ := env.do(t, "POST", "/api/chat", fiber.Map{"message": "   "}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, "POST", "/api/chat", fiber.Map{"message": strings.Repeat("a", MaxMessageLength+1)}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPublicCatalog(t *testing.T) {
	env := setupTestApp(t)

	resp, data := env.do(t, "GET", "/api/perfumes", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode(t, data)
	assert.Equal(t, float64(2), out["total"], "hidden perfumes are not listed")

	_, data = env.do(t, "GET", "/api/brand", nil, "")
	assert.Contains(t, decode(t, data)["story"], "ephemeral moments")

	_, data = env.do(t, "GET", "/api/contact", nil, "")
	assert.Equal(t, "care@fgperfume.com", decode(t, data)["email"])
}

func TestAdminLogin(t *testing.T) {
	env := setupTestApp(t)

	resp, data := env.do(t, "POST", "/api/admin/login", fiber.Map{"password": "Wangi2025"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode(t, data)
	assert.Equal(t, true, out["success"])
	token, _ := out["token"].(string)
	require.NotEmpty(t, token)

	_, data = env.do(t, "GET", "/api/admin/me", nil, token)
	assert.Equal(t, true, decode(t, data)["authenticated"])

	_, data = env.do(t, "GET", "/api/admin/me", nil, "")
	assert.Equal(t, false, decode(t, data)["authenticated"])

	resp, _ = env.do(t, "POST", "/api/admin/login", fiber.Map{"password": "wrong"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, "POST", "/api/admin/login", fiber.Map{}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminLogin_Lockout(t *testing.T) {
	env := setupTestApp(t)

	for i := 0; i < services.MaxLoginFailures; i++ {
		resp, _ := env.do(t, "POST", "/api/admin/login", fiber.Map{"password": "wrong"}, "")
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}
	resp, _ := env.do(t, "POST", "/api/admin/login", fiber.Map{"password": "Wangi2025"}, "")
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	env := setupTestApp(t)

	for _, path := range []string{"/api/admin/perfumes", "/api/admin/queries", "/api/admin/queries/export"} {
		resp, _ := env.do(t, "GET", path, nil, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}

	resp, _ := env.do(t, "PUT", "/api/admin/brand", fiber.Map{"story": "x", "companyInfo": "y"}, "bogus")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminPerfumeCRUD(t *testing.T) {
	env := setupTestApp(t)
	token := env.adminToken(t)

	resp, data := env.do(t, "POST", "/api/admin/perfumes", fiber.Map{
		"name":        "Velvet Oud",
		"inspiration": "Old Kuala Lumpur at dusk.",
		"topNotes":    "Saffron, Cardamom",
		"middleNotes": []string{"Rose"},
		"baseNotes":   "Oud,,Amber",
		"price":       310,
		"character":   "Rich and warm.",
		"usage":       "Evenings.",
		"longevity":   "Long-lasting",
	}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))

	var created struct {
		Perfume models.Perfume `json:"perfume"`
	}
	require.NoError(t, json.Unmarshal(data, &created))
	p := created.Perfume
	assert.Equal(t, []string{"Saffron", "Cardamom"}, p.TopNotes)
	assert.Equal(t, []string{"Oud", "Amber"}, p.BaseNotes)
	assert.Equal(t, models.AvailabilityInStock, p.Availability)
	assert.True(t, p.IsVisible)

	resp, data = env.do(t, "PATCH", "/api/admin/perfumes/"+p.ID, fiber.Map{"price": 280, "isVisible": false}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))

	resp, data = env.do(t, "GET", "/api/admin/perfumes/"+p.ID, nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got models.Perfume
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 280.0, got.Price)
	assert.False(t, got.IsVisible)
	assert.Equal(t, "Velvet Oud", got.Name)

	_, data = env.do(t, "GET", "/api/admin/perfumes", nil, token)
	assert.Equal(t, float64(4), decode(t, data)["total"])

	resp, _ = env.do(t, "DELETE", "/api/admin/perfumes/"+p.ID, nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, "GET", "/api/admin/perfumes/"+p.ID, nil, token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, "PUT", "/api/admin/perfumes/"+p.ID, fiber.Map{
		"name": "x", "inspiration": "x", "character": "x", "usage": "x", "longevity": "x", "price": 1,
	}, token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminPerfume_ValidationErrors(t *testing.T) {
	env := setupTestApp(t)
	token := env.adminToken(t)

	resp, data := env.do(t, "POST", "/api/admin/perfumes", fiber.Map{"name": "", "price": -10}, token)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	out := decode(t, data)
	assert.Equal(t, false, out["success"])
	fields, ok := out["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Price must be positive", fields["price"])

	resp, _ = env.do(t, "PATCH", "/api/admin/perfumes/1", fiber.Map{"availability": "Sometimes"}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminBrandAndContact(t *testing.T) {
	env := setupTestApp(t)
	token := env.adminToken(t)

	resp, data := env.do(t, "PUT", "/api/admin/brand", fiber.Map{"story": "New story"}, token)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Company info is required", decode(t, data)["error"].(map[string]interface{})["companyInfo"])

	resp, _ = env.do(t, "PUT", "/api/admin/brand", fiber.Map{"story": "New story", "companyInfo": "New company"}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, data = env.do(t, "GET", "/api/brand", nil, "")
	assert.Equal(t, "New story", decode(t, data)["story"])

	resp, _ = env.do(t, "PUT", "/api/admin/contact", fiber.Map{
		"email": "hello@fgperfume.com", "phone": "+60 3-1234 5678", "address": "Shah Alam",
	}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, data = env.do(t, "GET", "/api/contact", nil, "")
	out := decode(t, data)
	assert.Equal(t, "hello@fgperfume.com", out["email"])
	assert.Empty(t, out["socialMedia"], "social links are overwritten too")
}

func TestAdminQueries(t *testing.T) {
	env := setupTestApp(t)
	token := env.adminToken(t)

	env.do(t, "POST", "/api/chat", fiber.Map{"message": "Is Solis Dream a good perfume for summer?"}, "")

	_, data := env.do(t, "GET", "/api/admin/queries?q=solis", nil, token)
	out := decode(t, data)
	assert.Equal(t, float64(1), out["total"])

	resp, data := env.do(t, "GET", "/api/admin/queries/export", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx is a zip archive")
}

func TestHealth(t *testing.T) {
	env := setupTestApp(t)

	resp, data := env.do(t, "GET", "/health", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode(t, data)
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "memory", out["store"])
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth_StoreDown(t *testing.T) {
	st := store.NewMemoryStore(store.DefaultSeed())
	hs := health.NewService(1)
	hs.RegisterProvider(health.RolePrimary, "stub", "", pingFunc(func(context.Context) error { return nil }))
	hs.RegisterProvider(health.RoleStore, "redis", "", pingFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))
	require.NoError(t, hs.CheckProvider(context.Background(), health.RolePrimary))
	require.Error(t, hs.CheckProvider(context.Background(), health.RoleStore))

	sessions, err := auth.NewSessionAuth("test-secret", time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	RegisterRoutes(app, Dependencies{
		Concierge:    assistant.NewConcierge(st, assistant.NewClassifier(nil, "")),
		Catalog:      services.NewCatalogService(st),
		AdminAuth:    services.NewAdminAuthService(sessions, "", "Wangi2025"),
		Health:       hs,
		StoreBackend: "redis",
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := decode(t, data)
	assert.Equal(t, "degraded", out["status"])
	assert.Equal(t, "unhealthy", out["store_status"])
}

func TestWebSocketRoute_RequiresUpgrade(t *testing.T) {
	env := setupTestApp(t)

	resp, _ := env.do(t, "GET", "/ws/chat", nil, "")
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
