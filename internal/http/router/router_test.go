package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/flagbox/internal/auth"
	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
	"github.com/dropDatabas3/flagbox/internal/flags"
	configctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/config"
	flagsctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/flags"
	healthctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/health"
	promptsctrl "github.com/dropDatabas3/flagbox/internal/http/controllers/prompts"
	svc "github.com/dropDatabas3/flagbox/internal/http/services"
)

// ---- fakes in-memory ----

// stubHasher evita pagar bcrypt en cada request del test.
type stubHasher struct{}

func (stubHasher) Hash(secret string) (string, error) { return "h:" + secret, nil }
func (stubHasher) Compare(secret, hash string) bool   { return hash == "h:"+secret }

type memStore struct {
	keys    *memKeys
	configs *memConfigs
	flags   *memFlags
	prompts *memPrompts
}

func (s *memStore) Ping(ctx context.Context) error                 { return nil }
func (s *memStore) Tenants() repository.TenantRepository           { return nil }
func (s *memStore) Projects() repository.ProjectRepository         { return nil }
func (s *memStore) Users() repository.UserRepository               { return nil }
func (s *memStore) APIKeys() repository.APIKeyRepository           { return s.keys }
func (s *memStore) Configs() repository.ConfigRepository           { return s.configs }
func (s *memStore) FeatureFlags() repository.FeatureFlagRepository { return s.flags }
func (s *memStore) Prompts() repository.PromptRepository           { return s.prompts }

type memKeys struct{ items []*domain.APIKey }

func (m *memKeys) Create(ctx context.Context, k *domain.APIKey) error {
	m.items = append(m.items, k)
	return nil
}
func (m *memKeys) GetByPublicPart(ctx context.Context, publicPart string) (*domain.APIKey, error) {
	for _, k := range m.items {
		if k.PublicPart == publicPart {
			return k, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (m *memKeys) ListByProject(ctx context.Context, tenantID, projectID string) ([]domain.APIKey, error) {
	return nil, nil
}
func (m *memKeys) Delete(ctx context.Context, id, tenantID string) error { return nil }

type memConfigs struct{ items []domain.ConfigRecord }

func (m *memConfigs) Create(ctx context.Context, c *domain.ConfigRecord) error {
	m.items = append(m.items, *c)
	return nil
}
func (m *memConfigs) GetByID(ctx context.Context, id, tenantID, projectID string) (*domain.ConfigRecord, error) {
	return nil, repository.ErrNotFound
}
func (m *memConfigs) List(ctx context.Context, tenantID, projectID string, publicOnly bool) ([]domain.ConfigRecord, error) {
	var out []domain.ConfigRecord
	for _, c := range m.items {
		if c.TenantID != tenantID || c.ProjectID != projectID {
			continue
		}
		if publicOnly && !c.IsPublic {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
func (m *memConfigs) Update(ctx context.Context, c *domain.ConfigRecord) error {
	for i := range m.items {
		if m.items[i].ID == c.ID && m.items[i].TenantID == c.TenantID && m.items[i].ProjectID == c.ProjectID {
			m.items[i] = *c
			return nil
		}
	}
	return repository.ErrNotFound
}
func (m *memConfigs) Delete(ctx context.Context, id, tenantID, projectID string) error {
	return repository.ErrNotFound
}

type memFlags struct{ items []domain.FeatureFlag }

func (m *memFlags) Create(ctx context.Context, f *domain.FeatureFlag) error {
	m.items = append(m.items, *f)
	return nil
}
func (m *memFlags) GetByID(ctx context.Context, id, tenantID, projectID string) (*domain.FeatureFlag, error) {
	return nil, repository.ErrNotFound
}
func (m *memFlags) List(ctx context.Context, tenantID, projectID string) ([]domain.FeatureFlag, error) {
	return nil, nil
}
func (m *memFlags) Update(ctx context.Context, f *domain.FeatureFlag) error {
	return repository.ErrNotFound
}
func (m *memFlags) Delete(ctx context.Context, id, tenantID, projectID string) error {
	return repository.ErrNotFound
}
func (m *memFlags) FindVariant(ctx context.Context, q repository.VariantQuery) (*domain.FeatureFlag, error) {
	var matches []domain.FeatureFlag
	for _, f := range m.items {
		if f.TenantID != q.TenantID || f.ProjectID != q.ProjectID || f.Name != q.Name {
			continue
		}
		if f.UserID != q.UserID || f.UserRole != q.UserRole || f.UserAccountID != q.UserAccountID {
			continue
		}
		if q.PublicOnly && !f.IsPublic {
			continue
		}
		matches = append(matches, f)
	}
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})
	return &matches[0], nil
}

type memPrompts struct{ items []domain.Prompt }

func (m *memPrompts) Create(ctx context.Context, p *domain.Prompt) error {
	m.items = append(m.items, *p)
	return nil
}
func (m *memPrompts) GetByID(ctx context.Context, id, tenantID, projectID string) (*domain.Prompt, error) {
	for _, p := range m.items {
		if p.ID == id && p.TenantID == tenantID && p.ProjectID == projectID {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (m *memPrompts) List(ctx context.Context, tenantID, projectID string) ([]domain.Prompt, error) {
	var out []domain.Prompt
	for _, p := range m.items {
		if p.TenantID == tenantID && p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ---- fixture ----

const (
	secretKey = "sk_AAAAAAAAAAAAAAAA_BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
	publicKey = "sk_CCCCCCCCCCCCCCCC_DDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDD"
)

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()

	store := &memStore{
		keys:    &memKeys{},
		configs: &memConfigs{},
		flags:   &memFlags{},
		prompts: &memPrompts{},
	}

	// Una key secret y una public del mismo proyecto.
	store.keys.items = []*domain.APIKey{
		{ID: "k1", TenantID: "t1", ProjectID: "p1", PublicPart: "AAAAAAAAAAAAAAAA",
			PrivateHash: "h:BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", KeyClass: domain.KeyClassSecret},
		{ID: "k2", TenantID: "t1", ProjectID: "p1", PublicPart: "CCCCCCCCCCCCCCCC",
			PrivateHash: "h:DDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDD", KeyClass: domain.KeyClassPublic},
	}

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.configs.items = []domain.ConfigRecord{
		{ID: "c1", TenantID: "t1", ProjectID: "p1", Name: "maxRetries", ValueType: domain.ValueTypeNumber, Value: "5", IsPublic: false},
		{ID: "c2", TenantID: "t1", ProjectID: "p1", Name: "theme", ValueType: domain.ValueTypeString, Value: "dark", IsPublic: true},
		{ID: "c3", TenantID: "t2", ProjectID: "p9", Name: "other", ValueType: domain.ValueTypeString, Value: "x", IsPublic: true},
	}
	store.flags.items = []domain.FeatureFlag{
		{ID: "f1", TenantID: "t1", ProjectID: "p1", Name: "newCheckout", ValueType: domain.ValueTypeBoolean, Value: "false", IsPublic: true, CreatedAt: base},
		{ID: "f2", TenantID: "t1", ProjectID: "p1", Name: "newCheckout", ValueType: domain.ValueTypeBoolean, Value: "true",
			UserAccountID: "acc123", CreatedAt: base.Add(time.Hour)},
	}
	store.prompts.items = []domain.Prompt{
		{ID: "pr1", TenantID: "t1", ProjectID: "p1", Name: "welcome", Content: "hola", CreatedAt: base, UpdatedAt: base},
		{ID: "pr2", TenantID: "t2", ProjectID: "p9", Name: "ajeno", Content: "no", CreatedAt: base, UpdatedAt: base},
	}

	authSvc, err := auth.NewService(store.keys, stubHasher{})
	require.NoError(t, err)

	resolver := flags.NewResolver(store.flags)
	handler := New(Deps{
		Auth:    authSvc,
		Health:  healthctrl.NewController(svc.NewHealthService(store)),
		Config:  configctrl.NewController(svc.NewConfigService(store.configs)),
		Flags:   flagsctrl.NewController(svc.NewFlagService(resolver, store.flags)),
		Prompts: promptsctrl.NewController(svc.NewPromptService(store.prompts)),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, store
}

func doGet(t *testing.T, srv *httptest.Server, path, key string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("Authorization", key)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

// ---- tests ----

func TestAuthRejections(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name    string
		header  string
		message string
	}{
		{"sin header", "", "Missing Authorization header"},
		{"malformada", "garbage", "Invalid API key format"},
		{"bien formada pero desconocida", "sk_ZZZZZZZZZZZZZZZZ_YYYYYYYYYYYYYYYYYYYYYYYYYYYYYYYY", "Invalid API key"},
		{"secreto incorrecto", "sk_AAAAAAAAAAAAAAAA_XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX", "Invalid API key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doGet(t, srv, "/api/v1/health", tc.header)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.Equal(t, tc.message, body["error"])
		})
	}
}

func TestHealthWithSecretKey(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doGet(t, srv, "/api/v1/health", "Bearer "+secretKey)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Ok", body["status"])
}

func TestPublicKeyCannotUseSecretEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	// La clase equivocada colapsa en el mensaje genérico: no se filtra que la
	// key existe pero no alcanza.
	for _, path := range []string{"/api/v1/health", "/api/v1/config", "/api/v1/feature-flags"} {
		resp, body := doGet(t, srv, path, publicKey)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		require.Equal(t, "Invalid API key", body["error"], path)
	}
}

func TestSecretKeyCannotUsePublicEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doGet(t, srv, "/api/v1/public/config", secretKey)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid API key", body["error"])
}

func TestConfigFlatShape(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doGet(t, srv, "/api/v1/config", secretKey)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// Objeto plano {nombre: valor parseado}; el number vuelve como número JSON.
	require.Equal(t, map[string]any{"maxRetries": float64(5), "theme": "dark"}, body)
}

func TestPublicConfigFiltersPrivate(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doGet(t, srv, "/api/v1/public/config", publicKey)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, map[string]any{"theme": "dark"}, body)
	require.NotContains(t, body, "maxRetries")
	require.NotContains(t, body, "other") // otro tenant
}

func TestFlagResolution(t *testing.T) {
	srv, _ := newTestServer(t)

	// Sin dimensiones gana la variante default.
	resp, body := doGet(t, srv, "/api/v1/feature-flags?names=newCheckout", secretKey)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, map[string]any{"newCheckout": false}, body)

	// Con accountId matchea la variante de cuenta.
	resp, body = doGet(t, srv, "/api/v1/feature-flags?names=newCheckout&userAccountId=acc123", secretKey)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, map[string]any{"newCheckout": true}, body)

	// Nombre inexistente: simplemente no aparece.
	resp, body = doGet(t, srv, "/api/v1/feature-flags?names=newCheckout,nope", secretKey)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body, 1)
}

func TestPublicFlagsNeverFallBackToPrivate(t *testing.T) {
	srv, _ := newTestServer(t)

	// acc123 matchea una variante privada: con public key esa variante no se
	// ve y la cascada sigue hasta el default público.
	resp, body := doGet(t, srv, "/api/v1/public/feature-flags?names=newCheckout&userAccountId=acc123", publicKey)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, map[string]any{"newCheckout": false}, body)
}

func TestPromptsAnyKey(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, key := range []string{secretKey, publicKey} {
		resp, _ := doGet(t, srv, "/api/v1/prompts", key)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// Un prompt de otro proyecto no existe para esta key.
	resp, body := doGet(t, srv, "/api/v1/prompts/pr2", secretKey)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Not found", body["error"])

	resp, body = doGet(t, srv, "/api/v1/prompts/pr1", secretKey)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "welcome", body["name"])
}

func TestCreateConfigAndFlagValidation(t *testing.T) {
	srv, store := newTestServer(t)

	post := func(path, payload string) (*http.Response, map[string]any) {
		req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(payload))
		require.NoError(t, err)
		req.Header.Set("Authorization", secretKey)
		req.Header.Set("Content-Type", "application/json")
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return resp, body
	}

	resp, _ := post("/api/v1/config", `{"name":"timeout","valueType":"number","value":"30"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, store.configs.items, 4)
	require.NotEmpty(t, store.configs.items[3].ID)
	require.Equal(t, "t1", store.configs.items[3].TenantID)

	resp, body := post("/api/v1/config", `{"name":"","valueType":"number"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid request", body["error"])

	resp, body = post("/api/v1/feature-flags", `{"name":"x","valueType":"banana"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid request", body["error"])

	// Tupla duplicada: la variante default de newCheckout ya existe.
	resp, _ = post("/api/v1/feature-flags", `{"name":"newCheckout","valueType":"boolean","value":"true"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMalformedBodyUsesErrorEnvelope(t *testing.T) {
	srv, _ := newTestServer(t)

	send := func(contentType, payload string) (*http.Response, map[string]any) {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/config", strings.NewReader(payload))
		require.NoError(t, err)
		req.Header.Set("Authorization", secretKey)
		req.Header.Set("Content-Type", contentType)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return resp, body
	}

	// JSON roto: 400 con el envelope {error, details}, no texto plano.
	resp, body := send("application/json", `{"name": "x",`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid request", body["error"])
	require.NotEmpty(t, body["details"])

	// Content-Type equivocado: mismo envelope.
	resp, body = send("text/plain", `{"name":"x"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid request", body["error"])
}

func TestConfigWithUncoercibleNumberStaysServable(t *testing.T) {
	srv, store := newTestServer(t)

	// Un number-typed con valor que ParseFloat acepta pero JSON no puede
	// codificar: debe pasar como string, no romper la respuesta entera.
	store.configs.items = append(store.configs.items, domain.ConfigRecord{
		ID: "c9", TenantID: "t1", ProjectID: "p1",
		Name: "poisoned", ValueType: domain.ValueTypeNumber, Value: "Infinity",
	})

	resp, body := doGet(t, srv, "/api/v1/config", secretKey)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Infinity", body["poisoned"])
	require.Equal(t, float64(5), body["maxRetries"]) // el resto sigue presente
}

func TestReadyzWithoutAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doGet(t, srv, "/readyz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
