package flags

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
)

// fakeFlagRepo implementa repository.FeatureFlagRepository en memoria con la
// misma semántica de FindVariant que el adapter real: match exacto de tupla,
// desempate por created_at luego id.
type fakeFlagRepo struct {
	rows []domain.FeatureFlag
}

func (f *fakeFlagRepo) Create(ctx context.Context, ff *domain.FeatureFlag) error { return nil }
func (f *fakeFlagRepo) GetByID(ctx context.Context, id, tenantID, projectID string) (*domain.FeatureFlag, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeFlagRepo) List(ctx context.Context, tenantID, projectID string) ([]domain.FeatureFlag, error) {
	return nil, nil
}
func (f *fakeFlagRepo) Update(ctx context.Context, ff *domain.FeatureFlag) error { return nil }
func (f *fakeFlagRepo) Delete(ctx context.Context, id, tenantID, projectID string) error {
	return nil
}

func (f *fakeFlagRepo) FindVariant(ctx context.Context, q repository.VariantQuery) (*domain.FeatureFlag, error) {
	var matches []domain.FeatureFlag
	for _, row := range f.rows {
		if row.TenantID != q.TenantID || row.ProjectID != q.ProjectID || row.Name != q.Name {
			continue
		}
		if row.UserID != q.UserID || row.UserRole != q.UserRole || row.UserAccountID != q.UserAccountID {
			continue
		}
		if q.PublicOnly && !row.IsPublic {
			continue
		}
		matches = append(matches, row)
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

func flag(id, name, value, uid, role, acc string, public bool, at time.Time) domain.FeatureFlag {
	return domain.FeatureFlag{
		ID: id, TenantID: "ten-1", ProjectID: "proj-1",
		Name: name, ValueType: domain.ValueTypeString, Value: value,
		IsPublic: public, UserID: uid, UserRole: role, UserAccountID: acc,
		CreatedAt: at,
	}
}

func newResolver(rows ...domain.FeatureFlag) *Resolver {
	return NewResolver(&fakeFlagRepo{rows: rows})
}

func baseRequest() Request {
	return Request{TenantID: "ten-1", ProjectID: "proj-1", Names: []string{"premium_feature"}}
}

// Escenario concreto de la cascada: default, variante por cuenta y variante
// por usuario+rol+cuenta conviven bajo el mismo nombre.
func premiumRows() []domain.FeatureFlag {
	t0 := time.Now()
	return []domain.FeatureFlag{
		flag("f-a", "premium_feature", "default", "", "", "", true, t0),
		flag("f-b", "premium_feature", "for_account", "", "", "acc123", true, t0),
		flag("f-c", "premium_feature", "for_user", "user456", "admin", "acc123", true, t0),
	}
}

func resolveOneValue(t *testing.T, r *Resolver, req Request) (string, bool) {
	t.Helper()
	got, err := r.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if len(got) == 0 {
		return "", false
	}
	if len(got) > 1 {
		t.Fatalf("más de una entrada para un nombre: %+v", got)
	}
	return got[0].Value, true
}

func TestResolve_Cascade(t *testing.T) {
	r := newResolver(premiumRows()...)

	req := baseRequest()
	req.UserID, req.UserRole, req.UserAccountID = "user456", "admin", "acc123"
	if v, _ := resolveOneValue(t, r, req); v != "for_user" {
		t.Fatalf("tres dimensiones: %q", v)
	}

	req = baseRequest()
	req.UserAccountID = "acc123"
	if v, _ := resolveOneValue(t, r, req); v != "for_account" {
		t.Fatalf("solo cuenta: %q", v)
	}

	req = baseRequest()
	if v, _ := resolveOneValue(t, r, req); v != "default" {
		t.Fatalf("sin dimensiones: %q", v)
	}
}

func TestResolve_NoMatchIsSilent(t *testing.T) {
	// Sin default: cuenta desconocida no resuelve nada
	t0 := time.Now()
	r := newResolver(
		flag("f-b", "premium_feature", "for_account", "", "", "acc123", true, t0),
	)
	req := baseRequest()
	req.UserAccountID = "acc999"
	if _, ok := resolveOneValue(t, r, req); ok {
		t.Fatalf("cuenta sin variante ni default debería omitirse")
	}
}

func TestResolve_UserIDAloneFallsToDefault(t *testing.T) {
	// Asimetría deliberada de la cascada: userID sin rol ni cuenta nunca
	// matchea su variante específica, cae al default.
	t0 := time.Now()
	r := newResolver(
		flag("f-a", "premium_feature", "default", "", "", "", true, t0),
		flag("f-u", "premium_feature", "for_user_only", "user456", "", "", true, t0),
	)
	req := baseRequest()
	req.UserID = "user456"
	if v, _ := resolveOneValue(t, r, req); v != "default" {
		t.Fatalf("userID solo: %q, esperaba el default", v)
	}
}

func TestResolve_RoleAndAccountTier(t *testing.T) {
	t0 := time.Now()
	r := newResolver(
		flag("f-a", "premium_feature", "default", "", "", "", true, t0),
		flag("f-ra", "premium_feature", "for_role_account", "", "admin", "acc123", true, t0),
	)
	// rol+cuenta sin usuario matchea el nivel 2
	req := baseRequest()
	req.UserRole, req.UserAccountID = "admin", "acc123"
	if v, _ := resolveOneValue(t, r, req); v != "for_role_account" {
		t.Fatalf("rol+cuenta: %q", v)
	}
	// las tres dimensiones: el nivel 1 no existe, cae al nivel 2
	req.UserID = "user456"
	if v, _ := resolveOneValue(t, r, req); v != "for_role_account" {
		t.Fatalf("fallback nivel 1 -> 2: %q", v)
	}
}

func TestResolve_PublicOnlyNeverFallsBackToPrivate(t *testing.T) {
	t0 := time.Now()
	r := newResolver(
		flag("f-a", "premium_feature", "default", "", "", "", true, t0),
		// la variante específica existe pero NO es pública
		flag("f-b", "premium_feature", "for_account", "", "", "acc123", false, t0),
	)
	req := baseRequest()
	req.UserAccountID = "acc123"
	req.PublicOnly = true
	// El nivel específico se descarta por no-público y la cascada sigue al default
	if v, _ := resolveOneValue(t, r, req); v != "default" {
		t.Fatalf("public-only: %q", v)
	}

	// Si ni el default es público, el nombre se omite
	r = newResolver(flag("f-a", "premium_feature", "default", "", "", "", false, t0))
	req = baseRequest()
	req.PublicOnly = true
	if _, ok := resolveOneValue(t, r, req); ok {
		t.Fatalf("una fila no pública jamás se devuelve")
	}
}

func TestResolve_Batch(t *testing.T) {
	t0 := time.Now()
	r := newResolver(
		flag("f-1", "alpha", "a", "", "", "", true, t0),
		flag("f-2", "beta", "b", "", "", "", true, t0),
	)
	got, err := r.Resolve(context.Background(), Request{
		TenantID: "ten-1", ProjectID: "proj-1",
		// vacíos se filtran, repetidos resuelven una vez, gamma no existe
		Names: []string{"alpha", "", "beta", "alpha", "gamma"},
	})
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("esperaba 2 entradas, got %+v", got)
	}
	byName := map[string]string{}
	for _, res := range got {
		byName[res.Name] = res.Value
	}
	if byName["alpha"] != "a" || byName["beta"] != "b" {
		t.Fatalf("valores: %+v", byName)
	}
}

func TestResolve_TieBreakByCreation(t *testing.T) {
	t0 := time.Now()
	// Dos filas con la misma tupla (dato histórico previo al constraint):
	// gana la de creación más antigua, determinista.
	r := newResolver(
		flag("f-new", "premium_feature", "newer", "", "", "", true, t0.Add(time.Hour)),
		flag("f-old", "premium_feature", "older", "", "", "", true, t0),
	)
	if v, _ := resolveOneValue(t, r, baseRequest()); v != "older" {
		t.Fatalf("tie-break: %q", v)
	}
}

func TestResolve_TenantIsolation(t *testing.T) {
	t0 := time.Now()
	row := flag("f-a", "premium_feature", "default", "", "", "", true, t0)
	row.TenantID = "ten-OTHER"
	r := newResolver(row)
	if _, ok := resolveOneValue(t, r, baseRequest()); ok {
		t.Fatalf("una fila de otro tenant nunca se resuelve")
	}
}
