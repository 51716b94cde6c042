package domain

import "time"

// KeyClass clasifica una API key: secret (acceso total) o public (solo datos isPublic).
// Es un atributo almacenado, NO va codificado en el prefijo de la credencial.
type KeyClass string

const (
	KeyClassSecret KeyClass = "secret"
	KeyClassPublic KeyClass = "public"
)

// Valid reporta si el valor es una clase conocida.
func (k KeyClass) Valid() bool {
	return k == KeyClassSecret || k == KeyClassPublic
}

// ValueType declara cómo interpretar el campo value (siempre almacenado como string).
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumber  ValueType = "number"
	ValueTypeBoolean ValueType = "boolean"
)

// Valid reporta si el valor es un tipo conocido.
func (v ValueType) Valid() bool {
	return v == ValueTypeString || v == ValueTypeNumber || v == ValueTypeBoolean
}

// Tenant es la frontera de aislamiento de más alto nivel.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Project pertenece a exactamente un tenant y agrupa configs, flags, prompts y keys.
type Project struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User es el principal del dashboard. Solo se persiste el registro; el login
// por sesión vive fuera de este servicio.
type User struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// APIKey es la credencial programática. PrivateHash nunca se serializa ni se
// devuelve por ninguna operación de lectura; el secreto en claro se entrega
// una sola vez, al crearla.
type APIKey struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	ProjectID   string    `json:"project_id"`
	PublicPart  string    `json:"public_part"` // 16 chars, único a nivel global
	PrivateHash string    `json:"-"`
	KeyClass    KeyClass  `json:"key_class"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConfigRecord es un valor de configuración tipado de un proyecto.
type ConfigRecord struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ValueType   ValueType `json:"value_type"`
	Value       string    `json:"value"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FeatureFlag es una variante de flag. Varias filas pueden compartir Name
// dentro de un proyecto: representan variantes de targeting, no duplicados.
// Las dimensiones ausentes se almacenan como string vacío.
type FeatureFlag struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	ProjectID     string    `json:"project_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ValueType     ValueType `json:"value_type"`
	Value         string    `json:"value"`
	IsPublic      bool      `json:"is_public"`
	UserID        string    `json:"user_id"`
	UserRole      string    `json:"user_role"`
	UserAccountID string    `json:"user_account_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Prompt es un texto con nombre scoped a un proyecto.
type Prompt struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
