// Package dto contiene los cuerpos de request/response de la API.
package dto

// StatusResponse es la respuesta del health check autenticado.
type StatusResponse struct {
	Status string `json:"status"`
}

// ConfigUpsertRequest es el cuerpo de alta/edición de un config.
type ConfigUpsertRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ValueType   string `json:"valueType"`
	Value       string `json:"value"`
	IsPublic    bool   `json:"isPublic"`
}

// FlagUpsertRequest es el cuerpo de alta/edición de una variante de flag.
// Las dimensiones ausentes van como string vacío.
type FlagUpsertRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	ValueType     string `json:"valueType"`
	Value         string `json:"value"`
	IsPublic      bool   `json:"isPublic"`
	UserID        string `json:"userId"`
	UserRole      string `json:"userRole"`
	UserAccountID string `json:"userAccountId"`
}

// PromptResponse expone un prompt sin campos internos de scoping.
type PromptResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
