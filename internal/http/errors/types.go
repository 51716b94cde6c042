// Package errors define el error estándar de la aplicación y su envelope HTTP.
package errors

import (
	"fmt"
	"net/http"
)

// AppError es el error estándar de la capa HTTP. El envelope hacia el
// cliente es {error, details?}; HTTPStatus y Err no se serializan.
type AppError struct {
	Message    string `json:"error"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa original, solo para logs
}

// Error implementa la interfaz error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap permite acceder al error original.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails agrega detalles (útil para validaciones).
// Devuelve una COPIA para no mutar las variables globales base.
func (e *AppError) WithDetails(details string) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithCause agrega la causa original. Devuelve una COPIA.
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// FromError convierte un error genérico en AppError. Si no lo es, devuelve
// un error interno genérico conservando la causa para el log.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternal.WithCause(err)
}

var (
	// 400 — validación / input malformado
	ErrBadRequest = &AppError{
		Message:    "Invalid request",
		HTTPStatus: http.StatusBadRequest,
	}

	// 401 — tres mensajes distintos, mismo status. Los dos últimos son
	// deliberadamente genéricos: no revelan qué parte de la credencial falló.
	ErrMissingAuthHeader = &AppError{
		Message:    "Missing Authorization header",
		HTTPStatus: http.StatusUnauthorized,
	}
	ErrInvalidKeyFormat = &AppError{
		Message:    "Invalid API key format",
		HTTPStatus: http.StatusUnauthorized,
	}
	ErrInvalidKey = &AppError{
		Message:    "Invalid API key",
		HTTPStatus: http.StatusUnauthorized,
	}

	// 404 — genérico: nunca revela si el recurso existe en otro tenant.
	ErrNotFound = &AppError{
		Message:    "Not found",
		HTTPStatus: http.StatusNotFound,
	}

	// 429
	ErrRateLimited = &AppError{
		Message:    "Too many requests",
		HTTPStatus: http.StatusTooManyRequests,
	}

	// 500 — genérico hacia el cliente; el detalle va al log del servidor.
	ErrInternal = &AppError{
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
	}
)
