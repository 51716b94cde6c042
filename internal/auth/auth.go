// Package auth verifica credenciales de API y resuelve el contexto de
// autenticación (tenant, proyecto, clase de key) que scopea todo lo demás.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/flagbox/internal/domain"
	"github.com/dropDatabas3/flagbox/internal/domain/repository"
	"github.com/dropDatabas3/flagbox/internal/security/apikey"
)

// Policy define qué clases de key acepta un endpoint.
// Se modela como enum explícito chequeado en la autorización, no por herencia.
type Policy int

const (
	// PolicySecretOnly solo acepta keys de clase secret.
	PolicySecretOnly Policy = iota
	// PolicyAnyKey acepta secret o public.
	PolicyAnyKey
	// PolicyPublicOnly solo acepta keys de clase public (datos embebibles
	// en código cliente).
	PolicyPublicOnly
)

var (
	// ErrMissingHeader: no vino el header Authorization.
	ErrMissingHeader = errors.New("missing authorization header")
	// ErrInvalidFormat: el header vino pero la credencial está malformada.
	ErrInvalidFormat = errors.New("invalid api key format")
	// ErrInvalidKey cubre key inexistente, secreto que no verifica y clase
	// incorrecta para la policy. Un solo error genérico: distinguirlos sería
	// un oráculo para el atacante.
	ErrInvalidKey = errors.New("invalid api key")
)

// Context es el resultado de una autenticación exitosa. Se enhebra en todas
// las queries posteriores; ningún identificador provisto por el cliente
// reemplaza estos valores.
type Context struct {
	TenantID  string
	ProjectID string
	APIKeyID  string
	KeyClass  domain.KeyClass
}

// Service verifica credenciales contra el store.
type Service struct {
	keys      repository.APIKeyRepository
	hasher    apikey.Hasher
	dummyHash string
}

// NewService crea el servicio de autenticación.
func NewService(keys repository.APIKeyRepository, hasher apikey.Hasher) (*Service, error) {
	// Hash de sacrificio para la rama "key no encontrada": igualamos el
	// costo de esa rama al de una comparación real.
	dummy, err := hasher.Hash("flagbox-dummy-secret")
	if err != nil {
		return nil, fmt.Errorf("auth: dummy hash: %w", err)
	}
	return &Service{keys: keys, hasher: hasher, dummyHash: dummy}, nil
}

// Authenticate parsea el header, verifica el secreto contra el hash
// almacenado y autoriza la clase de key contra la policy del endpoint.
func (s *Service) Authenticate(ctx context.Context, headerValue string, policy Policy) (Context, error) {
	if headerValue == "" {
		return Context{}, ErrMissingHeader
	}

	parsed, err := apikey.Parse(headerValue)
	if err != nil {
		return Context{}, ErrInvalidFormat
	}

	rec, err := s.keys.GetByPublicPart(ctx, parsed.PublicPart)
	if err != nil {
		if repository.IsNotFound(err) {
			// Misma latencia y mismo error que un mismatch de hash.
			s.hasher.Compare(parsed.PrivateSecret, s.dummyHash)
			return Context{}, ErrInvalidKey
		}
		return Context{}, fmt.Errorf("auth: lookup: %w", err)
	}

	if !s.hasher.Compare(parsed.PrivateSecret, rec.PrivateHash) {
		return Context{}, ErrInvalidKey
	}

	if !classAllowed(rec.KeyClass, policy) {
		// Clase incorrecta es indistinguible de una key inválida.
		return Context{}, ErrInvalidKey
	}

	return Context{
		TenantID:  rec.TenantID,
		ProjectID: rec.ProjectID,
		APIKeyID:  rec.ID,
		KeyClass:  rec.KeyClass,
	}, nil
}

func classAllowed(class domain.KeyClass, policy Policy) bool {
	switch policy {
	case PolicySecretOnly:
		return class == domain.KeyClassSecret
	case PolicyPublicOnly:
		return class == domain.KeyClassPublic
	case PolicyAnyKey:
		return class == domain.KeyClassSecret || class == domain.KeyClassPublic
	}
	return false
}
