package middlewares

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/flagbox/internal/auth"
	httperrors "github.com/dropDatabas3/flagbox/internal/http/errors"
	"github.com/dropDatabas3/flagbox/internal/observability/logger"
)

// WithAPIKey autentica el request por API key y autoriza la clase contra la
// policy del endpoint. Inyecta auth.Context en el contexto y scopea el logger
// con tenant/proyecto/key. Tres mensajes 401 distintos: header ausente,
// formato inválido, credencial inválida (este último cubre también la clase
// incorrecta, indistinguible a propósito).
func WithAPIKey(svc *auth.Service, policy auth.Policy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			actx, err := svc.Authenticate(ctx, r.Header.Get("Authorization"), policy)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrMissingHeader):
					httperrors.WriteError(w, r, httperrors.ErrMissingAuthHeader)
				case errors.Is(err, auth.ErrInvalidFormat):
					httperrors.WriteError(w, r, httperrors.ErrInvalidKeyFormat)
				case errors.Is(err, auth.ErrInvalidKey):
					httperrors.WriteError(w, r, httperrors.ErrInvalidKey)
				default:
					// Fallo del store u otro error inesperado
					httperrors.WriteError(w, r, httperrors.ErrInternal.WithCause(err))
				}
				return
			}

			ctx = withAuthContext(ctx, actx)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(
				logger.TenantID(actx.TenantID),
				logger.ProjectID(actx.ProjectID),
				logger.APIKeyID(actx.APIKeyID),
			))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
