package middlewares

import (
	"context"

	"github.com/dropDatabas3/flagbox/internal/auth"
)

type ctxKey string

const (
	// ctxAuthKey guarda el auth.Context de la key verificada
	ctxAuthKey ctxKey = "auth"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// withAuthContext inyecta el contexto de autenticación (interno).
func withAuthContext(ctx context.Context, actx auth.Context) context.Context {
	return context.WithValue(ctx, ctxAuthKey, actx)
}

// setRequestID inyecta el request ID (interno).
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetAuthContext obtiene el auth.Context del contexto.
// El segundo retorno es false si el middleware de auth no corrió.
func GetAuthContext(ctx context.Context) (auth.Context, bool) {
	if v := ctx.Value(ctxAuthKey); v != nil {
		if actx, ok := v.(auth.Context); ok {
			return actx, true
		}
	}
	return auth.Context{}, false
}

// MustGetAuthContext obtiene el auth.Context o hace panic.
// Usar solo en rutas donde el middleware de auth SIEMPRE se aplica.
func MustGetAuthContext(ctx context.Context) auth.Context {
	actx, ok := GetAuthContext(ctx)
	if !ok {
		panic("middlewares: no auth context")
	}
	return actx
}

// GetRequestID obtiene el request ID del contexto, o "" si no hay.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
