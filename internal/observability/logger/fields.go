package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar HTTP.

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Campos estándar de negocio.

// TenantID crea un campo para el ID del tenant.
func TenantID(v string) zap.Field {
	return zap.String("tenant_id", v)
}

// ProjectID crea un campo para el ID del proyecto.
func ProjectID(v string) zap.Field {
	return zap.String("project_id", v)
}

// APIKeyID crea un campo para el ID de la API key autenticada.
func APIKeyID(v string) zap.Field {
	return zap.String("api_key_id", v)
}

// KeyClass crea un campo para la clase de la key (secret/public).
func KeyClass(v string) zap.Field {
	return zap.String("key_class", v)
}

// FlagName crea un campo para el nombre de un feature flag.
func FlagName(v string) zap.Field {
	return zap.String("flag", v)
}

// ConfigName crea un campo para el nombre de un config.
func ConfigName(v string) zap.Field {
	return zap.String("config", v)
}

// Campos estándar de sistema.

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (controller, service, store).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}
