// Package values convierte valores almacenados como string a su tipo declarado.
package values

import (
	"math"
	"strconv"
	"strings"

	"github.com/dropDatabas3/flagbox/internal/domain"
)

// Parse interpreta raw según el valueType declarado.
//
// Es deliberadamente tolerante: una coerción fallida NO es un error, el string
// original pasa sin modificar. Nunca retorna error.
//
//   - number: coerción numérica del string completo; string vacío (o solo
//     espacios) vale 0, como en la coerción numérica estándar de strings.
//   - boolean: trim + lowercase; solo "true"/"false" exactos coercionan.
//   - string o tipo desconocido: passthrough.
func Parse(raw string, valueType domain.ValueType) any {
	switch valueType {
	case domain.ValueTypeNumber:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return float64(0)
		}
		// ParseFloat acepta "inf"/"nan", que no son números coercibles (y no
		// tienen representación JSON): cuentan como coerción fallida.
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
			return n
		}
		return raw
	case domain.ValueTypeBoolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true":
			return true
		case "false":
			return false
		}
		return raw
	default:
		return raw
	}
}
