package values

import (
	"encoding/json"
	"testing"

	"github.com/dropDatabas3/flagbox/internal/domain"
)

func TestParse_Number(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"42", float64(42)},
		{"3.14", 3.14},
		{"-7", float64(-7)},
		{"  10 ", float64(10)},
		{"", float64(0)},   // coerción de vacío es cero
		{"   ", float64(0)}, // solo espacios también
		{"abc", "abc"},     // inválido pasa sin modificar
		{"12abc", "12abc"},
		// ParseFloat los acepta pero no son números coercibles: passthrough
		{"inf", "inf"},
		{"Infinity", "Infinity"},
		{"-inf", "-inf"},
		{"nan", "nan"},
		{"NaN", "NaN"},
	}
	for _, c := range cases {
		if got := Parse(c.in, domain.ValueTypeNumber); got != c.want {
			t.Fatalf("Parse(%q, number) = %v (%T), want %v (%T)", c.in, got, got, c.want, c.want)
		}
	}
}

// Todo resultado de Parse tiene que poder serializarse: un solo valor sin
// representación JSON rompería la respuesta completa del endpoint.
func TestParse_NumberAlwaysJSONEncodable(t *testing.T) {
	for _, in := range []string{"42", "inf", "Infinity", "-inf", "nan", "1e309", "abc", ""} {
		got := Parse(in, domain.ValueTypeNumber)
		if _, err := json.Marshal(map[string]any{"value": got}); err != nil {
			t.Fatalf("Parse(%q, number) = %v no serializable: %v", in, got, err)
		}
	}
}

func TestParse_Boolean(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"false", false},
		{"  TRUE ", true},
		{"False", false},
		{"yes", "yes"}, // no es true/false exacto: passthrough original
		{"1", "1"},
		{" maybe ", " maybe "}, // passthrough conserva espacios y case
		{"", ""},
	}
	for _, c := range cases {
		if got := Parse(c.in, domain.ValueTypeBoolean); got != c.want {
			t.Fatalf("Parse(%q, boolean) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParse_StringAndUnknown(t *testing.T) {
	if got := Parse("x", domain.ValueTypeString); got != "x" {
		t.Fatalf("Parse(x, string) = %v", got)
	}
	// Tipo desconocido se comporta como string
	if got := Parse("true", domain.ValueType("json")); got != "true" {
		t.Fatalf("Parse con tipo desconocido = %v", got)
	}
}
