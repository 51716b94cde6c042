package apikey

import (
	"regexp"
	"strings"
	"testing"
)

var fullKeyRe = regexp.MustCompile(`^sk_[A-Za-z0-9_-]{16}_[A-Za-z0-9_-]{32}$`)

func TestGenerate_Format(t *testing.T) {
	h := NewBcryptHasher()
	g, err := Generate(h)
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if !fullKeyRe.MatchString(g.FullKey) {
		t.Fatalf("FullKey no matchea el formato: %q", g.FullKey)
	}
	if g.FullKey != "sk_"+g.PublicPart+"_"+g.PrivateSecret {
		t.Fatalf("FullKey no compone las partes: %q", g.FullKey)
	}
	// El alfabeto de generación no incluye "_" (es el separador)
	if strings.Contains(g.PublicPart, "_") || strings.Contains(g.PrivateSecret, "_") {
		t.Fatalf("segmento contiene separador: %q / %q", g.PublicPart, g.PrivateSecret)
	}
	if g.PrivateHash == "" || g.PrivateHash == g.PrivateSecret {
		t.Fatalf("PrivateHash inválido: %q", g.PrivateHash)
	}
}

func TestRandomSegment_LengthAndAlphabet(t *testing.T) {
	seen := map[byte]bool{}
	for i := 0; i < 200; i++ {
		s, err := randomSegment(PrivateSecretLen)
		if err != nil {
			t.Fatalf("randomSegment err: %v", err)
		}
		// El rejection sampling no puede alterar el largo pedido.
		if len(s) != PrivateSecretLen {
			t.Fatalf("len = %d, esperaba %d", len(s), PrivateSecretLen)
		}
		for j := 0; j < len(s); j++ {
			if !strings.ContainsRune(alphabet, rune(s[j])) {
				t.Fatalf("caracter fuera del alfabeto: %q", s[j])
			}
			seen[s[j]] = true
		}
	}
	// Con 6400 draws sobre 63 símbolos, faltar muchos indica un generador roto.
	if len(seen) < len(alphabet)-5 {
		t.Fatalf("solo %d/%d símbolos aparecieron", len(seen), len(alphabet))
	}
}

func TestGenerate_HashVerifies(t *testing.T) {
	h := NewBcryptHasher()
	g, err := Generate(h)
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if !h.Compare(g.PrivateSecret, g.PrivateHash) {
		t.Fatalf("el hash no verifica contra el secreto embebido")
	}
	// Verificación idempotente: repetir sigue funcionando
	if !h.Compare(g.PrivateSecret, g.PrivateHash) {
		t.Fatalf("la verificación no es idempotente")
	}
	if h.Compare(g.PrivateSecret+"x", g.PrivateHash) {
		t.Fatalf("el hash acepta un secreto distinto")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	h := NewBcryptHasher()
	g, err := Generate(h)
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	for _, header := range []string{g.FullKey, "Bearer " + g.FullKey, "  " + g.FullKey + " "} {
		p, err := Parse(header)
		if err != nil {
			t.Fatalf("Parse(%q) err: %v", header, err)
		}
		if p.PublicPart != g.PublicPart || p.PrivateSecret != g.PrivateSecret {
			t.Fatalf("Parse(%q) = %+v, partes no coinciden", header, p)
		}
	}
}

func TestParse_PublicPrefix(t *testing.T) {
	p, err := Parse("pk_aaaaaaaaaaaaaaaa_bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	if err != nil {
		t.Fatalf("Parse pk_ err: %v", err)
	}
	if p.Prefix != PrefixPublic {
		t.Fatalf("prefix = %q", p.Prefix)
	}
}

func TestParse_Malformed(t *testing.T) {
	malformed := []string{
		"",
		"sk_",
		"sk__",
		"xx_aaaaaaaaaaaaaaaa_bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", // prefijo desconocido
		"sk_aaaaaaaaaaaaaaaa",                   // 2 segmentos
		"sk_short_bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",            // parte pública corta
		"sk_aaaaaaaaaaaaaaaa_short",                             // secreto corto
		"sk_aaaaaaaaaaaaaaaa_bbbbbbbbbbbbbbbb!bbbbbbbbbbbbbbbb", // caracter inválido
		"Bearer sk_aaaa",
		"sk_aaaaaaaaaaaaaaaa_bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb_extra", // 4 segmentos
	}
	for _, in := range malformed {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) debería fallar", in)
		}
	}
}
