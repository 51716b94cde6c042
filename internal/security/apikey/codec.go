// Package apikey genera y parsea credenciales de API con formato
// <prefijo>_<parte pública>_<secreto privado>.
package apikey

import (
	"crypto/rand"
	"errors"
	"strings"
)

const (
	// PrefixSecret es el prefijo estándar de toda credencial emitida.
	// La clase (secret/public) es un atributo almacenado, NO va en el prefijo.
	PrefixSecret = "sk"
	// PrefixPublic es el prefijo reservado para keys totalmente públicas.
	// Se acepta al parsear aunque hoy solo emitimos "sk".
	PrefixPublic = "pk"

	// PublicPartLen es el largo de la parte pública (identificador de lookup).
	PublicPartLen = 16
	// PrivateSecretLen es el largo del secreto privado.
	PrivateSecretLen = 32

	// Largos aceptados al parsear (tolerante hacia adelante).
	segmentMinLen = 16
	segmentMaxLen = 62
)

// ErrInvalidFormat indica una credencial malformada. El mensaje exacto hacia
// el cliente lo decide la capa HTTP.
var ErrInvalidFormat = errors.New("invalid api key format")

// Generated es el resultado de generar una credencial nueva.
// PrivateSecret y FullKey se entregan UNA sola vez; solo PrivateHash se persiste.
type Generated struct {
	PublicPart    string
	PrivateSecret string
	FullKey       string
	PrivateHash   string
}

// Parsed es una credencial con formato válido, todavía sin verificar.
type Parsed struct {
	Prefix        string
	PublicPart    string
	PrivateSecret string
}

// Generate produce una credencial nueva: parte pública de 16 chars, secreto
// de 32, ambos de un alfabeto URL-safe sin "_" (el separador del formato).
// El hash del secreto sale del Hasher; la persistencia es del llamador.
func Generate(h Hasher) (Generated, error) {
	pub, err := randomSegment(PublicPartLen)
	if err != nil {
		return Generated{}, err
	}
	secret, err := randomSegment(PrivateSecretLen)
	if err != nil {
		return Generated{}, err
	}
	hash, err := h.Hash(secret)
	if err != nil {
		return Generated{}, err
	}
	return Generated{
		PublicPart:    pub,
		PrivateSecret: secret,
		FullKey:       PrefixSecret + "_" + pub + "_" + secret,
		PrivateHash:   hash,
	}, nil
}

// Parse valida el formato de un valor de header Authorization.
// Acepta un prefijo "Bearer " opcional. Requiere exactamente 3 segmentos
// no vacíos separados por "_", con prefijo "sk" o "pk".
func Parse(headerValue string) (Parsed, error) {
	raw := strings.TrimSpace(headerValue)
	raw = strings.TrimPrefix(raw, "Bearer ")
	raw = strings.TrimSpace(raw)

	parts := strings.Split(raw, "_")
	if len(parts) != 3 {
		return Parsed{}, ErrInvalidFormat
	}
	prefix, pub, secret := parts[0], parts[1], parts[2]
	if prefix != PrefixSecret && prefix != PrefixPublic {
		return Parsed{}, ErrInvalidFormat
	}
	if !validSegment(pub) || !validSegment(secret) {
		return Parsed{}, ErrInvalidFormat
	}
	return Parsed{Prefix: prefix, PublicPart: pub, PrivateSecret: secret}, nil
}

// alphabet es base64url sin "_": el guión bajo es el separador del formato.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-"

// randomSegment genera n caracteres aleatorios del alfabeto, con rejection
// sampling para que la distribución sea uniforme (256 no es múltiplo de 63).
// Un fallo de la fuente de aleatoriedad es fatal para el proceso llamador.
func randomSegment(n int) (string, error) {
	// El mayor múltiplo de len(alphabet) que entra en un byte.
	limit := 256 / len(alphabet) * len(alphabet)

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, v := range buf {
			if int(v) >= limit {
				continue
			}
			out = append(out, alphabet[int(v)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

func validSegment(s string) bool {
	if len(s) < segmentMinLen || len(s) > segmentMaxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}
