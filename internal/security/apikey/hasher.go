package apikey

import "golang.org/x/crypto/bcrypt"

// Hasher aísla el primitivo de hashing lento del resto de la verificación,
// para poder cambiar de backend sin tocar el verificador.
type Hasher interface {
	// Hash deriva un hash con salt a partir del secreto en claro.
	Hash(secret string) (string, error)
	// Compare verifica el secreto contra un hash almacenado.
	Compare(secret, hash string) bool
}

// BcryptHasher implementa Hasher con bcrypt.
// El costo es deliberadamente alto: acota el throughput de verificación por
// intento y es la defensa contra fuerza bruta del secreto.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher crea un hasher con work factor 10.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
