// Package jwt firma y valida los access tokens (HS256) que identifican al usuario.
package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken firma, formato o método inválidos.
	ErrInvalidToken = errors.New("invalid_jwt")
	// ErrInvalidIssuer el claim iss no coincide.
	ErrInvalidIssuer = errors.New("invalid_issuer")
	// ErrMissingSubject el token no trae sub.
	ErrMissingSubject = errors.New("missing_sub")
)

// Issuer firma tokens con un secreto compartido.
type Issuer struct {
	Iss       string        // "iss"; vacío => no se valida
	Secret    []byte        // clave HMAC
	AccessTTL time.Duration // TTL por defecto (ej: 15m)
}

func NewIssuer(iss string, secret []byte) *Issuer {
	return &Issuer{
		Iss:       iss,
		Secret:    secret,
		AccessTTL: 15 * time.Minute,
	}
}

// Sign emite un access token para el usuario. ttl 0 => AccessTTL.
func (i *Issuer) Sign(userID string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = i.AccessTTL
	}
	now := time.Now()
	claims := jwtv5.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwtv5.NewNumericDate(now),
		NotBefore: jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
	}
	if i.Iss != "" {
		claims.Issuer = i.Iss
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	return tk.SignedString(i.Secret)
}
