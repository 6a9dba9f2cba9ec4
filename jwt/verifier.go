package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates tokens produced by an [Issuer] sharing the same key.
//
// Issuer and Subject, when non-empty in the Config, must match the token claims.
type Verifier struct {
	config Config
}

// NewVerifier validates cfg and returns a Verifier.
func NewVerifier(cfg Config) (*Verifier, error) {
	cfg, err := normalize(cfg)
	if err != nil {
		return nil, err
	}
	return &Verifier{config: cfg}, nil
}

// Parse verifies the signature, algorithm, expiry and configured identity claims of
// tokenStr and returns its claims.
func (v *Verifier) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.config.Now),
	}
	if v.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(v.config.Leeway))
	}
	if v.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.config.Issuer))
	}
	if v.config.Subject != "" {
		options = append(options, jwt.WithSubject(v.config.Subject))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return v.config.Key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
