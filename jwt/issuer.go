package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of an issued token when [Config.TTL] is zero.
const DefaultTTL = 30 * time.Minute

var (
	// ErrMissingKey is returned when no signing key is configured.
	ErrMissingKey = errors.New("hs256 requires key")
	// ErrInvalidTTL is returned for a negative token lifetime.
	ErrInvalidTTL = errors.New("invalid TTL configuration")
	// ErrInvalidLeeway is returned for a verifier leeway outside [0, 2m].
	ErrInvalidLeeway = errors.New("invalid leeway configuration")
)

// Config carries the claims and key material shared by [Issuer] and [Verifier].
//
// Issuer and Subject are embedded as-is; empty values are accepted and produce
// tokens the remote service will most likely refuse.
type Config struct {
	TTL     time.Duration
	Issuer  string
	Subject string
	Key     []byte
	Leeway  time.Duration

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Claims is the registered claim set carried by every token.
type Claims = jwt.RegisteredClaims

// Issuer signs tokens for a fixed issuer/subject pair.
//
// Issuer instances are immutable after construction and safe for concurrent use.
type Issuer struct {
	config Config
}

// NewIssuer validates cfg and returns an Issuer.
//
// A zero TTL is replaced by [DefaultTTL].
func NewIssuer(cfg Config) (*Issuer, error) {
	cfg, err := normalize(cfg)
	if err != nil {
		return nil, err
	}
	return &Issuer{config: cfg}, nil
}

// Issue signs a new token with HS256. The payload carries only iat, exp, iss and
// sub; exp is exactly TTL after iat. Signing errors are returned unchanged.
func (i *Issuer) Issue() (string, error) {
	now := i.config.Now().Truncate(time.Second)

	claims := Claims{
		Issuer:    i.config.Issuer,
		Subject:   i.config.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.config.TTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.config.Key)
}

// TTL reports the lifetime applied to issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.config.TTL
}

func normalize(cfg Config) (Config, error) {
	if cfg.TTL < 0 {
		return Config{}, ErrInvalidTTL
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return Config{}, ErrInvalidLeeway
	}
	if len(cfg.Key) == 0 {
		return Config{}, ErrMissingKey
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Key = append([]byte(nil), cfg.Key...)
	return cfg, nil
}
