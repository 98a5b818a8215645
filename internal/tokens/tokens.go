package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MightyHelper/WSD25-Assign02/internal/models"
)

const (
	DefaultAccessTTL  = 60 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour

	refreshTokenBytes = 32
)

// ErrInvalidToken covers signature mismatch, malformed structure and expiry.
// Callers must not distinguish the cases outward.
var ErrInvalidToken = errors.New("invalid token")

type AccessClaims struct {
	Type int `json:"type"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) Role() models.Role { return models.Role(c.Type) }

// Codec signs and verifies access tokens with a single shared HS256 secret.
// Rotating the secret invalidates all outstanding tokens.
type Codec struct {
	secret    []byte
	accessTTL time.Duration
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, accessTTL: DefaultAccessTTL}
}

func NewCodecTTL(secret []byte, accessTTL time.Duration) *Codec {
	return &Codec{secret: secret, accessTTL: accessTTL}
}

func (c *Codec) CreateAccessToken(subject string, role models.Role) (string, error) {
	return c.CreateAccessTokenTTL(subject, role, c.accessTTL)
}

func (c *Codec) CreateAccessTokenTTL(subject string, role models.Role, ttl time.Duration) (string, error) {
	claims := AccessClaims{
		Type: int(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *Codec) DecodeAccessToken(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// NewRefreshToken returns an opaque URL-safe string with 256 bits of
// entropy. It is not a JWT: validity lives in the refresh_tokens table.
func NewRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
