package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"     // secure random number generation
	"crypto/sha256"   // SHA-256 hashing for refresh tokens
	"encoding/base64" // refresh tokens are base64 strings
	"encoding/hex"    // hex encoding of token hashes
	"errors"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"       // jti values
)

// RefreshTokenBytes is the amount of random data behind a refresh token.
const RefreshTokenBytes = 32

// ErrInvalidToken is returned by ParseAccessToken for any token that fails
// signature, algorithm or claims checks.
var ErrInvalidToken = errors.New("invalid token")

// JWTSettings holds the values shared by token issuing and validation.
type JWTSettings struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// AccessClaims are the claims carried by an access token. Name is the
// principal's user name and Roles its role labels; Subject repeats Name.
type AccessClaims struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a principal. The token
// carries name and role claims plus issuer, audience, issued-at, expiry and
// a random jti so two tokens issued in the same second still differ.
func NewAccessToken(s JWTSettings, name string, roles []string, now time.Time) (AccessToken, error) {
	now = now.UTC()
	exp := now.Add(s.TTL)
	claims := AccessClaims{
		Name:  name,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   name,
			Issuer:    s.Issuer,
			Audience:  jwt.ClaimStrings{s.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.Secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against the signing secret and returns its
// claims. Only HS256 is accepted. With validateLifetime the expiry, issuer
// and audience are enforced as well; without it only the signature and the
// algorithm are checked, which is what exchanging an expired access token
// for a new pair needs.
func ParseAccessToken(s JWTSettings, raw string, validateLifetime bool) (*AccessClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if validateLifetime {
		opts = append(opts,
			jwt.WithExpirationRequired(),
			jwt.WithIssuer(s.Issuer),
			jwt.WithAudience(s.Audience),
		)
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &AccessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.Secret), nil
	}, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !tok.Valid || claims.Name == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NewRefreshToken returns a cryptographically secure random token encoded
// as standard base64.
func NewRefreshToken() (string, error) {
	buf := make([]byte, RefreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as a hex
// string. Only the hash is stored, so a leaked users table cannot be used to
// refresh sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
