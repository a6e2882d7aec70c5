package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iamadmin/iamadmin/internal/model"
)

// ErrInvalidToken is returned for any bearer token that fails verification.
var ErrInvalidToken = errors.New("invalid bearer token")

// clockSkew is the leeway allowed on exp/nbf/iat.
const clockSkew = 30 * time.Second

// Claims are the operator claims carried in a bearer token.
type Claims struct {
	Email  string   `json:"email"`
	IsRoot bool     `json:"is_root"`
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens issued by the identity service.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a Verifier. An empty issuer disables the iss check.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify validates tokenStr and returns the caller it names.
func (v *Verifier) Verify(tokenStr string) (*model.Caller, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	parser := jwt.NewParser(opts...)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &model.Caller{
		Subject: claims.Subject,
		Email:   claims.Email,
		IsRoot:  claims.IsRoot,
		Scopes:  claims.Scopes,
	}, nil
}

// Sign issues an HS256 token for caller valid for ttl from now.
func Sign(secret, issuer string, caller model.Caller, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Email:  caller.Email,
		IsRoot: caller.IsRoot,
		Scopes: caller.Scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.Subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
