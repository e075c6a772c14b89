// Package auth reads service account tokens of nauta users.
//
// Tokens are not verified here. The kubernetes API server verifies them
// when the token is used for cluster access.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// NamespaceClaim is the claim of service account tokens holding the namespace,
// which is the name of the nauta user.
const NamespaceClaim = "kubernetes.io/serviceaccount/namespace"

var (
	ErrMissingToken = errors.New("missing authorization token")
	ErrInvalidToken = errors.New("invalid token")
)

// User is the owner of a token.
type User struct {
	Name   string
	Claims jwt.MapClaims
}

// Decode reads the payload of a token.
//
// It returns ErrMissingToken for an empty token, and ErrInvalidToken when
// the token is not a JWT or it does not have NamespaceClaim.
func Decode(token string) (User, error) {
	if token == "" {
		return User{}, ErrMissingToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	ns, ok := claims[NamespaceClaim].(string)
	if !ok || ns == "" {
		return User{}, fmt.Errorf("%w: no %s claim", ErrInvalidToken, NamespaceClaim)
	}
	return User{Name: ns, Claims: claims}, nil
}

// FromHeader extracts a token from the Authorization header.
//
// Both of "Bearer <token>" and bare "<token>" are accepted.
func FromHeader(h http.Header) string {
	v := strings.TrimSpace(h.Get("Authorization"))
	if len(v) > len("bearer ") && strings.EqualFold(v[:len("bearer ")], "bearer ") {
		v = strings.TrimSpace(v[len("bearer "):])
	}
	return v
}
