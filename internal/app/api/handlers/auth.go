package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrUnauthenticated means the Authorization header is absent or not a
// bearer presentation. Distinct from an invalid token, which the verifier
// reports.
var ErrUnauthenticated = errors.New("missing or malformed authorization header")

// TokenVerifier validates a bearer ID token and yields the stable user id.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (string, error)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", ErrUnauthenticated
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrUnauthenticated
	}
	return token, nil
}
