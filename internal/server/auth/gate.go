package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// Verifier is satisfied by *TokenService.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// Gate turns an Authorization header into an Identity.
type Gate struct {
	tokens Verifier
}

func NewGate(tokens Verifier) *Gate {
	return &Gate{tokens: tokens}
}

// Authenticate expects "Bearer <token>"; the scheme is case-insensitive.
// Every failure matches common.ErrorUnauthorized, with the token error
// (if any) still reachable through errors.Is.
func (g *Gate) Authenticate(header string) (Identity, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return Identity{}, fmt.Errorf("%w: missing bearer token", common.ErrorUnauthorized)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, fmt.Errorf("%w: empty bearer token", common.ErrorUnauthorized)
	}

	id, err := g.tokens.Verify(token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return id, nil
}
