package driven

import "github.com/custodia-labs/sercha-docs/internal/core/domain"

// AuthAdapter handles token signing and verification.
type AuthAdapter interface {
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
