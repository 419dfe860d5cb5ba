package outbound

import "time"

// TokenPort defines back-office bearer token operations.
type TokenPort interface {
	// IssueToken signs a token for an operator.
	IssueToken(subject, email string) (string, time.Time, error)

	// ValidateToken validates a token and returns its claims.
	ValidateToken(token string) (*OperatorClaims, error)
}

// OperatorClaims represents the claims of a back-office token.
type OperatorClaims struct {
	Subject string
	Email   string
}
