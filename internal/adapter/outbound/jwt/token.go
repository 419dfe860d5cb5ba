package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/uniedit/checkout/internal/port/outbound"
)

// Config holds back-office token configuration.
type Config struct {
	Secret string
	Issuer string
	Expiry time.Duration
}

// DefaultConfig returns default token configuration.
func DefaultConfig() *Config {
	return &Config{
		Issuer: "checkout",
		Expiry: 15 * time.Minute,
	}
}

// tokenManager implements outbound.TokenPort.
type tokenManager struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewTokenManager creates a new token manager.
func NewTokenManager(cfg *Config) outbound.TokenPort {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = DefaultConfig().Expiry
	}
	return &tokenManager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		expiry: expiry,
		now:    time.Now,
	}
}

// IssueToken signs an HS256 token for an operator.
func (m *tokenManager) IssueToken(subject, email string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("empty subject")
	}
	now := m.now()
	expiresAt := now.Add(m.expiry)

	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iss":   m.issuer,
		"exp":   expiresAt.Unix(),
		"iat":   now.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a token.
func (m *tokenManager) ValidateToken(tokenString string) (*outbound.OperatorClaims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now)}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token without subject")
	}
	email, _ := claims["email"].(string)

	return &outbound.OperatorClaims{
		Subject: sub,
		Email:   email,
	}, nil
}

// Compile-time check
var _ outbound.TokenPort = (*tokenManager)(nil)
