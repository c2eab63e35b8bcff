package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"campus-events/backend/config"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Token types carried in the token_type claim.
const (
	TypeAccess        = "access"
	TypeRefresh       = "refresh"
	TypePasswordReset = "password_reset"
)

const issuer = "campus-events"

// Claims session claims. UserID is the row id in the table selected by Role.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
	Name      string `json:"name,omitempty"`
	TokenType string `json:"token_type"`
	jwtv5.RegisteredClaims
}

// Subject identifies the account a token is issued for.
type Subject struct {
	UserID  int64
	Role    string
	IsAdmin bool
	Name    string
}

// Manager signs and parses HS256 tokens.
type Manager struct {
	secret           []byte
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	passwordResetTTL time.Duration
}

// NewManager creates a Manager from the auth config.
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:           []byte(cfg.JWTSecret),
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		passwordResetTTL: cfg.PasswordResetTTL,
	}
}

// AccessTokenTTL lifetime of access tokens.
func (m *Manager) AccessTokenTTL() time.Duration { return m.accessTokenTTL }

// GenerateAccessToken signs a short-lived access token.
func (m *Manager) GenerateAccessToken(sub Subject) (string, error) {
	return m.sign(sub, TypeAccess, m.accessTokenTTL)
}

// GenerateRefreshToken signs a refresh token.
func (m *Manager) GenerateRefreshToken(sub Subject) (string, error) {
	return m.sign(sub, TypeRefresh, m.refreshTokenTTL)
}

// GeneratePasswordResetToken signs a single-purpose reset token (role + id only).
func (m *Manager) GeneratePasswordResetToken(userID int64, role string) (string, error) {
	return m.sign(Subject{UserID: userID, Role: role}, TypePasswordReset, m.passwordResetTTL)
}

func (m *Manager) sign(sub Subject, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    sub.UserID,
		Role:      sub.Role,
		IsAdmin:   sub.IsAdmin,
		Name:      sub.Name,
		TokenType: tokenType,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken verifies the signature and expiry and returns the claims.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// ParseTyped is ParseToken plus a token_type check.
func (m *Manager) ParseTyped(tokenString, tokenType string) (*Claims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
