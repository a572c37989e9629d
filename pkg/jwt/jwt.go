package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"club-lodging/backend/config"
)

var (
	ErrTokenExpired = errors.New("token expirado")
	ErrTokenInvalid = errors.New("token inválido")
)

const issuer = "club-lodging"

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims identify the member behind a request. MemberType lets the API
// resolve business rules without a user lookup.
type Claims struct {
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	MemberType string `json:"member_type"`
	TokenType  string `json:"token_type"`
	jwtv5.RegisteredClaims
}

type Manager struct {
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:          []byte(cfg.JWTSecret),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}
}

// AccessTokenTTL is the lifetime of access tokens.
func (m *Manager) AccessTokenTTL() time.Duration { return m.accessTokenTTL }

func (m *Manager) GenerateAccessToken(userID, role, memberType string) (string, error) {
	return m.sign(userID, role, memberType, TokenTypeAccess, m.accessTokenTTL)
}

func (m *Manager) GenerateRefreshToken(userID, role, memberType string) (string, error) {
	return m.sign(userID, role, memberType, TokenTypeRefresh, m.refreshTokenTTL)
}

func (m *Manager) sign(userID, role, memberType, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     userID,
		Role:       role,
		MemberType: memberType,
		TokenType:  tokenType,
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

// ParseToken verifies the signature and expiry of tokenString.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

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
