package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/placement-hub/portal/internal/domain"
)

// TokenKind separates access tokens from refresh tokens.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// ErrWrongTokenKind is returned when a refresh token is presented as access or vice versa.
var ErrWrongTokenKind = errors.New("wrong token kind")

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, accessTTLMinutes, refreshTTLMinutes int) *TokenManager {
	if accessTTLMinutes <= 0 {
		accessTTLMinutes = 60
	}
	if refreshTTLMinutes <= 0 {
		refreshTTLMinutes = 60 * 24 * 7
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshTTLMinutes) * time.Minute,
		now:        time.Now,
	}
}

// WithClock overrides the time source, used by tests.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// RefreshTTL reports how long a refresh token stays valid.
func (tm *TokenManager) RefreshTTL() time.Duration {
	return tm.refreshTTL
}

// Claims describes JWT payload.
type Claims struct {
	Email     string    `json:"email,omitempty"`
	SessionID string    `json:"sid"`
	Kind      TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// IssueSession signs a fresh access/refresh pair for the user under sessionID.
func (tm *TokenManager) IssueSession(user domain.UserIdentity, sessionID string) (*domain.Session, error) {
	now := tm.now()
	access, accessExp, err := tm.sign(user, sessionID, TokenAccess, now, tm.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := tm.sign(user, sessionID, TokenRefresh, now, tm.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		ID:           sessionID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExp,
		User:         user,
	}, nil
}

func (tm *TokenManager) sign(user domain.UserIdentity, sessionID string, kind TokenKind, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Email:     user.Email,
		SessionID: sessionID,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates a token of the expected kind and returns its claims.
func (tm *TokenManager) ParseToken(tokenStr string, kind TokenKind) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}
