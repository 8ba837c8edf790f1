package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and verifies HS256 bearer tokens carrying the user ID.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TokenClaims is the parsed content of a valid token.
type TokenClaims struct {
	UserID    uint64
	Username  string
	ExpiresAt time.Time
}

func (m *TokenManager) Issue(userID uint64, username string) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  userID,
		"name": username,
		"iat":  m.now().Unix(),
		"exp":  m.now().Add(m.ttl).Unix(),
	}).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (m *TokenManager) Parse(raw string) (*TokenClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	uid, ok := claims["uid"].(float64)
	if !ok || uid < 1 {
		return nil, errors.New("token has no user")
	}
	name, _ := claims["name"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errors.New("token has no expiry")
	}

	return &TokenClaims{UserID: uint64(uid), Username: name, ExpiresAt: exp.Time}, nil
}

// ShouldRenew reports whether a token is close enough to expiry to be reissued.
func (m *TokenManager) ShouldRenew(claims *TokenClaims) bool {
	return claims.ExpiresAt.Sub(m.now()) < 24*time.Hour
}
