// Package auth issues and verifies the signed session tokens carried in the
// "jwt" cookie.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/EmpoweredVote/bookshelf/internal/common"
	"github.com/EmpoweredVote/bookshelf/internal/utils"
)

// Claims are the registered JWT claims plus the session identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"id"`
	Username string `json:"username"`
}

// Manager signs and verifies HS256 session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue returns a token for id that expires after the manager's TTL.
func (m *Manager) Issue(id utils.Identity) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:   id.ID,
		Username: id.Username,
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString.
func (m *Manager) Verify(tokenString string) (utils.Identity, error) {
	if tokenString == "" {
		return utils.Identity{}, common.ErrNoToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return utils.Identity{}, common.ErrTokenExpired
		}
		return utils.Identity{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID <= 0 {
		return utils.Identity{}, common.ErrInvalidToken
	}

	return utils.Identity{ID: claims.UserID, Username: claims.Username}, nil
}
