package utils

import (
	"errors"
	"fmt"
	"time"

	"rta-backend/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the custom JWT claims of a session token.
type Claims struct {
	UserID       string `json:"userId"`
	Type         string `json:"type"`
	RestaurantID string `json:"restaurantId,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for user and returns it with its session.
func GenerateToken(user *entity.User, secret string, ttl time.Duration) (string, *entity.Session, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Type:   string(user.Type),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if user.RestaurantID != nil {
		claims.RestaurantID = *user.RestaurantID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims.session(), nil
}

// ParseToken verifies the signature and expiry of tokenStr.
func ParseToken(tokenStr, secret string) (*entity.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims.session(), nil
}

func (c *Claims) session() *entity.Session {
	s := &entity.Session{
		TokenID:      c.ID,
		UserID:       c.UserID,
		Type:         entity.UserType(c.Type),
		RestaurantID: c.RestaurantID,
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}
