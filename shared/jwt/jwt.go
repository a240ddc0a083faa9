package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

// Claims is the authenticated identity carried in the session token.
// Privileges are embedded so handlers can gate moderation routes without a
// user lookup; a privilege grant takes effect on the next login.
type Claims struct {
	UserId     domain.UserId `json:"uid"`
	Username   string        `json:"username"`
	Alias      string        `json:"alias,omitempty"`
	Privileges []string      `json:"privileges,omitempty"`
	IsSuper    bool          `json:"is_super,omitempty"`
	jwt.RegisteredClaims
}

func NewToken(user domain.User, secret string, duration time.Duration) (string, error) {
	claims := Claims{
		UserId:     user.Id,
		Username:   user.Username,
		Alias:      user.Alias.Handle,
		Privileges: user.Privileges,
		IsSuper:    user.IsSuper,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, internal_errors.Unauthorized("Invalid or expired token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, internal_errors.Unauthorized("Invalid token claims")
	}
	return claims, nil
}
