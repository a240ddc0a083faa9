package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/netslap-dev/netslap/shared/domain"
	internal_jwt "github.com/netslap-dev/netslap/shared/jwt"
)

// Key to store the session claims in the request context
type key int

const UserClaimsKey key = 0

type Auth struct {
	secret string
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: secret}
}

// NeedAuth requires a valid session token.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth()
}

// NeedPrivileges requires a valid session carrying every listed privilege.
// Super accounts pass regardless.
func (a *Auth) NeedPrivileges(required ...string) func(http.Handler) http.Handler {
	authMw := a.auth()
	return func(next http.Handler) http.Handler {
		return authMw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r)
			if claims == nil {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			}
			if !claims.IsSuper && !domain.HasPrivileges(claims.Privileges, required...) {
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// OptionalAuth populates the claims when a valid token is present but never
// rejects the request.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, err := a.extractClaims(r); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserClaimsKey, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractClaims reads the token from the session cookie (browser clients) or
// the Authorization header (API clients) and verifies it.
func (a *Auth) extractClaims(r *http.Request) (*internal_jwt.Claims, error) {
	var tokenString string
	if cookie, err := r.Cookie("accessToken"); err == nil {
		tokenString = cookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}
	if tokenString == "" {
		return nil, errNoToken
	}
	return internal_jwt.ParseToken(tokenString, a.secret)
}

var errNoToken = errorString("no token")

type errorString string

func (e errorString) Error() string { return string(e) }

func (a *Auth) auth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.extractClaims(r)
			if err != nil {
				if err == errNoToken {
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
				} else {
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				}
				return
			}
			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the session claims from the request context, nil when
// the request is anonymous.
func GetClaims(r *http.Request) *internal_jwt.Claims {
	claims, ok := r.Context().Value(UserClaimsKey).(*internal_jwt.Claims)
	if !ok {
		return nil
	}
	return claims
}
