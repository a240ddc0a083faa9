package middleware

import (
	"fmt"
	"net/http"

	"github.com/netslap-dev/netslap/shared/middleware/ratelimiter"
	"github.com/netslap-dev/netslap/shared/utils"
)

// RateLimit applies a token bucket per identity. Super accounts bypass the
// limit so moderation sweeps are never throttled.
func RateLimit(rl *ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims := GetClaims(r); claims != nil && claims.IsSuper {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromSession keys the bucket on the authenticated user, falling back
// to the client IP for anonymous requests.
func IdentityFromSession(r *http.Request) (string, error) {
	if claims := GetClaims(r); claims != nil {
		return fmt.Sprintf("user_%d", claims.UserId), nil
	}
	return utils.GetIP(r)
}
