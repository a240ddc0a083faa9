package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netslap-dev/netslap/shared/domain"
	internal_jwt "github.com/netslap-dev/netslap/shared/jwt"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, user domain.User) string {
	t.Helper()
	token, err := internal_jwt.NewToken(user, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func claimsEcho(t *testing.T, captured **internal_jwt.Claims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetClaims(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestNeedAuth(t *testing.T) {
	a := NewAuth(testSecret)
	token := signedToken(t, domain.User{Id: 42, Username: "poster"})

	t.Run("cookie token", func(t *testing.T) {
		var claims *internal_jwt.Claims
		handler := a.NeedAuth()(claimsEcho(t, &claims))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, claims)
		assert.Equal(t, int64(42), claims.UserId)
	})

	t.Run("bearer token", func(t *testing.T) {
		var claims *internal_jwt.Claims
		handler := a.NeedAuth()(claimsEcho(t, &claims))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, claims)
	})

	t.Run("no token", func(t *testing.T) {
		var claims *internal_jwt.Claims
		handler := a.NeedAuth()(claimsEcho(t, &claims))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, claims)
	})

	t.Run("tampered token", func(t *testing.T) {
		var claims *internal_jwt.Claims
		handler := a.NeedAuth()(claimsEcho(t, &claims))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token + "x"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestNeedPrivileges(t *testing.T) {
	a := NewAuth(testSecret)

	serve := func(t *testing.T, user domain.User, required ...string) *httptest.ResponseRecorder {
		t.Helper()
		var claims *internal_jwt.Claims
		handler := a.NeedPrivileges(required...)(claimsEcho(t, &claims))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: signedToken(t, user)})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	t.Run("privilege present", func(t *testing.T) {
		user := domain.User{Id: 1, Privileges: domain.Privileges{domain.PrivBanUser}}
		assert.Equal(t, http.StatusOK, serve(t, user, domain.PrivBanUser).Code)
	})

	t.Run("privilege missing", func(t *testing.T) {
		user := domain.User{Id: 1, Privileges: domain.Privileges{domain.PrivCanPost}}
		assert.Equal(t, http.StatusForbidden, serve(t, user, domain.PrivBanUser).Code)
	})

	t.Run("super bypasses the check", func(t *testing.T) {
		user := domain.User{Id: 1, IsSuper: true}
		assert.Equal(t, http.StatusOK, serve(t, user, domain.PrivBanUser).Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		var claims *internal_jwt.Claims
		handler := a.NeedPrivileges(domain.PrivBanUser)(claimsEcho(t, &claims))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	a := NewAuth(testSecret)

	t.Run("valid token populates claims", func(t *testing.T) {
		var claims *internal_jwt.Claims
		handler := a.OptionalAuth()(claimsEcho(t, &claims))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: signedToken(t, domain.User{Id: 42})})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, claims)
		assert.Equal(t, int64(42), claims.UserId)
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		var claims *internal_jwt.Claims
		handler := a.OptionalAuth()(claimsEcho(t, &claims))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, claims)
	})

	t.Run("bad token is ignored", func(t *testing.T) {
		var claims *internal_jwt.Claims
		handler := a.OptionalAuth()(claimsEcho(t, &claims))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "garbage"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, claims)
	})
}
