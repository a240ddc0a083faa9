package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netslap-dev/netslap/shared/api"
	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

func TestRegisterHandler(t *testing.T) {
	auth := &mockAuthService{
		MockRegister: func(username, password, phoneNumber string) (domain.User, error) {
			if username == "taken" {
				return domain.User{}, internal_errors.Conflict("Username or phone number already exists")
			}
			return domain.User{Id: 1, Username: username}, nil
		},
	}
	h := newTestHandler(auth, nil, nil, nil)

	t.Run("success", func(t *testing.T) {
		body := []byte(`{"username": "fresh", "password": "longenough", "phone_number": "+10000000000"}`)
		rr := httptest.NewRecorder()
		h.Register(rr, createRequest(t, http.MethodPost, "/auth/register", body))

		require.Equal(t, http.StatusCreated, rr.Code)
		var user domain.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
		assert.Equal(t, "fresh", user.Username)
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Register(rr, createRequest(t, http.MethodPost, "/auth/register", []byte(`{"username": "fresh"}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate", func(t *testing.T) {
		body := []byte(`{"username": "taken", "password": "longenough", "phone_number": "+10000000000"}`)
		rr := httptest.NewRecorder()
		h.Register(rr, createRequest(t, http.MethodPost, "/auth/register", body))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	auth := &mockAuthService{
		MockLogin: func(username, password string) (domain.User, string, error) {
			if password != "correct-horse" {
				return domain.User{}, "", internal_errors.Unauthorized("Invalid credentials")
			}
			return domain.User{Id: 1, Username: username}, "signed-token", nil
		},
	}
	h := newTestHandler(auth, nil, nil, nil)

	t.Run("success sets the session cookie", func(t *testing.T) {
		body := []byte(`{"username": "poster", "password": "correct-horse"}`)
		rr := httptest.NewRecorder()
		h.Login(rr, createRequest(t, http.MethodPost, "/auth/login", body))

		require.Equal(t, http.StatusOK, rr.Code)

		var resp api.LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "accessToken", cookies[0].Name)
		assert.Equal(t, "signed-token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("bad credentials", func(t *testing.T) {
		body := []byte(`{"username": "poster", "password": "wrong"}`)
		rr := httptest.NewRecorder()
		h.Login(rr, createRequest(t, http.MethodPost, "/auth/login", body))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	h := newTestHandler(nil, nil, nil, nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, createRequest(t, http.MethodPost, "/auth/logout", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "accessToken", cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0, "logout expires the cookie")
}

func TestSetAliasHandler(t *testing.T) {
	var gotUser domain.UserId
	var gotHandle string
	auth := &mockAuthService{
		MockSetAlias: func(id domain.UserId, handle string) error {
			gotUser, gotHandle = id, handle
			return nil
		},
	}
	h := newTestHandler(auth, nil, nil, nil)

	req := withClaims(createRequest(t, http.MethodPut, "/me/alias", []byte(`{"handle": "shadow"}`)), 42)
	rr := httptest.NewRecorder()
	h.SetAlias(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(42), gotUser)
	assert.Equal(t, "shadow", gotHandle)
}

func TestBanUserHandler(t *testing.T) {
	var gotBy domain.UserId
	auth := &mockAuthService{
		MockBan: func(id, by domain.UserId, until *time.Time) error {
			gotBy = by
			assert.Equal(t, int64(7), id)
			assert.NotNil(t, until)
			return nil
		},
	}
	h := newTestHandler(auth, nil, nil, nil)
	router := chi.NewRouter()
	router.Post("/users/{user}/ban", h.BanUser)

	t.Run("success", func(t *testing.T) {
		body := []byte(`{"until": "2030-01-01T00:00:00Z"}`)
		req := withClaims(createRequest(t, http.MethodPost, "/users/7/ban", body), 42)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(42), gotBy)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		body := []byte(`{"until": "tomorrow"}`)
		req := withClaims(createRequest(t, http.MethodPost, "/users/7/ban", body), 42)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
