package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/netslap-dev/netslap/shared/config"
	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

type mockUserStorage struct {
	createUser        func(creationData domain.UserCreationData) (domain.User, error)
	getUser           func(id domain.UserId) (domain.User, error)
	getUserByUsername func(username domain.Username) (domain.User, error)
	setAlias          func(id domain.UserId, handle, anonId string, changed time.Time) error
	touchLastLogin    func(id domain.UserId, at time.Time) error
	banUser           func(id domain.UserId, by domain.UserId, until *time.Time) error
	unbanUser         func(id domain.UserId) error
}

func (m *mockUserStorage) CreateUser(creationData domain.UserCreationData) (domain.User, error) {
	return m.createUser(creationData)
}

func (m *mockUserStorage) GetUser(id domain.UserId) (domain.User, error) {
	return m.getUser(id)
}

func (m *mockUserStorage) GetUserByUsername(username domain.Username) (domain.User, error) {
	return m.getUserByUsername(username)
}

func (m *mockUserStorage) SetAlias(id domain.UserId, handle, anonId string, changed time.Time) error {
	return m.setAlias(id, handle, anonId, changed)
}

func (m *mockUserStorage) TouchLastLogin(id domain.UserId, at time.Time) error {
	return m.touchLastLogin(id, at)
}

func (m *mockUserStorage) BanUser(id domain.UserId, by domain.UserId, until *time.Time) error {
	return m.banUser(id, by, until)
}

func (m *mockUserStorage) UnbanUser(id domain.UserId) error {
	return m.unbanUser(id)
}

func testAuthConfig() *config.Config {
	cfg := config.Default()
	cfg.Private.JwtKey = "test-secret"
	return cfg
}

func TestAuthRegister(t *testing.T) {
	t.Run("hashes the password and grants posting privileges", func(t *testing.T) {
		storage := &mockUserStorage{
			createUser: func(data domain.UserCreationData) (domain.User, error) {
				assert.Equal(t, "fresh_user", data.Username)
				assert.NotEqual(t, "letmein12", data.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(data.PasswordHash), []byte("letmein12")))
				assert.ElementsMatch(t, []string{domain.PrivCanPost, domain.PrivCanReply}, []string(data.Privileges))
				return domain.User{Id: 1, Username: data.Username}, nil
			},
		}
		svc := NewAuth(storage, testAuthConfig())

		user, err := svc.Register("fresh_user", "letmein12", "+10000000")
		require.NoError(t, err)
		assert.Equal(t, domain.UserId(1), user.Id)
	})

	t.Run("rejects malformed usernames and short passwords", func(t *testing.T) {
		storage := &mockUserStorage{
			createUser: func(domain.UserCreationData) (domain.User, error) {
				t.Fatal("storage should not be called")
				return domain.User{}, nil
			},
		}
		svc := NewAuth(storage, testAuthConfig())

		_, err := svc.Register("no spaces here", "letmein12", "")
		assert.Error(t, err)
		_, err = svc.Register("ok_name", "short", "")
		assert.Error(t, err)
	})
}

func TestAuthLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein12"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := domain.User{Id: 1, Username: "fresh_user", PasswordHash: string(hash)}

	t.Run("issues a token and records the login", func(t *testing.T) {
		touched := false
		storage := &mockUserStorage{
			getUserByUsername: func(domain.Username) (domain.User, error) { return stored, nil },
			touchLastLogin: func(id domain.UserId, at time.Time) error {
				touched = true
				return nil
			},
		}
		svc := NewAuth(storage, testAuthConfig())

		user, token, err := svc.Login("fresh_user", "letmein12")
		require.NoError(t, err)
		assert.Equal(t, stored.Id, user.Id)
		assert.NotEmpty(t, token)
		assert.True(t, touched)
	})

	t.Run("unknown user and wrong password give the same answer", func(t *testing.T) {
		missing := &mockUserStorage{
			getUserByUsername: func(domain.Username) (domain.User, error) {
				return domain.User{}, internal_errors.NotFound("User not found")
			},
		}
		svcMissing := NewAuth(missing, testAuthConfig())
		_, _, errMissing := svcMissing.Login("ghost", "letmein12")

		present := &mockUserStorage{
			getUserByUsername: func(domain.Username) (domain.User, error) { return stored, nil },
		}
		svcPresent := NewAuth(present, testAuthConfig())
		_, _, errWrong := svcPresent.Login("fresh_user", "wrong-password")

		require.Error(t, errMissing)
		require.Error(t, errWrong)
		assert.Equal(t, errMissing.Error(), errWrong.Error())
	})

	t.Run("active ban blocks login", func(t *testing.T) {
		until := time.Now().Add(time.Hour)
		banned := stored
		banned.Ban = domain.Ban{IsBanned: true, BannedUntil: &until}
		storage := &mockUserStorage{
			getUserByUsername: func(domain.Username) (domain.User, error) { return banned, nil },
		}
		svc := NewAuth(storage, testAuthConfig())

		_, _, err := svc.Login("fresh_user", "letmein12")
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 403, statusErr.StatusCode)
	})

	t.Run("expired ban no longer blocks login", func(t *testing.T) {
		until := time.Now().Add(-time.Hour)
		wasBanned := stored
		wasBanned.Ban = domain.Ban{IsBanned: true, BannedUntil: &until}
		storage := &mockUserStorage{
			getUserByUsername: func(domain.Username) (domain.User, error) { return wasBanned, nil },
			touchLastLogin:    func(domain.UserId, time.Time) error { return nil },
		}
		svc := NewAuth(storage, testAuthConfig())

		_, _, err := svc.Login("fresh_user", "letmein12")
		assert.NoError(t, err)
	})
}

func TestAuthSetAlias(t *testing.T) {
	t.Run("rotates the anon id with the handle", func(t *testing.T) {
		recent := time.Now().Add(-48 * time.Hour)
		storage := &mockUserStorage{
			getUser: func(domain.UserId) (domain.User, error) {
				return domain.User{Id: 1, Alias: domain.Alias{Handle: "old", AnonId: "old-anon", Changed: &recent}}, nil
			},
			setAlias: func(id domain.UserId, handle, anonId string, changed time.Time) error {
				assert.Equal(t, "new_handle", handle)
				assert.NotEmpty(t, anonId)
				assert.NotEqual(t, "old-anon", anonId)
				return nil
			},
		}
		svc := NewAuth(storage, testAuthConfig())
		assert.NoError(t, svc.SetAlias(1, "new_handle"))
	})

	t.Run("change inside the rate window is rejected", func(t *testing.T) {
		justNow := time.Now().Add(-time.Hour)
		storage := &mockUserStorage{
			getUser: func(domain.UserId) (domain.User, error) {
				return domain.User{Id: 1, Alias: domain.Alias{Handle: "old", Changed: &justNow}}, nil
			},
			setAlias: func(domain.UserId, string, string, time.Time) error {
				t.Fatal("alias should not change")
				return nil
			},
		}
		svc := NewAuth(storage, testAuthConfig())

		err := svc.SetAlias(1, "new_handle")
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 409, statusErr.StatusCode)
	})
}
