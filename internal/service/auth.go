package service

import (
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/netslap-dev/netslap/shared/config"
	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
	"github.com/netslap-dev/netslap/shared/jwt"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,24}$`)

const minPasswordLength = 8

// defaultPrivileges is what a fresh account can do. Moderation privileges
// are granted separately.
var defaultPrivileges = domain.Privileges{domain.PrivCanPost, domain.PrivCanReply}

type AuthService interface {
	Register(username, password, phoneNumber string) (domain.User, error)
	Login(username, password string) (domain.User, string, error)
	Get(id domain.UserId) (domain.User, error)
	SetAlias(id domain.UserId, handle string) error
	Ban(id, by domain.UserId, until *time.Time) error
	Unban(id domain.UserId) error
}

type UserStorage interface {
	CreateUser(creationData domain.UserCreationData) (domain.User, error)
	GetUser(id domain.UserId) (domain.User, error)
	GetUserByUsername(username domain.Username) (domain.User, error)
	SetAlias(id domain.UserId, handle, anonId string, changed time.Time) error
	TouchLastLogin(id domain.UserId, at time.Time) error
	BanUser(id domain.UserId, by domain.UserId, until *time.Time) error
	UnbanUser(id domain.UserId) error
}

type Auth struct {
	storage UserStorage
	cfg     *config.Config
}

func NewAuth(storage UserStorage, cfg *config.Config) *Auth {
	return &Auth{storage, cfg}
}

func (a *Auth) Register(username, password, phoneNumber string) (domain.User, error) {
	if !usernamePattern.MatchString(username) {
		return domain.User{}, internal_errors.BadRequest("Username must be 3-24 letters, digits or underscores")
	}
	if len(password) < minPasswordLength {
		return domain.User{}, internal_errors.BadRequest("Password is too short")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, internal_errors.BadRequest("Password can't be hashed")
	}

	return a.storage.CreateUser(domain.UserCreationData{
		Username:     username,
		PasswordHash: string(hash),
		PhoneNumber:  phoneNumber,
		Privileges:   defaultPrivileges,
	})
}

// Login verifies credentials and issues a session token. Not-found and
// wrong-password collapse into the same answer so usernames can't be probed.
func (a *Auth) Login(username, password string) (domain.User, string, error) {
	user, err := a.storage.GetUserByUsername(username)
	if err != nil {
		return domain.User{}, "", internal_errors.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", internal_errors.Unauthorized("Invalid credentials")
	}
	if user.Ban.IsBanned && (user.Ban.BannedUntil == nil || user.Ban.BannedUntil.After(time.Now())) {
		return domain.User{}, "", internal_errors.Forbidden("Account is banned")
	}

	token, err := jwt.NewToken(user, a.cfg.JwtKey(), a.cfg.JwtTTL())
	if err != nil {
		return domain.User{}, "", internal_errors.Unauthorized("Can't issue token")
	}

	if err := a.storage.TouchLastLogin(user.Id, time.Now()); err != nil {
		slog.Warn("failed to record last login", "user", user.Id, "error", err)
	}
	return user, token, nil
}

func (a *Auth) Get(id domain.UserId) (domain.User, error) {
	return a.storage.GetUser(id)
}

// SetAlias changes the anonymous handle. Rate-limited: one change per
// configured window. The anon id rotates with the handle so old anonymous
// posts stop correlating with the new identity.
func (a *Auth) SetAlias(id domain.UserId, handle string) error {
	if handle != "" && !usernamePattern.MatchString(handle) {
		return internal_errors.BadRequest("Alias must be 3-24 letters, digits or underscores")
	}

	user, err := a.storage.GetUser(id)
	if err != nil {
		return err
	}
	window := time.Duration(a.cfg.Public.AliasChangeRateHours) * time.Hour
	if user.Alias.Changed != nil && time.Since(*user.Alias.Changed) < window {
		return internal_errors.Conflict("Alias was changed too recently")
	}

	return a.storage.SetAlias(id, handle, uuid.NewString(), time.Now())
}

func (a *Auth) Ban(id, by domain.UserId, until *time.Time) error {
	return a.storage.BanUser(id, by, until)
}

func (a *Auth) Unban(id domain.UserId) error {
	return a.storage.UnbanUser(id)
}
