package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

const userColumns = `
    id, username, password_hash, phone_number,
    alias_handle, alias_anon_id, alias_changed,
    profile_thumbnail, bio, priviledges,
    new_notifications, new_requests, is_super,
    is_banned, banned_by, banned_until,
    last_log, signedup_at`

func (s *Storage) CreateUser(creationData domain.UserCreationData) (domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(`
        INSERT INTO users (username, password_hash, phone_number, priviledges)
        VALUES ($1, $2, $3, $4)
        RETURNING id, signedup_at
    `, creationData.Username, creationData.PasswordHash, creationData.PhoneNumber,
		pq.StringArray(creationData.Privileges),
	).Scan(&user.Id, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.User{}, internal_errors.Conflict("Username or phone number already exists")
		}
		return domain.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	user.Username = creationData.Username
	user.PasswordHash = creationData.PasswordHash
	user.PhoneNumber = creationData.PhoneNumber
	user.Privileges = creationData.Privileges
	return user, nil
}

func (s *Storage) GetUser(id domain.UserId) (domain.User, error) {
	return s.scanUser(s.db.QueryRow("SELECT"+userColumns+" FROM users WHERE id = $1", id))
}

func (s *Storage) GetUserByUsername(username domain.Username) (domain.User, error) {
	return s.scanUser(s.db.QueryRow("SELECT"+userColumns+" FROM users WHERE username = $1", username))
}

func (s *Storage) scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var aliasChanged, bannedUntil, lastLog sql.NullTime
	var bannedBy sql.NullInt64
	err := row.Scan(
		&u.Id, &u.Username, &u.PasswordHash, &u.PhoneNumber,
		&u.Alias.Handle, &u.Alias.AnonId, &aliasChanged,
		&u.ProfileThumbnail, &u.Bio, &u.Privileges,
		&u.NewNotifications, &u.NewRequests, &u.IsSuper,
		&u.Ban.IsBanned, &bannedBy, &bannedUntil,
		&lastLog, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to fetch user: %w", err)
	}
	if aliasChanged.Valid {
		u.Alias.Changed = &aliasChanged.Time
	}
	if bannedBy.Valid {
		u.Ban.BannedBy = &bannedBy.Int64
	}
	if bannedUntil.Valid {
		u.Ban.BannedUntil = &bannedUntil.Time
	}
	if lastLog.Valid {
		u.LastLogin = &lastLog.Time
	}
	return u, nil
}

// SetAlias records the new handle and the change instant used for
// rate-limiting further changes.
func (s *Storage) SetAlias(id domain.UserId, handle, anonId string, changed time.Time) error {
	result, err := s.db.Exec(`
        UPDATE users SET alias_handle = $2, alias_anon_id = $3, alias_changed = $4 WHERE id = $1
    `, id, handle, anonId, changed)
	if err != nil {
		return fmt.Errorf("failed to set alias: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read alias update result: %w", err)
	}
	if affected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

func (s *Storage) TouchLastLogin(id domain.UserId, at time.Time) error {
	_, err := s.db.Exec("UPDATE users SET last_log = $2 WHERE id = $1", id, at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// BanUser sets the ban flag with an optional expiry.
func (s *Storage) BanUser(id domain.UserId, by domain.UserId, until *time.Time) error {
	result, err := s.db.Exec(`
        UPDATE users SET is_banned = TRUE, banned_by = $2, banned_until = $3 WHERE id = $1
    `, id, by, until)
	if err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read ban result: %w", err)
	}
	if affected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

func (s *Storage) UnbanUser(id domain.UserId) error {
	result, err := s.db.Exec(`
        UPDATE users SET is_banned = FALSE, banned_by = NULL, banned_until = NULL WHERE id = $1
    `, id)
	if err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read unban result: %w", err)
	}
	if affected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}
