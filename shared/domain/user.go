package domain

import "time"

// Alias is the anonymous identity a user can post under. AnonId is stable
// per user so anonymous posts by the same person correlate without exposing
// the account.
type Alias struct {
	Handle  string     `json:"handle,omitempty"`
	AnonId  string     `json:"anon_id,omitempty"`
	Changed *time.Time `json:"changed,omitempty"`
}

type Ban struct {
	IsBanned    bool       `json:"is_banned"`
	BannedBy    *UserId    `json:"banned_by,omitempty"`
	BannedUntil *time.Time `json:"banned_until,omitempty"`
}

type User struct {
	Id               UserId     `json:"id"`
	Username         Username   `json:"username"`
	PasswordHash     string     `json:"-"`
	Alias            Alias      `json:"alias"`
	ProfileThumbnail string     `json:"profile_thumbnail"`
	Bio              string     `json:"bio,omitempty"`
	PhoneNumber      string     `json:"-"`
	Privileges       Privileges `json:"priviledges"`
	NewNotifications int        `json:"new_notifications"`
	NewRequests      int        `json:"new_requests"`
	IsSuper          bool       `json:"is_super"`
	Ban              Ban        `json:"banned"`
	LastLogin        *time.Time `json:"last_log,omitempty"`
	CreatedAt        time.Time  `json:"signedup_at"`
}

type UserCreationData struct {
	Username     Username
	PasswordHash string
	PhoneNumber  string
	Privileges   Privileges
}

// PosterIdentity returns the snapshot to embed in posts: the alias when one
// is set, the account identity otherwise. Original behavior: aliased posts
// always show the "anon" placeholder thumbnail.
func (u *User) PosterIdentity() Poster {
	if u.Alias.Handle != "" {
		return Poster{
			Id:        u.Id,
			Name:      u.Alias.Handle,
			Thumbnail: "anon",
			Anon:      true,
		}
	}
	return Poster{
		Id:        u.Id,
		Name:      u.Username,
		Thumbnail: u.ProfileThumbnail,
		Anon:      false,
	}
}
