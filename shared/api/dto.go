package api

import "github.com/netslap-dev/netslap/shared/domain"

// Request DTOs

type RegisterRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SetAliasRequest struct {
	Handle string `json:"handle"`
}

type CreateBoardRequest struct {
	Slug        string `json:"slug" validate:"required"`
	ShortName   string `json:"short_name" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

type CreateThreadRequest struct {
	Title string `json:"title" validate:"required"`
	Text  string `json:"text,omitempty"`
}

type CreateReplyRequest struct {
	Text string `json:"text,omitempty"`
}

type CreateSubReplyRequest struct {
	To   domain.UserId `json:"to" validate:"required"`
	Text string        `json:"text,omitempty"`
}

type CreateRequestRequest struct {
	To domain.UserId `json:"to" validate:"required"`
}

type RespondRequestRequest struct {
	Grant bool `json:"grant"`
}

type CreateIssueRequest struct {
	Category    string          `json:"category" validate:"required"`
	Problem     string          `json:"problem" validate:"required"`
	Board       *domain.BoardId `json:"board,omitempty"`
	ReportedURL string          `json:"reported_object_url,omitempty"`
}

type SolveIssueRequest struct {
	Details string `json:"details,omitempty"`
}

type BanUserRequest struct {
	Until string `json:"until,omitempty"` // RFC 3339, empty means indefinite
}

// Response DTOs

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type ThreadListResponse struct {
	Threads []domain.ThreadSummary `json:"threads"`
}

type ThreadResponse struct {
	domain.Thread
	Replies []domain.Reply `json:"replies,omitempty"`
}
