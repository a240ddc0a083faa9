package service

import (
	"strings"
	"unicode/utf8"

	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

// Post length limits, in runes. Matching the original deployment; clients
// enforce the same numbers.
const (
	maxTitleLength      = 100
	maxThreadTextLength = 500
	maxReplyTextLength  = 800
)

// PostValidator checks user-authored post content before it reaches storage.
// A post must carry text or media; empty posts are rejected.
type PostValidator struct{}

func NewPostValidator() *PostValidator {
	return &PostValidator{}
}

func (v *PostValidator) Thread(title, text string, hasMedia bool) error {
	if strings.TrimSpace(title) == "" {
		return internal_errors.BadRequest("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return internal_errors.BadRequest("Title is too long")
	}
	if strings.TrimSpace(text) == "" && !hasMedia {
		return internal_errors.BadRequest("Thread needs text or media")
	}
	if utf8.RuneCountInString(text) > maxThreadTextLength {
		return internal_errors.BadRequest("Text is too long")
	}
	return nil
}

func (v *PostValidator) Reply(text string, hasMedia bool) error {
	if strings.TrimSpace(text) == "" && !hasMedia {
		return internal_errors.BadRequest("Reply needs text or media")
	}
	if utf8.RuneCountInString(text) > maxReplyTextLength {
		return internal_errors.BadRequest("Text is too long")
	}
	return nil
}
