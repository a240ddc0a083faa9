package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostValidatorThread(t *testing.T) {
	v := NewPostValidator()

	assert.NoError(t, v.Thread("topic", "body", false))
	assert.NoError(t, v.Thread("topic", "", true), "media can stand in for text")

	assert.Error(t, v.Thread("", "body", false))
	assert.Error(t, v.Thread("   ", "body", false))
	assert.Error(t, v.Thread("topic", "", false))
	assert.Error(t, v.Thread(strings.Repeat("x", maxTitleLength+1), "body", false))
	assert.Error(t, v.Thread("topic", strings.Repeat("x", maxThreadTextLength+1), false))

	// limits count runes, not bytes
	assert.NoError(t, v.Thread(strings.Repeat("ы", maxTitleLength), "body", false))
}

func TestPostValidatorReply(t *testing.T) {
	v := NewPostValidator()

	assert.NoError(t, v.Reply("body", false))
	assert.NoError(t, v.Reply("", true))

	assert.Error(t, v.Reply("", false))
	assert.Error(t, v.Reply("  ", false))
	assert.Error(t, v.Reply(strings.Repeat("x", maxReplyTextLength+1), false))
	assert.NoError(t, v.Reply(strings.Repeat("ы", maxReplyTextLength), false))
}
