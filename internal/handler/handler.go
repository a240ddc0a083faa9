package handler

import (
	"net/http"

	"github.com/netslap-dev/netslap/internal/service"
	"github.com/netslap-dev/netslap/internal/text"
	"github.com/netslap-dev/netslap/internal/upload"
	"github.com/netslap-dev/netslap/shared/config"
)

type Handler struct {
	auth          service.AuthService
	boards        service.BoardService
	threads       service.ThreadService
	replies       service.ReplyService
	notifications service.NotificationService
	requests      service.RequestService
	issues        service.IssueService
	uploads       *upload.Store
	text          *text.Processor
	cfg           *config.Config
}

func New(
	auth service.AuthService,
	boards service.BoardService,
	threads service.ThreadService,
	replies service.ReplyService,
	notifications service.NotificationService,
	requests service.RequestService,
	issues service.IssueService,
	uploads *upload.Store,
	textProcessor *text.Processor,
	cfg *config.Config,
) *Handler {
	return &Handler{auth, boards, threads, replies, notifications, requests, issues, uploads, textProcessor, cfg}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
