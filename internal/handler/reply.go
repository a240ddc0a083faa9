package handler

import (
	"net/http"

	"github.com/netslap-dev/netslap/shared/api"
	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
	mwmetrics "github.com/netslap-dev/netslap/shared/middleware/metrics"
	"github.com/netslap-dev/netslap/shared/utils"
)

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	poster, err := h.poster(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	threadId, err := urlParamInt64(r, "thread")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.CreateReplyRequest
	media, err := decodePost(h, r, &body)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	reply, err := h.replies.Create(domain.ReplyCreationData{
		Thread: threadId,
		Poster: poster,
		Text:   h.text.Clean(body.Text),
		Media:  media,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	mwmetrics.ReplyAccepted()
	utils.WriteJSON(w, http.StatusCreated, reply)
}

func (h *Handler) CreateSubReply(w http.ResponseWriter, r *http.Request) {
	poster, err := h.poster(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	replyId, err := urlParamInt64(r, "reply")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.CreateSubReplyRequest
	media, err := decodePost(h, r, &body)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	// Snapshot the addressee as they present right now.
	target, err := h.auth.Get(body.To)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.BadRequest("Addressee not found"))
		return
	}

	sub, err := h.replies.CreateSub(domain.SubReplyCreationData{
		Reply:  replyId,
		Poster: poster,
		To:     target.PosterIdentity(),
		Text:   h.text.Clean(body.Text),
		Media:  media,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, sub)
}

func (h *Handler) GetReply(w http.ResponseWriter, r *http.Request) {
	replyId, err := urlParamInt64(r, "reply")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	reply, err := h.replies.Get(replyId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reply)
}

func (h *Handler) KillReply(w http.ResponseWriter, r *http.Request) {
	replyId, err := urlParamInt64(r, "reply")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.replies.Kill(replyId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) KillSubReply(w http.ResponseWriter, r *http.Request) {
	subReplyId, err := urlParamInt64(r, "subreply")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.replies.KillSub(subReplyId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
