package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/netslap-dev/netslap/shared/api"
	"github.com/netslap-dev/netslap/shared/domain"
	mwmetrics "github.com/netslap-dev/netslap/shared/middleware/metrics"
	"github.com/netslap-dev/netslap/shared/utils"
)

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	poster, err := h.poster(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	board, err := h.boards.Get(chi.URLParam(r, "board"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.CreateThreadRequest
	media, err := decodePost(h, r, &body)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	thread, err := h.threads.Create(domain.ThreadCreationData{
		Board:  board.Id,
		Poster: poster,
		Title:  h.text.Clean(body.Title),
		Text:   h.text.Clean(body.Text),
		Media:  media,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, thread)
}

// GetThread returns the thread with its full reply tree. ?render=html swaps
// raw bodies for sanitized HTML; ?subs= caps loaded sub-replies per reply.
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	threadId, err := urlParamInt64(r, "thread")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	thread, err := h.threads.Get(threadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	replies, err := h.replies.List(threadId, queryInt(r, "subs", -1))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if r.URL.Query().Get("render") == "html" {
		thread.Text = h.text.Render(thread.Id, thread.Text)
		for i := range replies {
			replies[i].Text = h.text.Render(thread.Id, replies[i].Text)
			for j := range replies[i].SubReplies {
				replies[i].SubReplies[j].Text = h.text.Render(thread.Id, replies[i].SubReplies[j].Text)
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, api.ThreadResponse{Thread: thread, Replies: replies})
}

func (h *Handler) GetDeadThread(w http.ResponseWriter, r *http.Request) {
	threadId, err := urlParamInt64(r, "thread")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	thread, err := h.threads.GetDead(threadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, thread)
}

func (h *Handler) KillThread(w http.ResponseWriter, r *http.Request) {
	threadId, err := urlParamInt64(r, "thread")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	thread, err := h.threads.Kill(threadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	mwmetrics.ThreadKilled()
	h.notifications.Notify(thread.Poster.Id,
		"Thread removed",
		fmt.Sprintf("Your thread '%s' was removed by moderation", thread.Title),
		fmt.Sprintf("/threads/dead/%d", thread.Id))
	utils.WriteJSON(w, http.StatusOK, thread)
}

func (h *Handler) ListHotThreads(w http.ResponseWriter, r *http.Request) {
	h.listThreads(w, r, h.threads.ListHot)
}

func (h *Handler) ListNewThreads(w http.ResponseWriter, r *http.Request) {
	h.listThreads(w, r, h.threads.ListNew)
}

func (h *Handler) ListDeadThreads(w http.ResponseWriter, r *http.Request) {
	h.listThreads(w, r, h.threads.ListDead)
}

// TopThreads is the cross-board front page: the handful of hottest threads
// everywhere.
func (h *Handler) TopThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.threads.ListHot(nil, h.cfg.Public.CremeOfTheTopMax)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.ThreadListResponse{Threads: threads})
}

func (h *Handler) listThreads(w http.ResponseWriter, r *http.Request, list func(*domain.BoardId, int) ([]domain.ThreadSummary, error)) {
	board, err := h.boardFilter(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	threads, err := list(board, queryInt(r, "limit", 0))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.ThreadListResponse{Threads: threads})
}
