package handler

import (
	"net/http"

	mw "github.com/netslap-dev/netslap/shared/middleware"
	"github.com/netslap-dev/netslap/shared/utils"
)

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r)
	notifications, err := h.notifications.List(claims.UserId, queryInt(r, "limit", 0))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, notifications)
}

func (h *Handler) MarkNotificationsSeen(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r)
	if err := h.notifications.MarkSeen(claims.UserId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
