package handler

import (
	"net/http"

	"github.com/netslap-dev/netslap/shared/api"
	"github.com/netslap-dev/netslap/shared/domain"
	mw "github.com/netslap-dev/netslap/shared/middleware"
	"github.com/netslap-dev/netslap/shared/utils"
)

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r)

	var body api.CreateRequestRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	// Requests always show account identities, never aliases.
	target, err := h.auth.Get(body.To)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	me, err := h.auth.Get(claims.UserId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	request, err := h.requests.Create(
		domain.RequestParty{Id: target.Id, Username: target.Username, Thumbnail: target.ProfileThumbnail},
		domain.RequestParty{Id: me.Id, Username: me.Username, Thumbnail: me.ProfileThumbnail},
	)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, request)
}

func (h *Handler) RespondRequest(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r)
	requestId, err := urlParamInt64(r, "request")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.RespondRequestRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	request, err := h.requests.Respond(requestId, claims.UserId, body.Grant)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, request)
}

func (h *Handler) ListIncomingRequests(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r)
	requests, err := h.requests.ListIncoming(claims.UserId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) ListOutgoingRequests(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r)
	requests, err := h.requests.ListOutgoing(claims.UserId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, requests)
}
