package handler

import (
	"net/http"

	"github.com/netslap-dev/netslap/shared/api"
	"github.com/netslap-dev/netslap/shared/domain"
	mw "github.com/netslap-dev/netslap/shared/middleware"
	"github.com/netslap-dev/netslap/shared/utils"
)

func (h *Handler) CreateIssue(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r)

	var body api.CreateIssueRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	issue, err := h.issues.Create(domain.IssueCreationData{
		ByUser:      domain.Creator{Id: claims.UserId, Name: claims.Username},
		Category:    body.Category,
		Problem:     h.text.Clean(body.Problem),
		Board:       body.Board,
		ReportedURL: body.ReportedURL,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, issue)
}

func (h *Handler) ListUnsolvedIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.issues.ListUnsolved()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, issues)
}

func (h *Handler) SolveIssue(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r)
	issueId, err := urlParamInt64(r, "issue")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.SolveIssueRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.issues.Solve(issueId, domain.Creator{Id: claims.UserId, Name: claims.Username}, body.Details); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
