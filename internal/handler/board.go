package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/netslap-dev/netslap/shared/api"
	"github.com/netslap-dev/netslap/shared/domain"
	mw "github.com/netslap-dev/netslap/shared/middleware"
	"github.com/netslap-dev/netslap/shared/utils"
)

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaims(r)

	var body api.CreateBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board, err := h.boards.Create(domain.BoardCreationData{
		Slug:        body.Slug,
		ShortName:   body.ShortName,
		Name:        body.Name,
		Description: body.Description,
		CreatedBy:   domain.Creator{Id: claims.UserId, Name: claims.Username},
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, board)
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.boards.Get(chi.URLParam(r, "board"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, board)
}

func (h *Handler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.List()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, boards)
}

func (h *Handler) DeactivateBoard(w http.ResponseWriter, r *http.Request) {
	if err := h.boards.Deactivate(chi.URLParam(r, "board")); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
