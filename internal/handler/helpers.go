package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
	mw "github.com/netslap-dev/netslap/shared/middleware"
	"github.com/netslap-dev/netslap/shared/utils"
)

func urlParamInt64(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, internal_errors.BadRequest("Invalid " + name)
	}
	return value, nil
}

// poster resolves the full posting identity of the authenticated user. The
// token only carries the username, the alias and thumbnail come from the
// account record so a fresh alias takes effect immediately.
func (h *Handler) poster(r *http.Request) (domain.Poster, error) {
	claims := mw.GetClaims(r)
	if claims == nil {
		return domain.Poster{}, internal_errors.Unauthorized("Please sign-in")
	}
	user, err := h.auth.Get(claims.UserId)
	if err != nil {
		return domain.Poster{}, err
	}
	if user.Ban.IsBanned {
		return domain.Poster{}, internal_errors.Forbidden("Account is banned")
	}
	return user.PosterIdentity(), nil
}

// decodePost reads a post body from either a plain JSON request or a
// multipart form carrying a "json" field and an optional "media" file.
func decodePost[T any](h *Handler, r *http.Request, body *T) (*domain.Media, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return nil, utils.DecodeValidate(r.Body, body)
	}

	if err := r.ParseMultipartForm(h.cfg.Public.MaxUploadSize + 1<<20); err != nil {
		return nil, internal_errors.BadRequest("Malformed multipart form")
	}
	payload := r.FormValue("json")
	if payload == "" {
		return nil, internal_errors.BadRequest("Missing json payload")
	}
	if err := utils.DecodeValidate(io.NopCloser(strings.NewReader(payload)), body); err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, internal_errors.BadRequest("Malformed media upload")
	}
	defer file.Close()

	return h.saveUpload(file, header)
}

func (h *Handler) saveUpload(file multipart.File, header *multipart.FileHeader) (*domain.Media, error) {
	return h.uploads.Save(file, header)
}

// boardFilter reads the optional ?board= query into a listing filter value.
func (h *Handler) boardFilter(r *http.Request) (*domain.BoardId, error) {
	slug := r.URL.Query().Get("board")
	if slug == "" {
		return nil, nil
	}
	board, err := h.boards.Get(slug)
	if err != nil {
		return nil, err
	}
	return &board.Id, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
