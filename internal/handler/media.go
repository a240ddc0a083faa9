package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/netslap-dev/netslap/shared/utils"
)

// ServeMedia streams a stored attachment. Locations are opaque random names,
// the store refuses anything that escapes its directory.
func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	file, err := h.uploads.Open(chi.URLParam(r, "location"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, file); err != nil {
		return
	}
}
