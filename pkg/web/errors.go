package web

import (
	"errors"
	"net/http"

	"github.com/aretw0/encyclopedia/pkg/core"
)

var errBadRequest = errors.New("malformed request")

// statusFor maps a service error to the status and message shown to the visitor.
// The boolean reports whether the error is unexpected and worth logging.
func statusFor(err error) (int, string, bool) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "The requested page was not found.", false
	case errors.Is(err, core.ErrEmptyStore):
		return http.StatusNotFound, "The encyclopedia has no entries yet.", false
	case errors.Is(err, core.ErrReadOnly):
		return http.StatusForbidden, "This encyclopedia is read-only.", false
	case errors.Is(err, core.ErrInvalidTitle), errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error(), false
	default:
		return http.StatusInternalServerError, "Something went wrong.", true
	}
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg, unexpected := statusFor(err)
	if unexpected {
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	h.render(w, r, status, "error", ErrorView{Status: status, Message: msg})
}
