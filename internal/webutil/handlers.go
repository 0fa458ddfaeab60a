package webutil

import (
	"errors"
	"net/http"

	"github.com/EmpoweredVote/bookshelf/internal/common"
	"github.com/EmpoweredVote/bookshelf/internal/logging"
)

// AppHandler is a handler that reports failures by returning an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

type headerTracker struct {
	http.ResponseWriter
	wrote bool
}

func (t *headerTracker) WriteHeader(code int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *headerTracker) Write(b []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(b)
}

// MakeHandler adapts an AppHandler to http.HandlerFunc. Returned errors are
// mapped to a status code and a JSON body {"error": message}; server-side
// failures are logged and never leak their cause to the client.
func MakeHandler(log logging.Logger, handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tw := &headerTracker{ResponseWriter: w}
		err := handler(tw, r)
		if err == nil {
			return
		}

		code, msg := Classify(err)
		ctx := r.Context()
		attrs := []any{"code", code, "msg", msg, "path", r.URL.Path, "method", r.Method}
		if code >= http.StatusInternalServerError {
			log.Error(ctx, "request failed", append(attrs, "error", err)...)
		} else if cause := errors.Unwrap(err); cause != nil && cause.Error() != msg {
			log.Warn(ctx, "client error response", append(attrs, "cause", cause)...)
		} else {
			log.Warn(ctx, "client error response", attrs...)
		}

		if tw.wrote {
			log.Warn(ctx, "handler returned error after writing response", "path", r.URL.Path, "error", err)
			return
		}
		RespondWithError(w, code, msg)
	}
}

// Classify maps an error onto the API's status codes and public messages.
func Classify(err error) (int, string) {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "Missing required fields"
	case errors.Is(err, common.ErrorConflict), errors.Is(err, common.ErrorForeignKey):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrNoToken):
		return http.StatusUnauthorized, "No token provided"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, msgForbidden
	default:
		return http.StatusInternalServerError, msgInternalServer
	}
}
