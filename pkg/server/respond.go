package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/edgeknife/pkg/errors"
)

// ErrorBody is the error payload of HTTP and live responses.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes err with the status its code maps to. Internal errors
// are logged and their details withheld from the client.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	body := toErrorBody(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "err", err, "request_id", middleware.GetReqID(r.Context()))
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: body})
}

func toErrorBody(err error) ErrorBody {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if errors.HTTPStatus(err) >= http.StatusInternalServerError {
		msg = "internal error"
	}
	return ErrorBody{Code: code, Message: msg}
}
