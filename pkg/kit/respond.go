package kit

import (
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Error is a failure the client should see. Handlers return it and Handle
// renders it.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func NewError(status int, code, msg string) *Error {
	return &Error{Status: status, Code: code, Message: msg}
}

// With returns a copy of e carrying one more detail.
func (e *Error) With(key string, v any) *Error {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, dv := range e.Details {
		cp.Details[k] = dv
	}
	cp.Details[key] = v
	return &cp
}

var errInternal = NewError(http.StatusInternalServerError, "internal", "internal error")

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Error     string         `json:"error"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// WriteJSON encodes before writing the header so a value that cannot be
// encoded becomes a 500 instead of a truncated body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Code: errInternal.Code, Error: "encode response"})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// WriteError renders err as an ErrorResponse. Errors other than *Error are
// reported as internal without their text.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = errInternal
	}
	WriteJSON(w, e.Status, ErrorResponse{
		Code:      e.Code,
		Error:     e.Message,
		Details:   e.Details,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

// HandlerFunc is an http handler that reports failure by returning it.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to http.HandlerFunc. Client errors are logged at debug,
// anything else at error.
func Handle(log *zap.Logger, fn HandlerFunc) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		var e *Error
		if errors.As(err, &e) && e.Status < http.StatusInternalServerError {
			log.Debug("request rejected",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("code", e.Code),
			)
		} else {
			log.Error("request failed",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
		}
		WriteError(w, r, err)
	}
}
