package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cinerate/cinerate/internal/apperr"
)

const maxRequestBody = 1 << 20 // 1 MiB

// errorResponse is the uniform envelope rendered for every non-2xx outcome.
type errorResponse struct {
	Timestamp        time.Time           `json:"timestamp"`
	Status           int                 `json:"status"`
	Error            string              `json:"error"`
	Message          string              `json:"message"`
	Path             string              `json:"path"`
	ValidationErrors []apperr.FieldError `json:"validationErrors,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error("encode response", zap.Error(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.respondValidationError(w, r, status, message, nil)
}

func (s *Server) respondValidationError(w http.ResponseWriter, r *http.Request, status int, message string, fields []apperr.FieldError) {
	s.respondJSON(w, status, errorResponse{
		Timestamp:        time.Now().UTC(),
		Status:           status,
		Error:            http.StatusText(status),
		Message:          message,
		Path:             r.URL.Path,
		ValidationErrors: fields,
	})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Unclassified errors become an opaque 500; detail goes to the log only.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		s.respondError(w, r, http.StatusNotFound, err.Error())
	case apperr.KindConflict:
		s.respondError(w, r, http.StatusConflict, err.Error())
	case apperr.KindValidation:
		s.respondValidationError(w, r, http.StatusBadRequest, err.Error(), apperr.FieldsOf(err))
	case apperr.KindUnauthorized:
		s.respondError(w, r, http.StatusUnauthorized, err.Error())
	case apperr.KindForbidden:
		s.respondError(w, r, http.StatusForbidden, err.Error())
	default:
		s.logger.Error("unhandled service error", zap.String("path", r.URL.Path), zap.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, r, http.StatusBadRequest, "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, r, http.StatusBadRequest, "Request body cannot be empty")
	default:
		s.respondError(w, r, http.StatusBadRequest, "Unable to parse request body")
	}
}
