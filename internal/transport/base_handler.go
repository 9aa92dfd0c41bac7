package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	errs "github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// Envelope is the success body shared by every endpoint. Payload keys sit
// next to the success flag.
type Envelope map[string]interface{}

// FailureEnvelope is the body of every failed request.
type FailureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess writes a 200 envelope with success set to true.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, body Envelope) {
	if body == nil {
		body = Envelope{}
	}
	body["success"] = true
	h.WriteJSON(w, http.StatusOK, body)
}

// WriteFailure maps err onto the failure envelope. Errors that are not
// AppErrors become 500s carrying message.
func (h *BaseHandler) WriteFailure(w http.ResponseWriter, err error, message string) {
	appErr := errs.AsAppError(err, message)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "status", status, "code", appErr.Code, "error", err)
	} else {
		h.Logger.Warn("request rejected", "status", status, "code", appErr.Code, "error", err)
	}

	h.WriteJSON(w, status, FailureEnvelope{
		Success: false,
		Error:   appErr.Message,
		Details: appErr.GetDetailedMessage(),
	})
}

// DecodeJSON reads the request body into dst, reporting malformed input as a
// validation failure.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.ErrInvalidBody.WithCause(err)
	}
	return nil
}

// QueryInt reads an integer query parameter, using def when it is absent.
func (h *BaseHandler) QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValidationFieldError(name, name+" must be an integer", errs.ErrCodeInvalidParameter)
	}
	return v, nil
}

// QueryBool reads a boolean query parameter, using def when it is absent.
func (h *BaseHandler) QueryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.NewValidationFieldError(name, name+" must be a boolean", errs.ErrCodeInvalidParameter)
	}
	return v, nil
}

// OwnerID returns the caller-supplied userId query parameter.
func (h *BaseHandler) OwnerID(r *http.Request) string {
	if id := strings.TrimSpace(r.URL.Query().Get("userId")); id != "" {
		return id
	}
	return errs.OwnerIDFromContext(r.Context())
}
