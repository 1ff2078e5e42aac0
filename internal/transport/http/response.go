package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind onto its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrDomainValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError never leaks the text of unclassified errors
func writeError(w http.ResponseWriter, logger hclog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Unexpected error", "error", err)
		writeJSON(w, status, ErrorResponse{Message: "An unexpected error occurred"})
		return
	}
	writeJSON(w, status, ErrorResponse{Message: err.Error(), Details: domain.Details(err)})
}

// decodeBody reads a JSON body into dst and runs the struct validator.
// It writes the error response itself and reports whether to continue.
func decodeBody(w http.ResponseWriter, r *http.Request, m *Middleware, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		m.Logger.Debug("Unable to decode request body", "path", r.URL.Path, "error", err)
		writeError(w, m.Logger, domain.InvalidArgument("Malformed JSON request body"))
		return false
	}
	return validate(w, m, dst)
}

func validate(w http.ResponseWriter, m *Middleware, v any) bool {
	if errs := m.Validator.Validate(v); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationError{Messages: errs.Messages()})
		return false
	}
	return true
}

// pageParams reads page and size with defaults 0 and 10
func pageParams(r *http.Request) (domain.PageRequest, error) {
	page, err := intParam(r, "page", 0)
	if err != nil {
		return domain.PageRequest{}, err
	}
	size, err := intParam(r, "size", 10)
	if err != nil {
		return domain.PageRequest{}, err
	}
	return domain.NewPageRequest(page, size)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InvalidArgument("Invalid value for %s: %s", name, raw)
	}
	return v, nil
}

func idParam(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.InvalidArgument("Invalid %s: %s", name, raw)
	}
	return id, nil
}
