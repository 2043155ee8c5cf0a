package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/feedbox/pkg/feedback"
	"github.com/doodlesbykumbi/feedbox/pkg/identity"
	"github.com/doodlesbykumbi/feedbox/pkg/log"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

// Response is the envelope of every API response.
type Response struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    any                     `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// ListResponse is the data of a paginated listing.
type ListResponse[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

const genericNotFound = "resource not found"

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, Response{Success: false, Message: message})
}

func respondWithData(w http.ResponseWriter, code int, message string, data any) {
	respondWithJSON(w, code, Response{Success: true, Message: message, Data: data})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithServiceError maps the feedback error taxonomy onto a response.
// Missing and foreign targets share one status and message so that callers
// cannot probe for ids they don't own.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *feedback.ValidationError
	var terr *feedback.TransientError

	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "validation failed",
			Errors:  verr.Fields,
		})
	case errors.Is(err, feedback.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, feedback.ErrForbidden), errors.Is(err, feedback.ErrNotFound):
		respondWithError(w, http.StatusNotFound, genericNotFound)
	case errors.Is(err, feedback.ErrConflict):
		respondWithError(w, http.StatusConflict, "already exists")
	case errors.As(err, &terr):
		log.WithError(err).WithField("path", r.URL.Path).Warn("storage unavailable")
		respondWithError(w, http.StatusServiceUnavailable, "service temporarily unavailable, please retry")
	default:
		log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON body of at most maxBytes into dst. Failures are
// reported as validation errors against the "body" field.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return bodyError(validation.Required, "request body is required")
		case errors.As(err, &maxErr):
			return bodyError(validation.TooLong, fmt.Sprintf("request body can't be more than %d bytes", maxErr.Limit))
		default:
			return bodyError(validation.InvalidFormat, "request body is not valid JSON: "+err.Error())
		}
	}
	if dec.More() {
		return bodyError(validation.InvalidFormat, "request body must hold a single JSON object")
	}
	return nil
}

func bodyError(kind validation.Kind, message string) error {
	return &feedback.ValidationError{Fields: validation.Errors{{Field: "body", Kind: kind, Message: message}}}
}

// pageFromQuery reads the limit and offset query parameters. A limit that is
// given must be at least 1; larger values than allowed are clamped later.
func pageFromQuery(r *http.Request) (validation.Page, error) {
	var page validation.Page
	var errs validation.Errors
	q := r.URL.Query()

	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &page.Limit}, {"offset", &page.Offset}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, validation.FieldError{Field: p.name, Kind: validation.InvalidFormat, Message: p.name + " must be an integer"})
			continue
		}
		if p.name == "limit" && n < 1 {
			errs = append(errs, validation.FieldError{Field: "limit", Kind: validation.OutOfRange, Message: "limit must be at least 1"})
			continue
		}
		*p.dst = n
	}
	if len(errs) > 0 {
		return page, &feedback.ValidationError{Fields: errs}
	}
	return page, nil
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (uuid.UUID, error) {
	return feedback.ParseID("id", mux.Vars(r)["id"])
}

// queryID parses a required identifier from the query string.
func queryID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return uuid.Nil, &feedback.ValidationError{Fields: validation.Errors{{
			Field: name, Kind: validation.Required, Message: name + " is required",
		}}}
	}
	return feedback.ParseID(name, raw)
}

// caller returns the authenticated identity set by the auth middleware.
func caller(r *http.Request) *identity.Identity {
	id, ok := identity.Get(r.Context())
	if !ok {
		return &identity.Identity{}
	}
	return id
}

func clientIP(r *http.Request) string {
	if ip := identity.ClientIP(r); ip != nil {
		return ip.String()
	}
	return ""
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
