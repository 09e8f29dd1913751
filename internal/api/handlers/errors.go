package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse is the body of calls that only confirm an action
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// writeError maps domain errors to a status code and detail message.
// Anything unrecognized is logged and reported as a 500 with internal.
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error, notFound, internal string) {
	switch {
	case errors.Is(err, models.ErrDuplicate):
		writeDetail(w, http.StatusBadRequest, "Item already in your list")
	case errors.Is(err, models.ErrEmptyQuery):
		writeDetail(w, http.StatusBadRequest, "Search query cannot be empty")
	case errors.Is(err, models.ErrInvalidMediaType):
		writeDetail(w, http.StatusBadRequest, "Media type must be one of: "+mediaTypeList())
	case errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, models.ErrInvalidTheme),
		errors.Is(err, models.ErrMissingMediaID):
		writeDetail(w, http.StatusBadRequest, capitalize(err.Error()))
	case errors.Is(err, models.ErrNotFound):
		writeDetail(w, http.StatusNotFound, notFound)
	default:
		logger.WithError(err).Error(internal)
		writeDetail(w, http.StatusInternalServerError, internal)
	}
}

// decodeBody reads a JSON request body into v, answering 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func mediaTypeList() string {
	names := make([]string, 0, len(models.MediaTypes))
	for _, mt := range models.MediaTypes {
		names = append(names, string(mt))
	}
	return strings.Join(names, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
