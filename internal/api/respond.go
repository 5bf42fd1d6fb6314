package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"tokoponsel/m/internal/store"
)

// listEnvelope is the shape every list endpoint responds with.
type listEnvelope struct {
	OK       bool `json:"ok"`
	Data     any  `json:"data"`
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	Total    int  `json:"total"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondList(w http.ResponseWriter, data any, f store.Filter, total int) {
	f = f.Normalize()
	respondJSON(w, http.StatusOK, listEnvelope{OK: true, Data: data, Page: f.Page, PageSize: f.PageSize, Total: total})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"ok": false, "error": message})
}

// respondDomainError maps store/validator errors onto the HTTP taxonomy:
// 400 validation and unknown sale references, 404 missing ids, 409 state
// guards, 500 everything else with the store message passed through.
func respondDomainError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		respondError(w, http.StatusBadRequest, validationMessage(verrs))
	case errors.Is(err, store.ErrReferenceNotFound):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrUnitNotReady), errors.Is(err, store.ErrInsufficientStock):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// validationMessage flattens validator errors into one human-readable line.
func validationMessage(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "oneof":
			parts = append(parts, field+" must be one of "+fe.Param())
		case "gt":
			parts = append(parts, field+" must be greater than "+fe.Param())
		case "datetime":
			parts = append(parts, field+" must be a YYYY-MM-DD date")
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

// parseFilter reads the common list parameters off the query string.
func parseFilter(r *http.Request) store.Filter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	return store.Filter{
		Query:    q.Get("q"),
		Status:   q.Get("status"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Page:     page,
		PageSize: pageSize,
	}
}
