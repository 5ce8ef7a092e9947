package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingvo/internal/adapter/mapping"
	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

const maxBodyBytes = 1 << 20

// Page is the envelope of every list response.
type Page[T any] struct {
	Count    int64 `json:"count"`
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
	Results  []T   `json:"results"`
}

func newPage[T any](items []T, total int64, p repository.Pagination) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Count: total, Page: p.PageNo, PageSize: p.PageSize, Results: items}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := mapping.ToHTTPError(err)
	entry := h.logger.WithFields(logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     status,
		"request_id": middleware.GetReqID(r.Context()),
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	writeJSON(w, status, body)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", entity.ErrInvalidArgument)
		}
		return fmt.Errorf("%w: malformed request body: %v", entity.ErrInvalidArgument, err)
	}
	return nil
}

// pathID parses the named URL parameter. Malformed ids cannot name an
// existing row, so they are reported as not found.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, entity.ErrNotFound
	}
	return id, nil
}

// listParams reads search, filter, order_by, page and page_size.
func listParams(r *http.Request) (repository.Pagination, repository.FilterOrder, string, error) {
	q := r.URL.Query()
	var (
		p    repository.Pagination
		errs = validation.Errors{}
	)
	if v := q.Get("page"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 1 {
			errs["page"] = errors.New("must be a positive integer")
		}
		p.PageNo = int32(n)
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 1 {
			errs["page_size"] = errors.New("must be a positive integer")
		}
		p.PageSize = int32(n)
	}
	if len(errs) > 0 {
		return p, repository.FilterOrder{}, "", errs
	}
	fo := repository.FilterOrder{Filter: q.Get("filter"), OrderBy: q.Get("order_by")}
	return p, fo, q.Get("search"), nil
}
