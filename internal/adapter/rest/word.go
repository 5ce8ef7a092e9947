package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eslsoft/lingvo/internal/adapter/mapping"
	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
	"github.com/eslsoft/lingvo/internal/usecase"
)

func (h *Handler) ListWords(w http.ResponseWriter, r *http.Request) {
	page, fo, search, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	query := &repository.ListWordQuery{
		Pagination:  page,
		FilterOrder: fo,
		AuthorID:    currentUser(r).ID,
		Search:      search,
	}
	if v := r.URL.Query().Get("collection"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: collection must be a uuid", entity.ErrInvalidArgument))
			return
		}
		query.CollectionID = &id
	}
	words, total, err := h.words.List(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(mapping.ToWords(words), total, query.Pagination))
}

func (h *Handler) CreateWord(w http.ResponseWriter, r *http.Request) {
	var in usecase.WordInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	word, created, err := h.words.Create(r.Context(), currentUser(r).ID, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, mapping.ToWordDetail(word))
}

func (h *Handler) GetWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	word, err := h.words.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToWordDetail(word))
}

func (h *Handler) UpdateWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in usecase.WordInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	word, err := h.words.Update(r.Context(), currentUser(r).ID, id, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToWordDetail(word))
}

func (h *Handler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.words.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) FavoriteWord(w http.ResponseWriter, r *http.Request) {
	h.setWordFavorite(w, r, true)
}

func (h *Handler) UnfavoriteWord(w http.ResponseWriter, r *http.Request) {
	h.setWordFavorite(w, r, false)
}

func (h *Handler) setWordFavorite(w http.ResponseWriter, r *http.Request, favorite bool) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.words.SetFavorite(r.Context(), currentUser(r).ID, id, favorite); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListRelated(w http.ResponseWriter, r *http.Request) {
	list, ok := usecase.LookupRelated(chi.URLParam(r, "related"))
	if !ok {
		h.writeError(w, r, entity.ErrNotFound)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	word, err := h.words.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.RelatedList(mapping.ToWordDetail(word), list.Name))
}

// AddRelated appends the posted items to one list of the word. The body is
// either a single item or an array of items of that list.
func (h *Handler) AddRelated(w http.ResponseWriter, r *http.Request) {
	list, ok := usecase.LookupRelated(chi.URLParam(r, "related"))
	if !ok {
		h.writeError(w, r, entity.ErrNotFound)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := decodeRelated(r, list.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	word, err := h.words.AddRelated(r.Context(), currentUser(r).ID, id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapping.RelatedList(mapping.ToWordDetail(word), list.Name))
}

func decodeRelated(r *http.Request, name string) (*usecase.WordInput, error) {
	var raw json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		raw = append(append([]byte{'['}, raw...), ']')
	}
	wrapped, err := json.Marshal(map[string]json.RawMessage{name: raw})
	if err != nil {
		return nil, err
	}
	var in usecase.WordInput
	if err := json.Unmarshal(wrapped, &in); err != nil {
		return nil, fmt.Errorf("%w: malformed %s: %v", entity.ErrInvalidArgument, name, err)
	}
	return &in, nil
}

func (h *Handler) RemoveRelated(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	itemID, err := pathID(r, "item_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.words.RemoveRelated(r.Context(), currentUser(r).ID, id, chi.URLParam(r, "related"), itemID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
