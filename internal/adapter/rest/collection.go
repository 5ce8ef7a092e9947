package rest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/lingvo/internal/adapter/mapping"
	"github.com/eslsoft/lingvo/internal/repository"
	"github.com/eslsoft/lingvo/internal/usecase"
)

type wordRef struct {
	ID uuid.UUID `json:"id"`
}

func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	page, fo, search, err := listParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	query := &repository.ListItemQuery{
		Pagination:  page,
		FilterOrder: fo,
		AuthorID:    currentUser(r).ID,
		Search:      search,
	}
	items, total, err := h.collections.List(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(mapping.ToList(items, mapping.ToCollection), total, query.Pagination))
}

func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var in usecase.CollectionInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.collections.Create(r.Context(), currentUser(r).ID, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapping.ToCollection(c))
}

func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.collections.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToCollection(c))
}

func (h *Handler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in usecase.CollectionInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.collections.Update(r.Context(), currentUser(r).ID, id, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToCollection(c))
}

func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.collections.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddCollectionWords(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var refs []wordRef
	if err := decodeJSON(r, &refs); err != nil {
		h.writeError(w, r, err)
		return
	}
	ids := lo.Map(refs, func(ref wordRef, _ int) uuid.UUID { return ref.ID })
	c, err := h.collections.AddWords(r.Context(), currentUser(r).ID, id, ids)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToCollection(c))
}

func (h *Handler) RemoveCollectionWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	wordID, err := pathID(r, "word_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.collections.RemoveWord(r.Context(), currentUser(r).ID, id, wordID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) FavoriteCollection(w http.ResponseWriter, r *http.Request) {
	h.setCollectionFavorite(w, r, true)
}

func (h *Handler) UnfavoriteCollection(w http.ResponseWriter, r *http.Request) {
	h.setCollectionFavorite(w, r, false)
}

func (h *Handler) setCollectionFavorite(w http.ResponseWriter, r *http.Request, favorite bool) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.collections.SetFavorite(r.Context(), currentUser(r).ID, id, favorite); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
