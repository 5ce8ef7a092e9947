package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eslsoft/lingvo/internal/adapter/mapping"
	"github.com/eslsoft/lingvo/internal/repository"
	"github.com/eslsoft/lingvo/internal/usecase"
)

// itemRoutes serves list, detail, update and delete for one nested entity library.
func itemRoutes[I any, E any, D any](h *Handler, uc usecase.ItemUsecase[I, E], toDTO func(*E) D) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
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
			items, total, err := uc.List(r.Context(), query)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, newPage(mapping.ToList(items, toDTO), total, query.Pagination))
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r, "id")
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			item, err := uc.Get(r.Context(), currentUser(r).ID, id)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, toDTO(item))
		})

		r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r, "id")
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			in := new(I)
			if err := decodeJSON(r, in); err != nil {
				h.writeError(w, r, err)
				return
			}
			item, err := uc.Update(r.Context(), currentUser(r).ID, id, in)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, toDTO(item))
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r, "id")
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			if err := uc.Delete(r.Context(), currentUser(r).ID, id); err != nil {
				h.writeError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
