package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eslsoft/lingvo/internal/adapter/mapping"
	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/usecase"
)

type languageRequest struct {
	Language string `json:"language"`
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profile.Get(r.Context(), currentUser(r).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToProfile(profile))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req usecase.ProfileInput
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	profile, err := h.profile.Update(r.Context(), currentUser(r).ID, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToProfile(profile))
}

// languageKind maps the path segment onto a language kind.
func languageKind(r *http.Request) (entity.LanguageKind, error) {
	switch chi.URLParam(r, "kind") {
	case "learning_languages":
		return entity.LanguageLearning, nil
	case "native_languages":
		return entity.LanguageNative, nil
	}
	return "", entity.ErrNotFound
}

func (h *Handler) ListUserLanguages(w http.ResponseWriter, r *http.Request) {
	kind, err := languageKind(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	langs, err := h.profile.Languages(r.Context(), currentUser(r).ID, kind)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToLanguages(langs))
}

func (h *Handler) AddUserLanguage(w http.ResponseWriter, r *http.Request) {
	kind, err := languageKind(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req languageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	langs, err := h.profile.AddLanguage(r.Context(), currentUser(r).ID, kind, req.Language)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapping.ToLanguages(langs))
}

func (h *Handler) RemoveUserLanguage(w http.ResponseWriter, r *http.Request) {
	kind, err := languageKind(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.profile.RemoveLanguage(r.Context(), currentUser(r).ID, kind, chi.URLParam(r, "code")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	h.listCatalogue(w, r, false)
}

func (h *Handler) ListAvailableLanguages(w http.ResponseWriter, r *http.Request) {
	h.listCatalogue(w, r, true)
}

func (h *Handler) listCatalogue(w http.ResponseWriter, r *http.Request, learningOnly bool) {
	langs, err := h.profile.Catalogue(r.Context(), learningOnly)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToLanguages(langs))
}

func (h *Handler) ListWordTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.profile.WordTypes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToWordTypes(types))
}
