package rest

import (
	"net/http"

	"github.com/eslsoft/lingvo/internal/adapter/mapping"
	"github.com/eslsoft/lingvo/internal/usecase"
)

func (h *Handler) StartApproach(w http.ResponseWriter, r *http.Request) {
	var in usecase.ApproachInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	approach, err := h.exercises.Start(r.Context(), currentUser(r).ID, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapping.ToApproach(approach))
}

func (h *Handler) GetApproach(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	approach, err := h.exercises.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToApproach(approach))
}

func (h *Handler) AnswerApproach(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in usecase.AnswerInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	answer, err := h.exercises.Answer(r.Context(), currentUser(r).ID, id, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapping.ToAnswer(answer))
}
