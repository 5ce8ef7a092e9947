package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/eslsoft/lingvo/internal/entity"
)

type userKey struct{}

// tokenFromHeader accepts "Token <key>" and "Bearer <key>".
func tokenFromHeader(r *http.Request) string {
	scheme, key, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
		return strings.TrimSpace(key)
	}
	return ""
}

// RequireAuth resolves the token before any handler touches an entity.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromHeader(r)
		if token == "" {
			h.writeError(w, r, entity.ErrUnauthenticated)
			return
		}
		user, err := h.auth.Authenticate(r.Context(), token)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), userKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) *entity.User {
	user, _ := r.Context().Value(userKey{}).(*entity.User)
	return user
}
