package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/eslsoft/lingvo/internal/adapter/mapping"
)

// NewRouter mounts the API under /api/v1.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(h.RequireAuth).Post("/logout", h.Logout)
		})

		r.Get("/languages", h.ListLanguages)
		r.Get("/languages/available", h.ListAvailableLanguages)
		r.Get("/types", h.ListWordTypes)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", h.GetProfile)
				r.Patch("/", h.UpdateProfile)
				r.Get("/{kind}", h.ListUserLanguages)
				r.Post("/{kind}", h.AddUserLanguage)
				r.Delete("/{kind}/{code}", h.RemoveUserLanguage)
			})

			r.Route("/vocabulary", func(r chi.Router) {
				r.Get("/", h.ListWords)
				r.Post("/", h.CreateWord)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetWord)
					r.Patch("/", h.UpdateWord)
					r.Delete("/", h.DeleteWord)
					r.Post("/favorite", h.FavoriteWord)
					r.Delete("/favorite", h.UnfavoriteWord)
					r.Get("/{related}", h.ListRelated)
					r.Post("/{related}", h.AddRelated)
					r.Delete("/{related}/{item_id}", h.RemoveRelated)
				})
			})

			r.Route("/translations", itemRoutes(h, h.items.Translations, mapping.ToTranslation))
			r.Route("/definitions", itemRoutes(h, h.items.Definitions, mapping.ToDefinition))
			r.Route("/examples", itemRoutes(h, h.items.Examples, mapping.ToExample))
			r.Route("/tags", itemRoutes(h, h.items.Tags, mapping.ToTag))
			r.Route("/form-groups", itemRoutes(h, h.items.FormGroups, mapping.ToFormGroup))
			r.Route("/images", itemRoutes(h, h.items.Images, mapping.ToImage))
			r.Route("/quotes", itemRoutes(h, h.items.Quotes, mapping.ToQuote))

			r.Route("/collections", func(r chi.Router) {
				r.Get("/", h.ListCollections)
				r.Post("/", h.CreateCollection)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetCollection)
					r.Patch("/", h.UpdateCollection)
					r.Delete("/", h.DeleteCollection)
					r.Post("/words", h.AddCollectionWords)
					r.Delete("/words/{word_id}", h.RemoveCollectionWord)
					r.Post("/favorite", h.FavoriteCollection)
					r.Delete("/favorite", h.UnfavoriteCollection)
				})
			})

			r.Route("/exercises/translator/approaches", func(r chi.Router) {
				r.Post("/", h.StartApproach)
				r.Get("/{id}", h.GetApproach)
				r.Post("/{id}/answers", h.AnswerApproach)
			})
		})
	})

	return r
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.logger.WithField("panic", rec).WithField("path", r.URL.Path).Error("panic recovered")
				writeJSON(w, http.StatusInternalServerError, mapping.Detail{Detail: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
