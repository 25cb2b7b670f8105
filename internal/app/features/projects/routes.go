// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Project routes under the base path (typically
// "/projects" from bootstrap). Team role checks happen in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{id}/view", h.ServeView)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
		pr.Post("/{id}/archive", h.HandleArchiveToggle)
		pr.Post("/{id}/manager", h.HandleSetManager)
		pr.Post("/{id}/developers", h.HandleAddDeveloper)
		pr.Post("/{id}/developers/{userID}/remove", h.HandleRemoveDeveloper)
		pr.Post("/{id}/subscribe", h.HandleSubscribe)
		pr.Post("/{id}/unsubscribe", h.HandleUnsubscribe)
	})

	return r
}
