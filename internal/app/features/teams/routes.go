// internal/app/features/teams/routes.go
package teams

import (
	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Team routes under the base path (typically "/teams"
// from bootstrap). Role checks beyond sign-in happen in the handlers,
// because they depend on the team in the URL.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{id}/view", h.ServeView)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
		pr.Post("/{id}/delete", h.HandleDelete)
		pr.Post("/{id}/leave", h.HandleLeave)

		pr.Post("/{id}/members/{userID}/add_owner", h.HandleAddOwner)
		pr.Post("/{id}/members/{userID}/remove_owner", h.HandleRemoveOwner)
		pr.Post("/{id}/members/{userID}/add_manager", h.HandleAddManager)
		pr.Post("/{id}/members/{userID}/remove_manager", h.HandleRemoveManager)
		pr.Post("/{id}/members/{userID}/remove", h.HandleRemoveMember)
	})

	return r
}
