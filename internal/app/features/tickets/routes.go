// internal/app/features/tickets/routes.go
package tickets

import (
	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Ticket routes under the base path (typically
// "/tickets" from bootstrap). Project role checks happen in the
// handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(tr chi.Router) {
		tr.Use(auth.RequireSignedIn)

		tr.Get("/new", h.ServeNew)
		tr.Post("/", h.HandleCreate)

		tr.Get("/{id}/view", h.ServeView)
		tr.Get("/{id}/edit", h.ServeEdit)
		tr.Post("/{id}/edit", h.HandleEdit)
		tr.Post("/{id}/close", h.HandleClose)
		tr.Post("/{id}/reopen", h.HandleReopen)
		tr.Post("/{id}/delete", h.HandleDelete)

		tr.Post("/{id}/developers", h.HandleAddDeveloper)
		tr.Post("/{id}/developers/{userID}/remove", h.HandleRemoveDeveloper)

		tr.Post("/{id}/subscribe", h.HandleSubscribe)
		tr.Post("/{id}/unsubscribe", h.HandleUnsubscribe)

		tr.Post("/{id}/comments", h.HandlePostComment)
		tr.Post("/{id}/comments/{commentID}/delete", h.HandleDeleteComment)

		tr.Post("/{id}/files", h.HandleUploadFile)
		tr.Get("/{id}/files/{fileID}/download", h.HandleDownloadFile)
		tr.Post("/{id}/files/{fileID}/delete", h.HandleDeleteFile)
	})

	return r
}
