// internal/app/features/invitations/routes.go
package invitations

import (
	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Invitation routes under the base path (typically
// "/invitations" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ir chi.Router) {
		ir.Use(auth.RequireSignedIn)

		ir.Get("/", h.ServeList)
		ir.Get("/new", h.ServeNew)
		ir.Post("/", h.HandleSend)

		ir.Get("/{token}", h.ServeView)
		ir.Post("/{token}/accept", h.HandleAccept)
		ir.Post("/{token}/decline", h.HandleDecline)
	})

	return r
}
