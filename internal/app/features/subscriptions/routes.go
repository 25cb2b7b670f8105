// internal/app/features/subscriptions/routes.go
package subscriptions

import (
	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the subscription management routes under the base path
// (typically "/subscriptions" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(sr chi.Router) {
		sr.Use(auth.RequireSignedIn)

		sr.Get("/", h.ServeList)
		sr.Post("/unsubscribe", h.HandleUnsubscribe)
	})

	return r
}
