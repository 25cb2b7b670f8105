// internal/app/features/settings/routes.go
package settings

import (
	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the settings routes under the base path (typically
// "/settings" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(sr chi.Router) {
		sr.Use(auth.RequireSignedIn)

		sr.Get("/", h.ServeSettings)
		sr.Post("/", h.HandleUpdate)
	})

	return r
}
