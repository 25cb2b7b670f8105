// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/app/system/formutil"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	// Signed-in users land on their team list.
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/teams", http.StatusSeeOther)
		return
	}

	var data struct {
		formutil.Base
	}
	formutil.SetBase(&data.Base, r, "Welcome", "/")

	templates.Render(w, r, "home", data)
}
