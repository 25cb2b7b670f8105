// internal/app/features/subscriptions/templates.go
package subscriptions

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "subscriptions",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
