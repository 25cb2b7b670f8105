package testutil

import (
	"net/http"

	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionUserFor builds the session view of a stored user.
func SessionUserFor(u models.User) *auth.SessionUser {
	return &auth.SessionUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		IsStaff:  u.IsStaff,
	}
}

// WithSessionUser attaches the user to the request context the way the
// LoadSessionUser middleware would.
func WithSessionUser(r *http.Request, u models.User) *http.Request {
	return auth.WithUser(r, SessionUserFor(u))
}

// WithAnonymousStaff attaches a staff user that does not exist in the
// database, for exercising the staff bypass paths.
func WithAnonymousStaff(r *http.Request) *http.Request {
	return auth.WithUser(r, &auth.SessionUser{
		ID:       primitive.NewObjectID(),
		Username: "staff",
		Name:     "Staff User",
		Email:    "staff@test.com",
		IsStaff:  true,
	})
}
