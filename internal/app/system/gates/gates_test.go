package gates_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/trackhub/internal/app/system/auth"
	"github.com/dalemusser/trackhub/internal/app/system/gates"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Helper to create a request with user context
func withTestUser(r *http.Request, isStaff bool) *http.Request {
	id, _ := primitive.ObjectIDFromHex("507f1f77bcf86cd799439011")
	user := &auth.SessionUser{
		ID:       id,
		Username: "testuser",
		Name:     "Test User",
		Email:    "test@example.com",
		IsStaff:  isStaff,
	}
	return auth.WithUser(r, user)
}

// Test RequireAuth

func TestRequireAuth_Authenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/protected", nil)
	req = withTestUser(req, false)
	rec := httptest.NewRecorder()

	result := gates.RequireAuth(rec, req, "/login")

	if !result.OK {
		t.Error("expected OK to be true for authenticated user")
	}
	if result.Name != "Test User" {
		t.Errorf("Name: got %q, want %q", result.Name, "Test User")
	}
	if result.UserID.IsZero() {
		t.Error("expected UserID to be set")
	}
	if result.IsStaff {
		t.Error("expected IsStaff to be false")
	}
}

func TestRequireAuth_NotAuthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/protected", nil)
	rec := httptest.NewRecorder()

	result := gates.RequireAuth(rec, req, "/login")

	if result.OK {
		t.Error("expected OK to be false for unauthenticated user")
	}
}

func TestRequireAuth_StaffFlagCarried(t *testing.T) {
	req := httptest.NewRequest("GET", "/protected", nil)
	req = withTestUser(req, true)
	rec := httptest.NewRecorder()

	result := gates.RequireAuth(rec, req, "/login")

	if !result.OK {
		t.Fatal("expected OK to be true")
	}
	if !result.IsStaff {
		t.Error("expected IsStaff to be true for staff user")
	}
}

// Test RequireStaff

func TestRequireStaff_AsStaff(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin/teams", nil)
	req = withTestUser(req, true)
	rec := httptest.NewRecorder()

	result := gates.RequireStaff(rec, req, "Staff only", "/")

	if !result.OK {
		t.Error("expected OK to be true for staff user")
	}
}

func TestRequireStaff_NotAuthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin/teams", nil)
	rec := httptest.NewRecorder()

	result := gates.RequireStaff(rec, req, "Staff only", "/")

	if result.OK {
		t.Error("expected OK to be false for unauthenticated user")
	}
}

func TestRequireStaff_NotStaff(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin/teams", nil)
	req = withTestUser(req, false)
	rec := httptest.NewRecorder()

	result := gates.RequireStaff(rec, req, "Staff only", "/")

	if result.OK {
		t.Error("expected OK to be false for non-staff user")
	}
}

// Test RequireTeamRole

func TestRequireTeamRole_NotAuthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/teams/alpha", nil)
	rec := httptest.NewRecorder()

	result := gates.RequireTeamRole(rec, req, nil, primitive.NewObjectID(), models.RoleMember)

	if result.OK {
		t.Error("expected OK to be false for unauthenticated user")
	}
}

func TestRequireTeamRole_StaffBypassesMembership(t *testing.T) {
	req := httptest.NewRequest("GET", "/teams/alpha", nil)
	req = withTestUser(req, true)
	rec := httptest.NewRecorder()

	// Staff never hits the resolver, so nil is safe here.
	result := gates.RequireTeamRole(rec, req, nil, primitive.NewObjectID(), models.RoleOwner)

	if !result.OK {
		t.Fatal("expected OK to be true for staff user")
	}
	if result.Role != models.RoleOwner {
		t.Errorf("Role: got %v, want %v", result.Role, models.RoleOwner)
	}
}

// Test that Result contains correct user info

func TestRequireAuth_ReturnsCorrectUserInfo(t *testing.T) {
	req := httptest.NewRequest("GET", "/protected", nil)
	id, _ := primitive.ObjectIDFromHex("507f1f77bcf86cd799439011")
	user := &auth.SessionUser{
		ID:       id,
		Username: "jsmith",
		Name:     "John Smith",
		Email:    "jsmith@example.com",
	}
	req = auth.WithUser(req, user)
	rec := httptest.NewRecorder()

	result := gates.RequireAuth(rec, req, "/login")

	if !result.OK {
		t.Fatal("expected OK to be true")
	}
	if result.Name != "John Smith" {
		t.Errorf("Name: got %q, want %q", result.Name, "John Smith")
	}
	if result.UserID.Hex() != "507f1f77bcf86cd799439011" {
		t.Errorf("UserID: got %q, want %q", result.UserID.Hex(), "507f1f77bcf86cd799439011")
	}
}
