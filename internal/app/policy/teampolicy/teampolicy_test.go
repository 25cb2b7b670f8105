package teampolicy_test

import (
	"testing"

	"github.com/dalemusser/trackhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/trackhub/internal/domain/models"
)

func TestCanView(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		isStaff bool
		want    bool
	}{
		{"owner", models.RoleOwner, false, true},
		{"manager", models.RoleManager, false, true},
		{"member", models.RoleMember, false, true},
		{"non-member", models.RoleNone, false, false},
		{"staff non-member", models.RoleNone, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := teampolicy.CanView(tt.role, tt.isStaff); got != tt.want {
				t.Errorf("CanView(%v, %v) = %v, want %v", tt.role, tt.isStaff, got, tt.want)
			}
		})
	}
}

func TestCanManage(t *testing.T) {
	if !teampolicy.CanManage(models.RoleOwner) {
		t.Error("owner should manage the team")
	}
	if teampolicy.CanManage(models.RoleManager) {
		t.Error("manager must not manage the team")
	}
	if teampolicy.CanManage(models.RoleMember) {
		t.Error("member must not manage the team")
	}
	if teampolicy.CanManage(models.RoleNone) {
		t.Error("non-member must not manage the team")
	}
}

func TestCanCreateProject(t *testing.T) {
	if !teampolicy.CanCreateProject(models.RoleOwner) {
		t.Error("owner should create projects")
	}
	// Project creation is owner-only; managers manage assigned projects,
	// they do not create new ones.
	if teampolicy.CanCreateProject(models.RoleManager) {
		t.Error("manager must not create projects")
	}
}
