package teams_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	"github.com/dalemusser/trackhub/internal/app/features/teams"
	membershipstore "github.com/dalemusser/trackhub/internal/app/store/memberships"
	teamstore "github.com/dalemusser/trackhub/internal/app/store/teams"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/trackhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*teams.Handler, *mongo.Database, *testutil.CaptureSender) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sender := &testutil.CaptureSender{}

	notifier := testutil.NewNotifier(db, sender, logger)
	h := teams.NewHandler(db, uierrors.NewErrorLogger(logger), notifier, logger)
	return h, db, sender
}

// renderSafe swallows template panics; templates are only fully
// registered by the app bootstrap.
func renderSafe(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleCreate_CreatorBecomesOwner(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser(ctx, "alice")

	req := postForm("/teams", url.Values{
		"title":       {"Team Alpha"},
		"description": {"First team"},
	})
	req = testutil.WithSessionUser(req, creator)
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	team, err := teamstore.New(db).GetBySlug(ctx, "team-alpha")
	if err != nil {
		t.Fatalf("team not found by slug: %v", err)
	}
	role, err := membershipstore.New(db).RoleOf(ctx, team.ID, creator.ID)
	if err != nil {
		t.Fatalf("RoleOf failed: %v", err)
	}
	if role != models.RoleOwner {
		t.Errorf("creator role: got %v, want RoleOwner", role)
	}
}

func TestHandleCreate_DuplicateTitle(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	creator := f.CreateUser(ctx, "alice")
	f.CreateTeam(ctx, "Team Alpha")

	req := postForm("/teams", url.Values{"title": {"Team Alpha"}})
	req = testutil.WithSessionUser(req, creator)
	rec := httptest.NewRecorder()

	renderSafe(func() { h.HandleCreate(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect for a duplicate title")
	}
}

func TestHandleRemoveOwner_LastOwnerRefused(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	owner := f.CreateUser(ctx, "alice")
	team := f.CreateTeam(ctx, "Team Alpha")
	f.AddMembership(ctx, team.ID, owner.ID, models.RoleOwner)

	req := postForm("/teams/"+team.ID.Hex()+"/members/"+owner.ID.Hex()+"/remove_owner", url.Values{})
	req = testutil.WithSessionUser(req, owner)
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", owner.ID.Hex())
	rec := httptest.NewRecorder()

	renderSafe(func() { h.HandleRemoveOwner(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect when demoting the last owner")
	}

	role, err := membershipstore.New(db).RoleOf(ctx, team.ID, owner.ID)
	if err != nil {
		t.Fatalf("RoleOf failed: %v", err)
	}
	if role != models.RoleOwner {
		t.Errorf("role after refused demotion: got %v, want RoleOwner", role)
	}
}

func TestHandleRemoveOwner_WithCoOwner(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "alice")
	bob := f.CreateUser(ctx, "bob")
	team := f.CreateTeam(ctx, "Team Alpha")
	f.AddMembership(ctx, team.ID, alice.ID, models.RoleOwner)
	f.AddMembership(ctx, team.ID, bob.ID, models.RoleOwner)

	req := postForm("/teams/"+team.ID.Hex()+"/members/"+bob.ID.Hex()+"/remove_owner", url.Values{})
	req = testutil.WithSessionUser(req, alice)
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", bob.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleRemoveOwner(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	role, _ := membershipstore.New(db).RoleOf(ctx, team.ID, bob.ID)
	if role != models.RoleMember {
		t.Errorf("role after demotion: got %v, want RoleMember", role)
	}
}

func TestHandleAddManager_SendsGatedEmail(t *testing.T) {
	h, db, sender := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "alice")
	bob := f.CreateUser(ctx, "bob")
	team := f.CreateTeam(ctx, "Team Alpha")
	f.AddMembership(ctx, team.ID, alice.ID, models.RoleOwner)
	f.AddMembership(ctx, team.ID, bob.ID, models.RoleMember)

	req := postForm("/teams/"+team.ID.Hex()+"/members/"+bob.ID.Hex()+"/add_manager", url.Values{})
	req = testutil.WithSessionUser(req, alice)
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", bob.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleAddManager(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	role, _ := membershipstore.New(db).RoleOf(ctx, team.ID, bob.ID)
	if role != models.RoleManager {
		t.Errorf("role after promotion: got %v, want RoleManager", role)
	}
	if got := sender.SentTo(bob.Email); len(got) != 1 {
		t.Errorf("role change emails to bob: got %d, want 1", len(got))
	}
}

func TestHandleAddManager_PrefDisabled_NoEmail(t *testing.T) {
	h, db, sender := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "alice")
	bob := f.CreateUserWithSettings(ctx, "bob", map[string]bool{
		models.NotifyTeamRoleAssignment: false,
	})
	team := f.CreateTeam(ctx, "Team Alpha")
	f.AddMembership(ctx, team.ID, alice.ID, models.RoleOwner)
	f.AddMembership(ctx, team.ID, bob.ID, models.RoleMember)

	req := postForm("/teams/"+team.ID.Hex()+"/members/"+bob.ID.Hex()+"/add_manager", url.Values{})
	req = testutil.WithSessionUser(req, alice)
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", bob.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleAddManager(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if got := sender.SentTo(bob.Email); len(got) != 0 {
		t.Errorf("role change emails to bob: got %d, want 0", len(got))
	}
}

func TestHandleRemoveManager_SoleOwnerKeepsRole(t *testing.T) {
	h, db, sender := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "alice")
	team := f.CreateTeam(ctx, "Team Alpha")
	f.AddMembership(ctx, team.ID, alice.ID, models.RoleOwner)

	// remove_manager aimed at the sole owner must not demote them,
	// even when the owner posts it against themself.
	req := postForm("/teams/"+team.ID.Hex()+"/members/"+alice.ID.Hex()+"/remove_manager", url.Values{})
	req = testutil.WithSessionUser(req, alice)
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", alice.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleRemoveManager(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	role, err := membershipstore.New(db).RoleOf(ctx, team.ID, alice.ID)
	if err != nil {
		t.Fatalf("RoleOf failed: %v", err)
	}
	if role != models.RoleOwner {
		t.Errorf("role after remove_manager: got %v, want RoleOwner", role)
	}
	if got := sender.SentTo(alice.Email); len(got) != 0 {
		t.Errorf("emails for a no-op demotion: got %d, want 0", len(got))
	}
}

func TestHandleAddOwner_NoOpSendsNoEmail(t *testing.T) {
	h, db, sender := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "alice")
	bob := f.CreateUser(ctx, "bob")
	team := f.CreateTeam(ctx, "Team Alpha")
	f.AddMembership(ctx, team.ID, alice.ID, models.RoleOwner)
	f.AddMembership(ctx, team.ID, bob.ID, models.RoleOwner)

	req := postForm("/teams/"+team.ID.Hex()+"/members/"+bob.ID.Hex()+"/add_owner", url.Values{})
	req = testutil.WithSessionUser(req, alice)
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", bob.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleAddOwner(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if got := sender.SentTo(bob.Email); len(got) != 0 {
		t.Errorf("emails for promoting an existing owner: got %d, want 0", len(got))
	}
}

func TestMemberOps_NonOwnerDenied(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "alice")
	bob := f.CreateUser(ctx, "bob")
	carol := f.CreateUser(ctx, "carol")
	team := f.CreateTeam(ctx, "Team Alpha")
	f.AddMembership(ctx, team.ID, alice.ID, models.RoleOwner)
	f.AddMembership(ctx, team.ID, bob.ID, models.RoleManager)
	f.AddMembership(ctx, team.ID, carol.ID, models.RoleMember)

	// Managers hold no team administration rights.
	req := postForm("/teams/"+team.ID.Hex()+"/members/"+carol.ID.Hex()+"/remove", url.Values{})
	req = testutil.WithSessionUser(req, bob)
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", carol.ID.Hex())
	rec := httptest.NewRecorder()

	renderSafe(func() { h.HandleRemoveMember(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect for a manager attempting removal")
	}
	role, _ := membershipstore.New(db).RoleOf(ctx, team.ID, carol.ID)
	if role != models.RoleMember {
		t.Errorf("carol role: got %v, want RoleMember", role)
	}
}

func TestHandleLeave_OwnerRefused(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "alice")
	bob := f.CreateUser(ctx, "bob")
	team := f.CreateTeam(ctx, "Team Alpha")
	f.AddMembership(ctx, team.ID, alice.ID, models.RoleOwner)
	f.AddMembership(ctx, team.ID, bob.ID, models.RoleOwner)

	// Owners cannot leave even with a co-owner present.
	req := postForm("/teams/"+team.ID.Hex()+"/leave", url.Values{})
	req = testutil.WithSessionUser(req, alice)
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	rec := httptest.NewRecorder()

	renderSafe(func() { h.HandleLeave(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect when an owner tries to leave")
	}
	role, _ := membershipstore.New(db).RoleOf(ctx, team.ID, alice.ID)
	if role != models.RoleOwner {
		t.Errorf("alice role: got %v, want RoleOwner", role)
	}
}

func TestHandleLeave_MemberLeaves(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "alice")
	bob := f.CreateUser(ctx, "bob")
	team := f.CreateTeam(ctx, "Team Alpha")
	f.AddMembership(ctx, team.ID, alice.ID, models.RoleOwner)
	f.AddMembership(ctx, team.ID, bob.ID, models.RoleMember)

	req := postForm("/teams/"+team.ID.Hex()+"/leave", url.Values{})
	req = testutil.WithSessionUser(req, bob)
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleLeave(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	role, _ := membershipstore.New(db).RoleOf(ctx, team.ID, bob.ID)
	if role != models.RoleNone {
		t.Errorf("bob role after leaving: got %v, want RoleNone", role)
	}
}

func TestHandleDelete_CascadesAndOrphans(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "alice")
	team := f.CreateTeam(ctx, "Team Alpha")
	f.AddMembership(ctx, team.ID, alice.ID, models.RoleOwner)
	project := f.CreateProject(ctx, team.ID, "Apollo")

	req := postForm("/teams/"+team.ID.Hex()+"/delete", url.Values{})
	req = testutil.WithSessionUser(req, alice)
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	if _, err := teamstore.New(db).GetByID(ctx, team.ID); err == nil {
		t.Error("expected the team to be gone")
	}
	n, err := db.Collection("team_memberships").CountDocuments(ctx, bson.M{"team_id": team.ID})
	if err != nil {
		t.Fatalf("count memberships: %v", err)
	}
	if n != 0 {
		t.Errorf("memberships after delete: got %d, want 0", n)
	}

	// The project survives, detached from the team.
	var p struct {
		TeamID interface{} `bson:"team_id"`
	}
	if err := db.Collection("projects").FindOne(ctx, bson.M{"_id": project.ID}).Decode(&p); err != nil {
		t.Fatalf("project should survive team deletion: %v", err)
	}
	if p.TeamID != nil {
		t.Errorf("project team_id after delete: got %v, want nil", p.TeamID)
	}
}

func TestHandleDelete_StaffDenied(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "alice")
	team := f.CreateTeam(ctx, "Team Alpha")
	f.AddMembership(ctx, team.ID, alice.ID, models.RoleOwner)

	req := postForm("/teams/"+team.ID.Hex()+"/delete", url.Values{})
	req = testutil.WithAnonymousStaff(req)
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	rec := httptest.NewRecorder()

	renderSafe(func() { h.HandleDelete(rec, req) })

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect for staff attempting a delete")
	}
	if _, err := teamstore.New(db).GetByID(ctx, team.ID); err != nil {
		t.Errorf("team should still exist: %v", err)
	}
}
