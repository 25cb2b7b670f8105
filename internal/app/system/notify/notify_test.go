package notify_test

import (
	"context"
	"testing"

	"github.com/dalemusser/trackhub/internal/app/system/notify"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/trackhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestEligible(t *testing.T) {
	manager := primitive.NewObjectID()
	developer := primitive.NewObjectID()
	plainMember := primitive.NewObjectID()
	exMember := primitive.NewObjectID()

	p := models.Project{
		ManagerID:    &manager,
		DeveloperIDs: []primitive.ObjectID{developer, exMember},
	}
	roles := map[primitive.ObjectID]models.Role{
		manager:     models.RoleManager,
		developer:   models.RoleMember,
		plainMember: models.RoleMember,
	}

	subs := []primitive.ObjectID{manager, developer, plainMember, exMember}
	got := notify.Eligible(subs, p, roles)

	want := map[primitive.ObjectID]bool{manager: true, developer: true}
	if len(got) != len(want) {
		t.Fatalf("eligible count: got %d, want %d", len(got), len(want))
	}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected recipient %s", id.Hex())
		}
	}
}

func TestEligible_EmptySubscribers(t *testing.T) {
	if got := notify.Eligible(nil, models.Project{}, nil); len(got) != 0 {
		t.Errorf("expected no recipients, got %d", len(got))
	}
}

// fanOutWorld seeds a team whose members have project roles, and returns
// a project and ticket whose subscriber sets differ and together span
// every eligibility case.
func fanOutWorld(t *testing.T) (*testutil.CaptureSender, *notify.Notifier, models.Team, models.Project, models.Ticket, models.User) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	team := f.CreateTeam(ctx, "Team Alpha")
	alice := f.CreateUser(ctx, "alice")
	bob := f.CreateUser(ctx, "bob")
	carol := f.CreateUser(ctx, "carol")
	mallory := f.CreateUser(ctx, "mallory")
	f.AddMembership(ctx, team.ID, alice.ID, models.RoleOwner)
	f.AddMembership(ctx, team.ID, bob.ID, models.RoleMember)
	f.AddMembership(ctx, team.ID, carol.ID, models.RoleMember)

	project := f.CreateProject(ctx, team.ID, "Widget")
	project.ManagerID = &alice.ID
	project.DeveloperIDs = []primitive.ObjectID{bob.ID, mallory.ID}
	project.SubscriberIDs = []primitive.ObjectID{alice.ID, carol.ID, mallory.ID}

	ticket := f.CreateTicket(ctx, team.ID, project.ID, alice.ID, "Crash on save")
	ticket.SubscriberIDs = []primitive.ObjectID{alice.ID, bob.ID, carol.ID, mallory.ID}

	sender := &testutil.CaptureSender{}
	notifier := testutil.NewNotifier(db, sender, zap.NewNop())
	return sender, notifier, team, project, ticket, alice
}

func TestTicketCreated_FansOutToEligibleSubscribers(t *testing.T) {
	sender, notifier, team, project, ticket, alice := fanOutWorld(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	notifier.TicketCreated(ctx, team, project, ticket, alice)

	// New-ticket mail goes to the project's subscribers. bob subscribes
	// to the ticket only, so he hears nothing yet.
	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected mail to the manager only, got %d messages", len(sent))
	}
	if len(sender.SentTo("alice@test.com")) != 1 {
		t.Error("expected mail to the manager")
	}
	if len(sender.SentTo("bob@test.com")) != 0 {
		t.Error("expected no mail for a ticket-only subscriber")
	}
	// carol holds no project role, mallory is not a team member.
	if len(sender.SentTo("carol@test.com")) != 0 || len(sender.SentTo("mallory@test.com")) != 0 {
		t.Error("expected ineligible subscribers to be skipped")
	}
}

func TestCommentPosted_FansOutToTicketSubscribers(t *testing.T) {
	sender, notifier, team, project, ticket, alice := fanOutWorld(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	notifier.CommentPosted(ctx, team, project, ticket, alice, "looking into it")

	sent := sender.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected mail to the manager and the developer, got %d messages", len(sent))
	}
	if len(sender.SentTo("alice@test.com")) != 1 || len(sender.SentTo("bob@test.com")) != 1 {
		t.Error("expected mail to the eligible ticket subscribers")
	}
}

func TestArchivedProject_SuppressesAllButReopen(t *testing.T) {
	sender, notifier, team, project, ticket, alice := fanOutWorld(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project.IsArchived = true

	notifier.TicketCreated(ctx, team, project, ticket, alice)
	notifier.CommentPosted(ctx, team, project, ticket, alice, "looking into it")
	notifier.TicketClosed(ctx, team, project, ticket, alice, "Fixed.")
	if n := len(sender.Sent()); n != 0 {
		t.Fatalf("expected no mail from an archived project, got %d messages", n)
	}

	// Reopening is the exception; subscribers hear about it even when
	// the project is archived.
	notifier.TicketReopened(ctx, team, project, ticket, alice)
	if n := len(sender.Sent()); n != 2 {
		t.Errorf("expected reopen mail despite the archive, got %d messages", n)
	}
}

func TestTeamRoleAssigned_RespectsPreference(t *testing.T) {
	ctx := context.Background()
	sender := &testutil.CaptureSender{}
	n := &notify.Notifier{Sender: sender, Log: zap.NewNop(), SiteName: "TrackHub Test", BaseURL: "http://localhost:8080"}
	team := models.Team{Title: "Team Alpha", Slug: "team-alpha"}

	optedOut := models.User{
		Name: "Bob", Email: "bob@test.com",
		NotificationSettings: map[string]bool{models.NotifyTeamRoleAssignment: false},
	}
	n.TeamRoleAssigned(ctx, team, optedOut, "owner")
	if len(sender.Sent()) != 0 {
		t.Error("expected no mail for an opted-out user")
	}

	// Absent settings fall back to the enabled default.
	n.TeamRoleAssigned(ctx, team, models.User{Name: "Carol", Email: "carol@test.com"}, "owner")
	if len(sender.SentTo("carol@test.com")) != 1 {
		t.Error("expected mail under the default setting")
	}
}

func TestInvitationSent_Preference(t *testing.T) {
	ctx := context.Background()
	sender := &testutil.CaptureSender{}
	n := &notify.Notifier{Sender: sender, Log: zap.NewNop(), SiteName: "TrackHub Test", BaseURL: "http://localhost:8080"}
	team := models.Team{Title: "Team Alpha", Slug: "team-alpha"}
	inviter := models.User{Name: "Alice"}

	optedOut := models.User{
		Email:                "bob@test.com",
		NotificationSettings: map[string]bool{models.NotifyTeamInvites: false},
	}
	n.InvitationSent(ctx, team, inviter, &optedOut, optedOut.Email, "tok-1")
	if len(sender.Sent()) != 0 {
		t.Error("expected no mail for an opted-out invitee")
	}

	// An invitation to a plain address has no account to consult.
	n.InvitationSent(ctx, team, inviter, nil, "new@test.com", "tok-2")
	if len(sender.SentTo("new@test.com")) != 1 {
		t.Fatal("expected mail to the plain address")
	}
}
