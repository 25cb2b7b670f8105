package invitationstore_test

import (
	"errors"
	"testing"
	"time"

	invitationstore "github.com/dalemusser/trackhub/internal/app/store/invitations"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/trackhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreate_And_GetByToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	team := f.CreateTeam(ctx, "Team Alpha")
	bob := f.CreateUser(ctx, "bob")

	is := invitationstore.New(db)
	inv, err := is.Create(ctx, team.ID, &bob.ID, bob.Email)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if inv.Token == "" {
		t.Fatal("expected a token")
	}
	if inv.Status != models.InvitationPending {
		t.Errorf("status: got %d, want pending", inv.Status)
	}

	got, err := is.GetByToken(ctx, inv.Token)
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if got.ID != inv.ID || got.InviteeEmail != bob.Email {
		t.Errorf("GetByToken returned the wrong invitation: %+v", got)
	}

	if _, err := is.GetByToken(ctx, "no-such-token"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("unknown token: got %v, want ErrNoDocuments", err)
	}
}

func TestHasPending_And_Counts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	teamA := f.CreateTeam(ctx, "Team Alpha")
	teamB := f.CreateTeam(ctx, "Team Beta")
	bob := f.CreateUser(ctx, "bob")

	is := invitationstore.New(db)
	if _, err := is.Create(ctx, teamA.ID, &bob.ID, bob.Email); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := is.Create(ctx, teamB.ID, &bob.ID, bob.Email); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ok, err := is.HasPending(ctx, teamA.ID, bob.ID)
	if err != nil || !ok {
		t.Errorf("HasPending teamA: got %v, %v, want true", ok, err)
	}
	carol := f.CreateUser(ctx, "carol")
	ok, err = is.HasPending(ctx, teamA.ID, carol.ID)
	if err != nil || ok {
		t.Errorf("HasPending uninvited: got %v, %v, want false", ok, err)
	}

	n, err := is.CountPendingForUser(ctx, bob.ID)
	if err != nil || n != 2 {
		t.Errorf("CountPendingForUser: got %d, %v, want 2", n, err)
	}
	n, err = is.CountPendingForTeam(ctx, teamA.ID)
	if err != nil || n != 1 {
		t.Errorf("CountPendingForTeam: got %d, %v, want 1", n, err)
	}
}

func TestSetStatus_RequiresPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	team := f.CreateTeam(ctx, "Team Alpha")
	bob := f.CreateUser(ctx, "bob")

	is := invitationstore.New(db)
	inv, err := is.Create(ctx, team.ID, &bob.ID, bob.Email)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := is.SetStatus(ctx, inv.ID, models.InvitationAccepted); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	// A second submit finds no pending invitation to flip.
	if err := is.SetStatus(ctx, inv.ID, models.InvitationDeclined); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("double submit: got %v, want ErrNoDocuments", err)
	}

	got, err := is.GetByToken(ctx, inv.Token)
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if got.Status != models.InvitationAccepted {
		t.Errorf("status: got %d, want accepted", got.Status)
	}
}

func TestDeleteExpired_PendingOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	team := f.CreateTeam(ctx, "Team Alpha")
	bob := f.CreateUser(ctx, "bob")
	carol := f.CreateUser(ctx, "carol")
	dave := f.CreateUser(ctx, "dave")

	is := invitationstore.New(db)
	stale, err := is.Create(ctx, team.ID, &bob.ID, bob.Email)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	staleAccepted, err := is.Create(ctx, team.ID, &carol.ID, carol.Email)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	fresh, err := is.Create(ctx, team.ID, &dave.ID, dave.Email)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Age the first two past the TTL.
	aged := time.Now().UTC().Add(-models.InvitationTTL - time.Hour)
	for _, inv := range []models.TeamInvitation{stale, staleAccepted} {
		if _, err := db.Collection("team_invitations").UpdateByID(ctx, inv.ID,
			bson.M{"$set": bson.M{"created_on": aged}}); err != nil {
			t.Fatalf("age invitation: %v", err)
		}
	}
	if err := is.SetStatus(ctx, staleAccepted.ID, models.InvitationAccepted); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	deleted, err := is.DeleteExpired(ctx, time.Now().UTC().Add(-models.InvitationTTL))
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted: got %d, want 1", deleted)
	}

	if _, err := is.GetByToken(ctx, stale.Token); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Error("expected the stale pending invitation gone")
	}
	// Resolved invitations stay regardless of age.
	if _, err := is.GetByToken(ctx, staleAccepted.Token); err != nil {
		t.Errorf("expected the accepted invitation kept: %v", err)
	}
	if _, err := is.GetByToken(ctx, fresh.Token); err != nil {
		t.Errorf("expected the fresh invitation kept: %v", err)
	}
}

func TestDeleteByTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	teamA := f.CreateTeam(ctx, "Team Alpha")
	teamB := f.CreateTeam(ctx, "Team Beta")
	bob := f.CreateUser(ctx, "bob")

	is := invitationstore.New(db)
	if _, err := is.Create(ctx, teamA.ID, &bob.ID, bob.Email); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	kept, err := is.Create(ctx, teamB.ID, &bob.ID, bob.Email)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := is.DeleteByTeam(ctx, teamA.ID); err != nil {
		t.Fatalf("DeleteByTeam failed: %v", err)
	}

	n, err := is.CountPendingForTeam(ctx, teamA.ID)
	if err != nil || n != 0 {
		t.Errorf("teamA count: got %d, %v, want 0", n, err)
	}
	if _, err := is.GetByToken(ctx, kept.Token); err != nil {
		t.Errorf("expected teamB's invitation kept: %v", err)
	}
}

func TestInvitationExpiry(t *testing.T) {
	now := time.Now().UTC()
	fresh := models.TeamInvitation{Status: models.InvitationPending, CreatedOn: now.Add(-time.Hour)}
	stale := models.TeamInvitation{Status: models.InvitationPending, CreatedOn: now.Add(-models.InvitationTTL - time.Minute)}
	resolved := models.TeamInvitation{Status: models.InvitationAccepted, CreatedOn: now.Add(-time.Hour)}

	if fresh.IsExpired(now) || !fresh.Usable(now) {
		t.Error("expected a fresh pending invitation to be usable")
	}
	if !stale.IsExpired(now) || stale.Usable(now) {
		t.Error("expected a stale pending invitation to be unusable")
	}
	if resolved.Usable(now) {
		t.Error("expected an accepted invitation to be unusable")
	}
}
