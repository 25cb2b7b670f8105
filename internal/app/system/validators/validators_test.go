package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/trackhub/internal/app/system/validators"
	"github.com/dalemusser/trackhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First call
	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	err = validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Verify collections exist
	expectedCollections := []string{
		"users",
		"teams",
		"team_memberships",
		"team_invitations",
		"projects",
		"tickets",
		"comments",
		"ticket_files",
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}

	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}

	for _, expected := range expectedCollections {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestUsersValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Try to insert user without required fields - should fail
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"email": "test@example.com",
	})
	if err == nil {
		t.Error("expected validation error when inserting user without required fields")
	}
}

func TestUsersValidator_ValidUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Insert valid user - should succeed
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"username":    "testuser",
		"username_ci": "testuser",
		"name":        "Test User",
		"email":       "testuser@example.com",
		"is_staff":    false,
	})
	if err != nil {
		t.Errorf("Insert valid user failed: %v", err)
	}
}

func TestMembershipsValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Try to insert membership without required fields - should fail
	_, err = db.Collection("team_memberships").InsertOne(ctx, bson.M{
		"created_at": time.Now(),
	})
	if err == nil {
		t.Error("expected validation error when inserting team_membership without required fields")
	}
}

func TestMembershipsValidator_ValidMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	teamID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	// Insert valid membership - should succeed
	_, err = db.Collection("team_memberships").InsertOne(ctx, bson.M{
		"team_id":    teamID,
		"user_id":    userID,
		"role":       int32(1),
		"created_at": time.Now(),
	})
	if err != nil {
		t.Errorf("Insert valid team_membership failed: %v", err)
	}
}

func TestMembershipsValidator_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	teamID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	// Try to insert membership with out-of-range role - should fail
	_, err = db.Collection("team_memberships").InsertOne(ctx, bson.M{
		"team_id":    teamID,
		"user_id":    userID,
		"role":       int32(9),
		"created_at": time.Now(),
	})
	if err == nil {
		t.Error("expected validation error when inserting team_membership with invalid role")
	}
}

func TestTicketsValidator_ValidTicket(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	projectID := primitive.NewObjectID()
	submitterID := primitive.NewObjectID()

	_, err = db.Collection("tickets").InsertOne(ctx, bson.M{
		"project_id":     projectID,
		"submitter_id":   submitterID,
		"title":          "Login page broken",
		"title_ci":       "login page broken",
		"description":    "Crashes on submit",
		"resolution":     "Unspecified.",
		"priority":       "high",
		"status":         "open",
		"developer_ids":  bson.A{},
		"subscriber_ids": bson.A{},
	})
	if err != nil {
		t.Errorf("Insert valid ticket failed: %v", err)
	}
}

func TestTicketsValidator_InvalidPriority(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	projectID := primitive.NewObjectID()
	submitterID := primitive.NewObjectID()

	_, err = db.Collection("tickets").InsertOne(ctx, bson.M{
		"project_id":   projectID,
		"submitter_id": submitterID,
		"title":        "Ticket",
		"title_ci":     "ticket",
		"priority":     "blocker",
		"status":       "open",
	})
	if err == nil {
		t.Error("expected validation error when inserting ticket with invalid priority")
	}
}

func TestTicketsValidator_InvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	projectID := primitive.NewObjectID()
	submitterID := primitive.NewObjectID()

	_, err = db.Collection("tickets").InsertOne(ctx, bson.M{
		"project_id":   projectID,
		"submitter_id": submitterID,
		"title":        "Ticket",
		"title_ci":     "ticket",
		"priority":     "low",
		"status":       "resolved",
	})
	if err == nil {
		t.Error("expected validation error when inserting ticket with invalid status")
	}
}

func TestInvitationsValidator_InvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	teamID := primitive.NewObjectID()

	_, err = db.Collection("team_invitations").InsertOne(ctx, bson.M{
		"token":      "abc123",
		"team_id":    teamID,
		"status":     int32(7),
		"created_on": time.Now(),
	})
	if err == nil {
		t.Error("expected validation error when inserting invitation with invalid status")
	}
}

func TestTicketFiles_NoValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// ticket_files has no validator, so any document should be accepted
	_, err = db.Collection("ticket_files").InsertOne(ctx, bson.M{
		"any_field": "any_value",
	})
	if err != nil {
		t.Errorf("Insert to ticket_files should succeed (no validator): %v", err)
	}
}

func TestTicketsValidator_AllValidPriorities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	validPriorities := []string{"low", "medium", "high", "urgent"}

	for _, p := range validPriorities {
		_, err = db.Collection("tickets").InsertOne(ctx, bson.M{
			"project_id":   primitive.NewObjectID(),
			"submitter_id": primitive.NewObjectID(),
			"title":        "Ticket " + p,
			"title_ci":     "ticket " + p,
			"priority":     p,
			"status":       "open",
		})
		if err != nil {
			t.Errorf("Insert ticket with priority %q failed: %v", p, err)
		}
	}
}
