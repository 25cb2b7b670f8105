package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given username. The email is
// derived from the username.
func (f *Fixtures) CreateUser(ctx context.Context, username string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		Username:   username,
		UsernameCI: text.Fold(username),
		Name:       "Test " + username,
		Email:      username + "@test.com",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateUserWithSettings creates a test user with explicit notification
// settings.
func (f *Fixtures) CreateUserWithSettings(ctx context.Context, username string, settings map[string]bool) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, username)
	u.NotificationSettings = settings
	if _, err := f.db.Collection("users").ReplaceOne(ctx, map[string]interface{}{"_id": u.ID}, u); err != nil {
		f.t.Fatalf("failed to set notification settings: %v", err)
	}
	return u
}

// CreateTeam creates a test team with the given title.
func (f *Fixtures) CreateTeam(ctx context.Context, title string) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	team := models.Team{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: "A test team.",
		Slug:        text.Fold(title) + "-" + uuid.New().String()[:8],
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("teams").InsertOne(ctx, team); err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}
	return team
}

// AddMembership creates a membership with the given role.
func (f *Fixtures) AddMembership(ctx context.Context, teamID, userID primitive.ObjectID, role models.Role) models.TeamMembership {
	f.t.Helper()

	m := models.TeamMembership{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("team_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateProject creates a test project under the team.
func (f *Fixtures) CreateProject(ctx context.Context, teamID primitive.ObjectID, title string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:            primitive.NewObjectID(),
		TeamID:        &teamID,
		Title:         title,
		TitleCI:       text.Fold(title),
		Description:   "A test project.",
		DeveloperIDs:  []primitive.ObjectID{},
		SubscriberIDs: []primitive.ObjectID{},
		CreatedOn:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateTicket creates an open test ticket under the project.
func (f *Fixtures) CreateTicket(ctx context.Context, teamID, projectID, submitterID primitive.ObjectID, title string) models.Ticket {
	f.t.Helper()

	now := time.Now().UTC()
	tk := models.Ticket{
		ID:            primitive.NewObjectID(),
		ProjectID:     projectID,
		TeamID:        &teamID,
		SubmitterID:   submitterID,
		Title:         title,
		TitleCI:       text.Fold(title),
		Description:   "A test ticket.",
		Priority:      models.PriorityMedium,
		Status:        models.StatusOpen,
		DeveloperIDs:  []primitive.ObjectID{},
		SubscriberIDs: []primitive.ObjectID{},
		CreatedOn:     now,
		LastUpdatedOn: now,
	}
	if _, err := f.db.Collection("tickets").InsertOne(ctx, tk); err != nil {
		f.t.Fatalf("failed to create test ticket: %v", err)
	}
	return tk
}
