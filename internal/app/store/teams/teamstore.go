// internal/app/store/teams/teamstore.go
package teamstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/trackhub/internal/app/system/slugify"
	"github.com/dalemusser/trackhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store persists teams. It also holds the collections a team delete
// cascades into, so the whole teardown can run under one transaction.
type Store struct {
	c           *mongo.Collection
	memberships *mongo.Collection
	invitations *mongo.Collection
	projects    *mongo.Collection
	tickets     *mongo.Collection
}

var ErrDuplicateTitle = errors.New("a team with that title already exists")

// slug collisions get a handful of suffixed retries before we give up
const slugRetries = 3

func New(db *mongo.Database) *Store {
	return &Store{
		c:           db.Collection("teams"),
		memberships: db.Collection("team_memberships"),
		invitations: db.Collection("team_invitations"),
		projects:    db.Collection("projects"),
		tickets:     db.Collection("tickets"),
	}
}

// Create inserts the team with a slug derived from its title. Title
// uniqueness is case-insensitive; slug collisions against distinct
// titles are resolved with a random suffix.
func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.TitleCI = text.Fold(t.Title)
	t.CreatedAt = now
	t.UpdatedAt = now

	base := slugify.Make(t.Title)
	t.Slug = base
	for attempt := 0; ; attempt++ {
		_, err := s.c.InsertOne(ctx, t)
		if err == nil {
			return t, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Team{}, err
		}
		// The title_ci and slug unique indexes both surface as a dup key
		// error. A same-title insert keeps failing no matter the slug, so
		// check for it explicitly before retrying.
		n, cerr := s.c.CountDocuments(ctx, bson.M{"title_ci": t.TitleCI})
		if cerr != nil {
			return models.Team{}, cerr
		}
		if n > 0 {
			return models.Team{}, ErrDuplicateTitle
		}
		if attempt >= slugRetries {
			return models.Team{}, err
		}
		t.Slug = slugify.WithSuffix(base)
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// GetBySlug returns the team addressed by its URL slug. Returns
// mongo.ErrNoDocuments when absent.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// GetMany returns the teams for the given IDs, in no particular order.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var teams []models.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// UpdateDescription replaces the team description. The title and slug
// are fixed at creation.
func (s *Store) UpdateDescription(ctx context.Context, id primitive.ObjectID, description string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"description": description,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the team and everything scoped to it: memberships and
// invitations are deleted outright, while projects and tickets survive
// with their team reference cleared. Callers run this inside txn.Run.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.memberships.DeleteMany(ctx, bson.M{"team_id": id}); err != nil {
		return err
	}
	if _, err := s.invitations.DeleteMany(ctx, bson.M{"team_id": id}); err != nil {
		return err
	}
	unlink := bson.M{"$set": bson.M{"team_id": nil}}
	if _, err := s.projects.UpdateMany(ctx, bson.M{"team_id": id}, unlink); err != nil {
		return err
	}
	if _, err := s.tickets.UpdateMany(ctx, bson.M{"team_id": id}, unlink); err != nil {
		return err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
