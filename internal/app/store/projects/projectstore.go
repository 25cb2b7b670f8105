// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrArchived = errors.New("project is archived")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.TitleCI = text.Fold(p.Title)
	if p.DeveloperIDs == nil {
		p.DeveloperIDs = []primitive.ObjectID{}
	}
	if p.SubscriberIDs == nil {
		p.SubscriberIDs = []primitive.ObjectID{}
	}
	p.CreatedOn = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// UpdateInfo replaces the project's title and description.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, title, description string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"title":       title,
		"title_ci":    text.Fold(title),
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

// ToggleArchive flips the archived flag and returns the new state.
func (s *Store) ToggleArchive(ctx context.Context, id primitive.ObjectID) (bool, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	archived := !p.IsArchived
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_archived": archived,
		"updated_at":  time.Now().UTC(),
	}})
	return archived, err
}

// SetManager assigns or clears the project's manager.
func (s *Store) SetManager(ctx context.Context, id primitive.ObjectID, managerID *primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"manager_id": managerID,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddDeveloper puts the user in the project's developer set. Adding an
// existing developer is a no-op.
func (s *Store) AddDeveloper(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$addToSet": bson.M{"developer_ids": userID}})
	return err
}

func (s *Store) RemoveDeveloper(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$pull": bson.M{"developer_ids": userID}})
	return err
}

func (s *Store) Subscribe(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$addToSet": bson.M{"subscriber_ids": userID}})
	return err
}

func (s *Store) Unsubscribe(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$pull": bson.M{"subscriber_ids": userID}})
	return err
}

// ListByTeam returns the team's projects ordered by title.
func (s *Store) ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.Project, error) {
	return s.list(ctx, bson.M{"team_id": teamID})
}

// ListForTeamAndUser returns the team's projects the user can see: an
// owner or staff account sees all of them, anyone else only those they
// manage or develop on.
func (s *Store) ListForTeamAndUser(ctx context.Context, teamID, userID primitive.ObjectID, role models.Role, isStaff bool) ([]models.Project, error) {
	filter := bson.M{"team_id": teamID}
	if !isStaff && role != models.RoleOwner {
		filter["$or"] = bson.A{
			bson.M{"manager_id": userID},
			bson.M{"developer_ids": userID},
		}
	}
	return s.list(ctx, filter)
}

// ListManagedBy returns the projects the user manages in the team.
func (s *Store) ListManagedBy(ctx context.Context, teamID, userID primitive.ObjectID) ([]models.Project, error) {
	return s.list(ctx, bson.M{"team_id": teamID, "manager_id": userID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ps []models.Project
	if err := cur.All(ctx, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}
