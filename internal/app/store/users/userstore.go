// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/trackhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateUsername = errors.New("a user with that username already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.UsernameCI = text.Fold(u.Username)
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByUsername looks up a user by the case/diacritic-insensitive form of
// the username. Returns mongo.ErrNoDocuments when absent.
func (s *Store) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Decode(&u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail finds a user by exact email. Returns mongo.ErrNoDocuments
// when no account carries that address.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetMany returns the users for the given IDs, in no particular order.
// Missing IDs are silently skipped.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetPasswordHash stores a new bcrypt hash for the user.
func (s *Store) SetPasswordHash(ctx context.Context, userID primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	return err
}

// SetNotificationSetting writes one key of the user's settings map.
func (s *Store) SetNotificationSetting(ctx context.Context, userID primitive.ObjectID, key string, enabled bool) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{"$set": bson.M{
		"notification_settings." + key: enabled,
		"updated_at":                   time.Now().UTC(),
	}})
	return err
}

// SetLastViewedProject records the user's most recently viewed project.
// A nil projectID clears the pointer.
func (s *Store) SetLastViewedProject(ctx context.Context, userID primitive.ObjectID, projectID *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"last_viewed_project_id": projectID}}
	if projectID == nil {
		update = bson.M{"$unset": bson.M{"last_viewed_project_id": ""}}
	}
	_, err := s.c.UpdateByID(ctx, userID, update)
	return err
}

// ClearLastViewedProject removes the pointer from every user currently
// pointing at the given project.
func (s *Store) ClearLastViewedProject(ctx context.Context, projectID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"last_viewed_project_id": projectID},
		bson.M{"$unset": bson.M{"last_viewed_project_id": ""}})
	return err
}
