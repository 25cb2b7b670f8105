// internal/app/store/invitations/invitationstore.go
package invitationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/trackhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateInvitation = errors.New("an invitation with that token already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("team_invitations")}
}

// Create issues a pending invitation with a fresh opaque token. Expiry
// is not stored; it is computed from created_on against the fixed TTL.
func (s *Store) Create(ctx context.Context, teamID primitive.ObjectID, inviteeID *primitive.ObjectID, inviteeEmail string) (models.TeamInvitation, error) {
	inv := models.TeamInvitation{
		ID:           primitive.NewObjectID(),
		Token:        uuid.New().String(),
		TeamID:       teamID,
		InviteeID:    inviteeID,
		InviteeEmail: inviteeEmail,
		Status:       models.InvitationPending,
		CreatedOn:    time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		if wafflemongo.IsDup(err) {
			return models.TeamInvitation{}, ErrDuplicateInvitation
		}
		return models.TeamInvitation{}, err
	}
	return inv, nil
}

func (s *Store) GetByToken(ctx context.Context, token string) (models.TeamInvitation, error) {
	var inv models.TeamInvitation
	if err := s.c.FindOne(ctx, bson.M{"token": token}).Decode(&inv); err != nil {
		return models.TeamInvitation{}, err
	}
	return inv, nil
}

// ListPendingForUser returns the user's pending invitations, newest
// first. Expired ones are included; the caller decides how to render
// them.
func (s *Store) ListPendingForUser(ctx context.Context, userID primitive.ObjectID) ([]models.TeamInvitation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_on", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{
		"invitee_id": userID,
		"status":     models.InvitationPending,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var invs []models.TeamInvitation
	if err := cur.All(ctx, &invs); err != nil {
		return nil, err
	}
	return invs, nil
}

// CountPendingForUser reports how many pending invitations await the
// user, for the badge in the navigation bar.
func (s *Store) CountPendingForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"invitee_id": userID,
		"status":     models.InvitationPending,
	})
}

// CountPendingForTeam counts the team's outstanding invitations.
func (s *Store) CountPendingForTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"team_id": teamID,
		"status":  models.InvitationPending,
	})
}

// HasPending reports whether the team already has a pending invitation
// out to the user.
func (s *Store) HasPending(ctx context.Context, teamID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"team_id":    teamID,
		"invitee_id": userID,
		"status":     models.InvitationPending,
	})
	return n > 0, err
}

// SetStatus transitions a pending invitation to accepted or declined.
// The filter insists on pending so a double submit cannot flip an
// already-resolved invitation.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status int) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.InvitationPending},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteExpired removes pending invitations whose created_on predates
// cutoff. Accepted and declined invitations are kept.
func (s *Store) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"status":     models.InvitationPending,
		"created_on": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByTeam removes all of a team's invitations, as part of team
// deletion.
func (s *Store) DeleteByTeam(ctx context.Context, teamID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"team_id": teamID})
	return err
}
