// internal/app/store/memberships/membershipstore.go
//
// Package membershipstore owns the team role records and the invariants
// around them: a team always keeps at least one owner, owners cannot be
// removed or leave while they hold the role, and demotions and removals
// cascade into the team's projects and tickets. The cascading writes are
// multi-collection, so callers wrap these methods in txn.Run.
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/trackhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c        *mongo.Collection
	projects *mongo.Collection
	tickets  *mongo.Collection
}

var (
	ErrDuplicateMembership = errors.New("user is already a member of this team")
	ErrNotMember           = errors.New("user is not a member of this team")
	ErrLastOwner           = errors.New("a team must keep at least one owner")
	ErrOwnerRemoval        = errors.New("owners cannot be removed from a team")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("team_memberships"),
		projects: db.Collection("projects"),
		tickets:  db.Collection("tickets"),
	}
}

// Add creates a membership with the given role.
func (s *Store) Add(ctx context.Context, teamID, userID primitive.ObjectID, role models.Role) (models.TeamMembership, error) {
	m := models.TeamMembership{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.TeamMembership{}, ErrDuplicateMembership
		}
		return models.TeamMembership{}, err
	}
	return m, nil
}

// RoleOf reports the user's role in the team, RoleNone when the user is
// not a member.
func (s *Store) RoleOf(ctx context.Context, teamID, userID primitive.ObjectID) (models.Role, error) {
	var m models.TeamMembership
	err := s.c.FindOne(ctx, bson.M{"team_id": teamID, "user_id": userID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.RoleNone, nil
	}
	if err != nil {
		return models.RoleNone, err
	}
	return m.Role, nil
}

// ListByTeam returns every membership of the team.
func (s *Store) ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.TeamMembership, error) {
	cur, err := s.c.Find(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ms []models.TeamMembership
	if err := cur.All(ctx, &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

// ListForUser returns the user's memberships across all teams.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.TeamMembership, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ms []models.TeamMembership
	if err := cur.All(ctx, &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

// CountOwners reports how many owners the team currently has.
func (s *Store) CountOwners(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"team_id": teamID, "role": models.RoleOwner})
}

func (s *Store) setRole(ctx context.Context, teamID, userID primitive.ObjectID, role models.Role) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"team_id": teamID, "user_id": userID},
		bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotMember
	}
	return nil
}

// AddOwner promotes an existing member to owner. Promoting someone who
// already owns the team is a no-op.
func (s *Store) AddOwner(ctx context.Context, teamID, userID primitive.ObjectID) error {
	role, err := s.RoleOf(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if role == models.RoleNone {
		return ErrNotMember
	}
	if role == models.RoleOwner {
		return nil
	}
	return s.setRole(ctx, teamID, userID, models.RoleOwner)
}

// RemoveOwner demotes an owner back to plain member. The demotion is
// refused while the team has no other owner.
func (s *Store) RemoveOwner(ctx context.Context, teamID, userID primitive.ObjectID) error {
	role, err := s.RoleOf(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if role == models.RoleNone {
		return ErrNotMember
	}
	if role != models.RoleOwner {
		return nil
	}
	n, err := s.CountOwners(ctx, teamID)
	if err != nil {
		return err
	}
	if n < 2 {
		return ErrLastOwner
	}
	return s.setRole(ctx, teamID, userID, models.RoleMember)
}

// AddManager promotes a plain member to manager. Owners and existing
// managers are left as they are.
func (s *Store) AddManager(ctx context.Context, teamID, userID primitive.ObjectID) error {
	role, err := s.RoleOf(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if role == models.RoleNone {
		return ErrNotMember
	}
	if role != models.RoleMember {
		return nil
	}
	return s.setRole(ctx, teamID, userID, models.RoleManager)
}

// RemoveManager demotes a manager back to plain member and clears them
// as manager from this team's projects. Members and owners are left as
// they are, and projects of other teams where the same user manages are
// untouched.
func (s *Store) RemoveManager(ctx context.Context, teamID, userID primitive.ObjectID) error {
	role, err := s.RoleOf(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if role == models.RoleNone {
		return ErrNotMember
	}
	if role != models.RoleManager {
		return nil
	}
	if err := s.setRole(ctx, teamID, userID, models.RoleMember); err != nil {
		return err
	}
	_, err = s.projects.UpdateMany(ctx,
		bson.M{"team_id": teamID, "manager_id": userID},
		bson.M{"$set": bson.M{"manager_id": nil}})
	return err
}

// RemoveMember deletes the membership, clears the user as manager from
// the team's projects, and pulls them from developer sets. Subscriptions
// are left in place; notification fan-out skips non-members on its own.
// Owners must give up the owner role first.
func (s *Store) RemoveMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	role, err := s.RoleOf(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if role == models.RoleNone {
		return ErrNotMember
	}
	if role == models.RoleOwner {
		return ErrOwnerRemoval
	}

	if _, err := s.projects.UpdateMany(ctx,
		bson.M{"team_id": teamID, "manager_id": userID},
		bson.M{"$set": bson.M{"manager_id": nil}}); err != nil {
		return err
	}
	pull := bson.M{"$pull": bson.M{"developer_ids": userID}}
	if _, err := s.projects.UpdateMany(ctx, bson.M{"team_id": teamID}, pull); err != nil {
		return err
	}
	if _, err := s.tickets.UpdateMany(ctx, bson.M{"team_id": teamID}, pull); err != nil {
		return err
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"team_id": teamID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotMember
	}
	return nil
}
