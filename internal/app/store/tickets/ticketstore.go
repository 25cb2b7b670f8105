// internal/app/store/tickets/ticketstore.go
package ticketstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists tickets. It also holds the comments and ticket_files
// collections so a ticket delete can take its children with it.
type Store struct {
	c        *mongo.Collection
	comments *mongo.Collection
	files    *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("tickets"),
		comments: db.Collection("comments"),
		files:    db.Collection("ticket_files"),
	}
}

// NormalizeResolution maps a blank resolution to the unspecified
// placeholder. Open tickets store whatever they were given, blank
// included; closing applies the placeholder when nothing was ever
// recorded.
func NormalizeResolution(resolution string) string {
	if strings.TrimSpace(resolution) == "" {
		return models.ResolutionUnspecified
	}
	return resolution
}

func (s *Store) Create(ctx context.Context, t models.Ticket) (models.Ticket, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.TitleCI = text.Fold(t.Title)
	t.Status = models.StatusOpen
	if t.DeveloperIDs == nil {
		t.DeveloperIDs = []primitive.ObjectID{}
	}
	if t.SubscriberIDs == nil {
		t.SubscriberIDs = []primitive.ObjectID{}
	}
	t.CreatedOn = now
	t.LastUpdatedOn = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Ticket, error) {
	var t models.Ticket
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

// Update rewrites the ticket's editable fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, description, resolution, priority string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"title":           title,
		"title_ci":        text.Fold(title),
		"description":     description,
		"resolution":      resolution,
		"priority":        priority,
		"last_updated_on": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) setStatus(ctx context.Context, id primitive.ObjectID, from, to string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{
			"status":          to,
			"last_updated_on": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Close transitions an open ticket to closed. Returns
// mongo.ErrNoDocuments when the ticket is missing or already closed.
func (s *Store) Close(ctx context.Context, id primitive.ObjectID) error {
	return s.setStatus(ctx, id, models.StatusOpen, models.StatusClosed)
}

// Reopen transitions a closed ticket back to open.
func (s *Store) Reopen(ctx context.Context, id primitive.ObjectID) error {
	return s.setStatus(ctx, id, models.StatusClosed, models.StatusOpen)
}

// SetResolution overwrites the ticket's resolution.
func (s *Store) SetResolution(ctx context.Context, id primitive.ObjectID, resolution string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"resolution":      resolution,
		"last_updated_on": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Touch bumps the last-updated stamp, for child writes such as
// comments and file uploads.
func (s *Store) Touch(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"last_updated_on": time.Now().UTC(),
	}})
	return err
}

// AddDeveloper assigns the user to the ticket and subscribes them to
// it in the same write.
func (s *Store) AddDeveloper(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$addToSet": bson.M{
		"developer_ids":  userID,
		"subscriber_ids": userID,
	}})
	return err
}

// RemoveDeveloper unassigns the user. Their subscription stays; they
// opted into updates by being assigned and keep them until they
// unsubscribe.
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

// SubscribeToOpenByProject adds the user as subscriber on every open
// ticket of the project. Closed tickets are left alone.
func (s *Store) SubscribeToOpenByProject(ctx context.Context, projectID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"project_id": projectID, "status": models.StatusOpen},
		bson.M{"$addToSet": bson.M{"subscriber_ids": userID}})
	return err
}

// UnsubscribeFromOpenByProject removes the user as subscriber from the
// project's open tickets. Subscriptions on closed tickets survive.
func (s *Store) UnsubscribeFromOpenByProject(ctx context.Context, projectID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"project_id": projectID, "status": models.StatusOpen},
		bson.M{"$pull": bson.M{"subscriber_ids": userID}})
	return err
}

// ListByProject returns the project's tickets, urgent first, ties
// broken by most recent activity.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Ticket, error) {
	return s.list(ctx, bson.M{"project_id": projectID})
}

// ListOpenByProject returns only the project's open tickets.
func (s *Store) ListOpenByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Ticket, error) {
	return s.list(ctx, bson.M{"project_id": projectID, "status": models.StatusOpen})
}

// ListOpenSubscribedBy returns the open tickets the user subscribes to,
// across all projects.
func (s *Store) ListOpenSubscribedBy(ctx context.Context, userID primitive.ObjectID) ([]models.Ticket, error) {
	return s.list(ctx, bson.M{"subscriber_ids": userID, "status": models.StatusOpen})
}

// ListAssignedTo returns the open tickets assigned to the user within
// the team.
func (s *Store) ListAssignedTo(ctx context.Context, teamID, userID primitive.ObjectID) ([]models.Ticket, error) {
	return s.list(ctx, bson.M{
		"team_id":       teamID,
		"developer_ids": userID,
		"status":        models.StatusOpen,
	})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Ticket, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_updated_on", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ts []models.Ticket
	if err := cur.All(ctx, &ts); err != nil {
		return nil, err
	}
	// Priority levels are stored as words, so the urgency ordering is
	// applied here. The stable sort keeps the recency order within each
	// priority band.
	sort.SliceStable(ts, func(i, j int) bool {
		return models.PriorityRank(ts[i].Priority) < models.PriorityRank(ts[j].Priority)
	})
	return ts, nil
}

// Delete removes the ticket together with its comments and file
// records. Callers run this inside txn.Run.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.comments.DeleteMany(ctx, bson.M{"ticket_id": id}); err != nil {
		return err
	}
	if _, err := s.files.DeleteMany(ctx, bson.M{"ticket_id": id}); err != nil {
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
