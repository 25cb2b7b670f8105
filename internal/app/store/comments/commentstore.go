// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"time"

	"github.com/dalemusser/trackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

func (s *Store) Create(ctx context.Context, ticketID, authorID primitive.ObjectID, text string) (models.Comment, error) {
	cm := models.Comment{
		ID:        primitive.NewObjectID(),
		TicketID:  ticketID,
		AuthorID:  authorID,
		Text:      text,
		CreatedOn: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, cm); err != nil {
		return models.Comment{}, err
	}
	return cm, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	var cm models.Comment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cm); err != nil {
		return models.Comment{}, err
	}
	return cm, nil
}

// ListByTicket returns the ticket's comments, newest first.
func (s *Store) ListByTicket(ctx context.Context, ticketID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_on", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"ticket_id": ticketID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cms []models.Comment
	if err := cur.All(ctx, &cms); err != nil {
		return nil, err
	}
	return cms, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteByTicket removes all of a ticket's comments.
func (s *Store) DeleteByTicket(ctx context.Context, ticketID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"ticket_id": ticketID})
	return err
}
