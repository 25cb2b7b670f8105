// internal/app/store/ticketfiles/filestore.go
package filestore

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrDuplicateFileTitle means the ticket already has an attachment with
// that title.
var ErrDuplicateFileTitle = errors.New("this ticket already has a file with that title")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ticket_files")}
}

func (s *Store) Create(ctx context.Context, f models.TicketFile) (models.TicketFile, error) {
	f.ID = primitive.NewObjectID()
	f.TitleCI = text.Fold(f.Title)
	f.UploadedOn = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		if wafflemongo.IsDup(err) {
			return models.TicketFile{}, ErrDuplicateFileTitle
		}
		return models.TicketFile{}, err
	}
	return f, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.TicketFile, error) {
	var f models.TicketFile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return models.TicketFile{}, err
	}
	return f, nil
}

// ListByTicket returns the ticket's attachments ordered by title.
func (s *Store) ListByTicket(ctx context.Context, ticketID primitive.ObjectID) ([]models.TicketFile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"ticket_id": ticketID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var fs []models.TicketFile
	if err := cur.All(ctx, &fs); err != nil {
		return nil, err
	}
	return fs, nil
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

// DeleteByTicket removes all of a ticket's attachment records. Stored
// file contents are cleaned up separately by the caller.
func (s *Store) DeleteByTicket(ctx context.Context, ticketID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"ticket_id": ticketID})
	return err
}
