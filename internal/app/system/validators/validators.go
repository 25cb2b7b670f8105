// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Core collections this app uses
	ensure("users", usersSchema())
	ensure("teams", teamsSchema())
	ensure("team_memberships", teamMembershipsSchema())
	ensure("team_invitations", teamInvitationsSchema())
	ensure("projects", projectsSchema())
	ensure("tickets", ticketsSchema())
	ensure("comments", commentsSchema())

	// File records vary by storage backend; we still ensure the collection exists.
	ensure("ticket_files", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"username", "username_ci"},
			"properties": bson.M{
				"username":              bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"username_ci":           bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"name":                  bson.M{"bsonType": "string"},
				"email":                 bson.M{"bsonType": bson.A{"string", "null"}},
				"is_staff":              bson.M{"bsonType": "bool"},
				"notification_settings": bson.M{"bsonType": bson.A{"object", "null"}},
			},
		},
	}
}

func teamsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "title_ci", "slug"},
			"properties": bson.M{
				"title":       bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"title_ci":    bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"slug":        bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"description": bson.M{"bsonType": "string"},
			},
		},
	}
}

func teamMembershipsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"team_id", "user_id", "role"},
			"properties": bson.M{
				"team_id":    bson.M{"bsonType": "objectId"},
				"user_id":    bson.M{"bsonType": "objectId"},
				"role":       bson.M{"enum": bson.A{int32(1), int32(2), int32(3)}},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func teamInvitationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"token", "team_id", "status", "created_on"},
			"properties": bson.M{
				"token":         bson.M{"bsonType": "string", "minLength": 1},
				"team_id":       bson.M{"bsonType": "objectId"},
				"invitee_id":    bson.M{"bsonType": bson.A{"objectId", "null"}},
				"invitee_email": bson.M{"bsonType": "string"},
				"status":        bson.M{"enum": bson.A{int32(1), int32(2), int32(3)}},
				"created_on":    bson.M{"bsonType": "date"},
			},
		},
	}
}

func projectsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "title_ci"},
			"properties": bson.M{
				"team_id":        bson.M{"bsonType": bson.A{"objectId", "null"}},
				"title":          bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"title_ci":       bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"description":    bson.M{"bsonType": "string"},
				"manager_id":     bson.M{"bsonType": bson.A{"objectId", "null"}},
				"is_archived":    bson.M{"bsonType": "bool"},
				"developer_ids":  bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
				"subscriber_ids": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
			},
		},
	}
}

func ticketsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"project_id", "submitter_id", "title", "title_ci", "priority", "status"},
			"properties": bson.M{
				"project_id":     bson.M{"bsonType": "objectId"},
				"team_id":        bson.M{"bsonType": bson.A{"objectId", "null"}},
				"submitter_id":   bson.M{"bsonType": "objectId"},
				"title":          bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"title_ci":       bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"description":    bson.M{"bsonType": "string"},
				"resolution":     bson.M{"bsonType": "string"},
				"priority":       bson.M{"enum": bson.A{"low", "medium", "high", "urgent"}},
				"status":         bson.M{"enum": bson.A{"open", "closed"}},
				"developer_ids":  bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
				"subscriber_ids": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
			},
		},
	}
}

func commentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"ticket_id", "author_id", "text", "created_on"},
			"properties": bson.M{
				"ticket_id":  bson.M{"bsonType": "objectId"},
				"author_id":  bson.M{"bsonType": "objectId"},
				"text":       bson.M{"bsonType": "string", "minLength": 1},
				"created_on": bson.M{"bsonType": "date"},
			},
		},
	}
}
