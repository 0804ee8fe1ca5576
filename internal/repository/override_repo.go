package repository

import (
	"context"
	"pedtriage/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OverrideRepo handles MongoDB operations for the override audit log.
// The log is append-only; sequence order within a session is assigned by
// the engine before the write ever happens.
type OverrideRepo interface {
	Append(ctx context.Context, override *model.Override) error
	BySession(ctx context.Context, sessionID string) ([]*model.Override, error)
	Flagged(ctx context.Context, limit int64) ([]*model.Override, error)
}

type overrideRepo struct {
	collection *mongo.Collection
}

// NewOverrideRepo creates a new override repository
func NewOverrideRepo(db *mongo.Database) OverrideRepo {
	return &overrideRepo{
		collection: db.Collection("overrides"),
	}
}

func (r *overrideRepo) Append(ctx context.Context, override *model.Override) error {
	_, err := r.collection.InsertOne(ctx, override)
	return err
}

func (r *overrideRepo) BySession(ctx context.Context, sessionID string) ([]*model.Override, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var overrides []*model.Override
	if err = cursor.All(ctx, &overrides); err != nil {
		return nil, err
	}

	return overrides, nil
}

// Flagged returns audit-flagged overrides across sessions, newest first.
func (r *overrideRepo) Flagged(ctx context.Context, limit int64) ([]*model.Override, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"auditFlag": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var overrides []*model.Override
	if err = cursor.All(ctx, &overrides); err != nil {
		return nil, err
	}

	return overrides, nil
}
