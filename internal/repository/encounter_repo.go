package repository

import (
	"context"
	"pedtriage/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EncounterRepo handles MongoDB operations for the encounter archive:
// an append-only event log plus one replayable state record per session.
// Events are never updated or deleted.
type EncounterRepo interface {
	AppendEvent(ctx context.Context, event *model.SessionEvent) error
	EventsBySession(ctx context.Context, sessionID string) ([]*model.SessionEvent, error)
	CountEvents(ctx context.Context, sessionID string) (int64, error)
	SaveRecord(ctx context.Context, state *model.SessionState) error
	GetRecord(ctx context.Context, sessionID string) (*model.SessionState, error)
}

type encounterRepo struct {
	events  *mongo.Collection
	records *mongo.Collection
}

// NewEncounterRepo creates a new encounter repository
func NewEncounterRepo(db *mongo.Database) EncounterRepo {
	return &encounterRepo{
		events:  db.Collection("encounter_events"),
		records: db.Collection("encounter_records"),
	}
}

func (r *encounterRepo) AppendEvent(ctx context.Context, event *model.SessionEvent) error {
	_, err := r.events.InsertOne(ctx, event)
	return err
}

func (r *encounterRepo) EventsBySession(ctx context.Context, sessionID string) ([]*model.SessionEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := r.events.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*model.SessionEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *encounterRepo) CountEvents(ctx context.Context, sessionID string) (int64, error) {
	return r.events.CountDocuments(ctx, bson.M{"sessionId": sessionID})
}

func (r *encounterRepo) SaveRecord(ctx context.Context, state *model.SessionState) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.records.ReplaceOne(ctx, bson.M{"session._id": state.Session.ID}, state, opts)
	return err
}

func (r *encounterRepo) GetRecord(ctx context.Context, sessionID string) (*model.SessionState, error) {
	var state model.SessionState
	err := r.records.FindOne(ctx, bson.M{"session._id": sessionID}).Decode(&state)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}
