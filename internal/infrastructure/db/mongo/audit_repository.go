package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/itamhq/itam-api/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(auditCollection), now: time.Now}
}

type auditDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Entity        string             `bson:"entity"`
	EntityID      int64              `bson:"entity_id"`
	Action        string             `bson:"action"`
	ActorID       *int64             `bson:"actor_id,omitempty"`
	ActorUsername string             `bson:"actor_username,omitempty"`
	At            time.Time          `bson:"at"`
	RecordedAt    time.Time          `bson:"recorded_at"`
}

func toAuditDocument(rec domain.AuditRecord, recordedAt time.Time) auditDocument {
	return auditDocument{
		Entity:        rec.Entity,
		EntityID:      rec.EntityID,
		Action:        string(rec.Action),
		ActorID:       rec.ActorID,
		ActorUsername: rec.ActorUsername,
		At:            rec.At.UTC(),
		RecordedAt:    recordedAt.UTC(),
	}
}

// InsertAudit appends a record to the audit_events collection.
func (r *AuditRepository) InsertAudit(ctx context.Context, rec domain.AuditRecord) error {
	if _, err := r.col.InsertOne(ctx, toAuditDocument(rec, r.now())); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes on the audit collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "entity_id", Value: 1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}}},
		{Keys: bson.D{{Key: "at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
