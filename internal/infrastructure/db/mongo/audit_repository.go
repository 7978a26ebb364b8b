package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository appends audit events to the audit_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// EnsureIndexes creates the lookup indexes used when reviewing denials.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ts", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "ts", Value: -1}}},
		{Keys: bson.D{{Key: "ip", Value: 1}, {Key: "ts", Value: -1}}, Options: options.Index().SetName("ip_ts")},
	})
	if err != nil {
		return fmt.Errorf("mongo audit indexes: %w", err)
	}
	return nil
}

// Write inserts one event.
func (r *AuditRepository) Write(ctx context.Context, event domain.AuditEvent) error {
	event.TS = event.TS.UTC()
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("mongo audit insert: %w", err)
	}
	return nil
}

// Ping reports whether the primary is reachable.
func (r *AuditRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}
