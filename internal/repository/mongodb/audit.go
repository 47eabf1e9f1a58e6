package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/young4chicks/brooder/internal/domain/models"
)

// AppendAudit inserts an audit entry.
func (r *MongoDBRepository) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	entry.ID = primitive.NewObjectID()
	if _, err := r.coll(auditCollection).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// ListAudit returns the audit trail of one entity, oldest first.
func (r *MongoDBRepository) ListAudit(ctx context.Context, entityID primitive.ObjectID) ([]models.AuditEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll(auditCollection).Find(ctx, bson.M{"entity_id": entityID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit entries: %w", err)
	}

	out := []models.AuditEntry{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode audit entries: %w", err)
	}
	return out, nil
}
