package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditAction names a recorded workflow decision.
type AuditAction string

const (
	AuditApprove AuditAction = "approve"
	AuditReject  AuditAction = "reject"
	AuditReset   AuditAction = "reset"
)

// AuditEntry is an append-only record of who changed a farmer's approval status.
type AuditEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EntityType string             `bson:"entity_type" json:"entity_type"`
	EntityID   primitive.ObjectID `bson:"entity_id" json:"entity_id"`
	Action     AuditAction        `bson:"action" json:"action"`
	ActorID    primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	ActorName  string             `bson:"actor_name" json:"actor_name"`
	From       string             `bson:"from" json:"from"`
	To         string             `bson:"to" json:"to"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
