package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus is the lifecycle state of a chick request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
	RequestSold     RequestStatus = "sold"
)

// CanTransition reports whether moving from s to next is a legal step.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	switch s {
	case RequestPending:
		return next == RequestApproved || next == RequestRejected
	case RequestApproved:
		return next == RequestSold
	default:
		return false
	}
}

// YesNo is a Y/N flag.
type YesNo string

const (
	Yes YesNo = "Y"
	No  YesNo = "N"
)

// ChickRequest is a farmer's request for a quantity of chicks.
type ChickRequest struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FarmerID        primitive.ObjectID  `bson:"farmer_id" json:"farmer_id"`
	FarmerName      string              `bson:"farmer_name" json:"farmer_name"`
	Category        ChickCategory       `bson:"category" json:"chicks_type"`
	Breed           ChickBreed          `bson:"breed" json:"chicks_breed"`
	Quantity        int                 `bson:"quantity" json:"quantity"`
	AgeDays         int                 `bson:"age_days" json:"chicks_period"`
	FeedsNeeded     YesNo               `bson:"feeds_needed" json:"feeds_needed"`
	Status          RequestStatus       `bson:"status" json:"status"`
	Delivered       YesNo               `bson:"delivered" json:"delivered"`
	SalesAuthorized bool                `bson:"sales_authorized" json:"sales_authorized"`
	AuthorizedBy    *primitive.ObjectID `bson:"authorized_by,omitempty" json:"sales_authorized_by,omitempty"`
	AuthorizedAt    *time.Time          `bson:"authorized_at,omitempty" json:"sales_authorized_date,omitempty"`
	CreatedAt       time.Time           `bson:"created_at" json:"date_time"`
}

// Sale is the provenance stamped on a request when its sale is authorized.
type Sale struct {
	AgentID primitive.ObjectID
	At      time.Time
}
