package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender of a registered farmer.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// FarmerCategory distinguishes first-time from returning farmers.
type FarmerCategory string

const (
	FarmerStarter   FarmerCategory = "starter"
	FarmerReturning FarmerCategory = "returning"
)

// FarmerStatus is the approval state of a farmer.
type FarmerStatus string

const (
	FarmerPending  FarmerStatus = "pending"
	FarmerApproved FarmerStatus = "approved"
	FarmerRejected FarmerStatus = "rejected"
)

// Farmer is an individual registered to receive chicks.
type Farmer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"farmer_name"`
	Gender          Gender             `bson:"gender" json:"farmer_gender"`
	NIN             string             `bson:"nin" json:"nin"`
	RecommenderName string             `bson:"recommender_name" json:"recommender_name"`
	RecommenderNIN  string             `bson:"recommender_nin" json:"recommender_nin"`
	Phone           string             `bson:"phone" json:"phone_number"`
	Age             int                `bson:"age" json:"farmer_age"`
	Category        FarmerCategory     `bson:"category" json:"type_of_farmer"`
	Status          FarmerStatus       `bson:"status" json:"status"`
	RegisteredAt    time.Time          `bson:"registered_at" json:"date_registered"`
}

// FarmerSummary is the compact projection used by request forms.
type FarmerSummary struct {
	Name     string         `json:"farmer_name"`
	Phone    string         `json:"phone_number"`
	Category FarmerCategory `json:"type_of_farmer"`
	Age      int            `json:"farmer_age"`
}

// Summary projects the farmer onto FarmerSummary.
func (f Farmer) Summary() FarmerSummary {
	return FarmerSummary{Name: f.Name, Phone: f.Phone, Category: f.Category, Age: f.Age}
}
