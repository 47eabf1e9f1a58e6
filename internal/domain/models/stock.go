package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultChickPrice is the price of one chick in UGX.
const DefaultChickPrice int64 = 1650

// ChickCategory enumerates the kinds of chicks handled.
type ChickCategory string

const (
	CategoryBroilers ChickCategory = "Broilers"
	CategoryLayers   ChickCategory = "Layers"
)

// ChickBreed enumerates supported breeds.
type ChickBreed string

const (
	BreedLocal  ChickBreed = "local"
	BreedExotic ChickBreed = "exotic"
)

// StockLot is a batch of chicks held in inventory.
type StockLot struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"stock_name"`
	Category    ChickCategory      `bson:"category" json:"chick_type"`
	Breed       ChickBreed         `bson:"breed" json:"chick_breed"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	UnitPrice   int64              `bson:"unit_price" json:"price"`
	AgeDays     int                `bson:"age_days" json:"chicks_period"`
	ManagerName string             `bson:"manager_name" json:"manager_name"`
	CreatedAt   time.Time          `bson:"created_at" json:"date_added"`
}

// TotalValue is the quantity multiplied by the per-chick price.
func (s StockLot) TotalValue() int64 {
	return int64(s.Quantity) * s.UnitPrice
}

// FeedLot is a batch of feed bags held in inventory.
type FeedLot struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name_of_feeds"`
	Brand           string             `bson:"brand" json:"brand_of_feeds"`
	Type            string             `bson:"type" json:"type_of_feeds"`
	Quantity        int                `bson:"quantity" json:"quantity_of_feeds"`
	UnitPrice       float64            `bson:"unit_price" json:"unit_price"`
	UnitCost        float64            `bson:"unit_cost" json:"unit_cost"`
	SellingPrice    float64            `bson:"selling_price" json:"selling_price"`
	BuyingPrice     float64            `bson:"buying_price" json:"buying_price"`
	SupplierName    string             `bson:"supplier_name" json:"supplier_name"`
	SupplierContact string             `bson:"supplier_contact" json:"supplier_contact"`
	CreatedAt       time.Time          `bson:"created_at" json:"date"`
}

// CategoryTotal is the summed quantity of stock for one chick category.
type CategoryTotal struct {
	Category ChickCategory `bson:"_id" json:"chick_type"`
	Quantity int           `bson:"quantity" json:"total_quantity"`
}
