package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/young4chicks/brooder/internal/domain/models"
)

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// CreateStock inserts a stock lot.
func (r *MongoDBRepository) CreateStock(ctx context.Context, lot *models.StockLot) error {
	lot.ID = primitive.NewObjectID()
	if _, err := r.coll(stocksCollection).InsertOne(ctx, lot); err != nil {
		return fmt.Errorf("failed to insert stock: %w", err)
	}
	return nil
}

// GetStock loads a stock lot.
func (r *MongoDBRepository) GetStock(ctx context.Context, id primitive.ObjectID) (models.StockLot, error) {
	var lot models.StockLot
	err := r.coll(stocksCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&lot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return lot, notFound("stock", id)
	}
	if err != nil {
		return lot, fmt.Errorf("find stock: %w", err)
	}
	return lot, nil
}

// UpdateStock rewrites the mutable fields of a stock lot.
func (r *MongoDBRepository) UpdateStock(ctx context.Context, lot models.StockLot) error {
	update := bson.M{"$set": bson.M{
		"name":         lot.Name,
		"category":     lot.Category,
		"breed":        lot.Breed,
		"quantity":     lot.Quantity,
		"unit_price":   lot.UnitPrice,
		"age_days":     lot.AgeDays,
		"manager_name": lot.ManagerName,
	}}
	res, err := r.coll(stocksCollection).UpdateOne(ctx, bson.M{"_id": lot.ID}, update)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return notFound("stock", lot.ID)
	}
	return nil
}

// DeleteStock removes a stock lot.
func (r *MongoDBRepository) DeleteStock(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll(stocksCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound("stock", id)
	}
	return nil
}

// ListStocks pages through stock lots, newest first.
func (r *MongoDBRepository) ListStocks(ctx context.Context, filter models.ListFilter) (models.Page[models.StockLot], error) {
	query := searchFilter(filter.Search, "name", "category", "breed", "manager_name")
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	return findPage[models.StockLot](ctx, r.coll(stocksCollection), query, newestFirst, filter)
}

// SumStockQuantity totals chicks across all stock lots.
func (r *MongoDBRepository) SumStockQuantity(ctx context.Context) (int64, error) {
	return sumField(ctx, r.coll(stocksCollection), "quantity")
}

// StockByCategory totals chicks per category.
func (r *MongoDBRepository) StockByCategory(ctx context.Context) ([]models.CategoryTotal, error) {
	pipeline := bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "quantity", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cursor, err := r.coll(stocksCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate stock by category: %w", err)
	}

	out := []models.CategoryTotal{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode stock by category: %w", err)
	}
	return out, nil
}

// CreateFeed inserts a feed lot.
func (r *MongoDBRepository) CreateFeed(ctx context.Context, lot *models.FeedLot) error {
	lot.ID = primitive.NewObjectID()
	if _, err := r.coll(feedsCollection).InsertOne(ctx, lot); err != nil {
		return fmt.Errorf("failed to insert feed: %w", err)
	}
	return nil
}

// ListFeeds pages through feed lots, newest first.
func (r *MongoDBRepository) ListFeeds(ctx context.Context, filter models.ListFilter) (models.Page[models.FeedLot], error) {
	query := searchFilter(filter.Search, "name", "brand", "type", "supplier_name")
	return findPage[models.FeedLot](ctx, r.coll(feedsCollection), query, newestFirst, filter)
}

// SumFeedQuantity totals bags across all feed lots.
func (r *MongoDBRepository) SumFeedQuantity(ctx context.Context) (int64, error) {
	return sumField(ctx, r.coll(feedsCollection), "quantity")
}
