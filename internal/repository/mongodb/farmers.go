package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/young4chicks/brooder/internal/domain/models"
)

// CreateFarmer inserts a farmer; national ids are unique.
func (r *MongoDBRepository) CreateFarmer(ctx context.Context, farmer *models.Farmer) error {
	farmer.ID = primitive.NewObjectID()
	if _, err := r.coll(farmersCollection).InsertOne(ctx, farmer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: national id %s already registered", models.ErrInvalidArgument, farmer.NIN)
		}
		return fmt.Errorf("failed to insert farmer: %w", err)
	}
	return nil
}

// GetFarmer loads a farmer.
func (r *MongoDBRepository) GetFarmer(ctx context.Context, id primitive.ObjectID) (models.Farmer, error) {
	var farmer models.Farmer
	err := r.coll(farmersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&farmer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return farmer, notFound("farmer", id)
	}
	if err != nil {
		return farmer, fmt.Errorf("find farmer: %w", err)
	}
	return farmer, nil
}

// ListFarmers pages through farmers ordered by name.
func (r *MongoDBRepository) ListFarmers(ctx context.Context, filter models.ListFilter) (models.Page[models.Farmer], error) {
	query := searchFilter(filter.Search, "name", "nin", "phone", "recommender_name")
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	sort := bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}
	return findPage[models.Farmer](ctx, r.coll(farmersCollection), query, sort, filter)
}

// RecentFarmers returns the most recently registered farmers.
func (r *MongoDBRepository) RecentFarmers(ctx context.Context, limit int) ([]models.Farmer, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "registered_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll(farmersCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent farmers: %w", err)
	}

	out := []models.Farmer{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode recent farmers: %w", err)
	}
	return out, nil
}

// SetFarmerStatus writes status and returns the value it replaced.
func (r *MongoDBRepository) SetFarmerStatus(ctx context.Context, id primitive.ObjectID, status models.FarmerStatus) (models.FarmerStatus, error) {
	var before models.Farmer
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	err := r.coll(farmersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}, opts).
		Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", notFound("farmer", id)
	}
	if err != nil {
		return "", fmt.Errorf("update farmer status: %w", err)
	}
	return before.Status, nil
}

// DeleteFarmer removes a farmer and its requests in one transaction.
func (r *MongoDBRepository) DeleteFarmer(ctx context.Context, id primitive.ObjectID) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.coll(farmersCollection).DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, fmt.Errorf("delete farmer: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, notFound("farmer", id)
		}
		if _, err := r.coll(requestsCollection).DeleteMany(sc, bson.M{"farmer_id": id}); err != nil {
			return nil, fmt.Errorf("delete farmer requests: %w", err)
		}
		return nil, nil
	})
	return err
}

// CountFarmers counts farmers, optionally restricted to one status.
func (r *MongoDBRepository) CountFarmers(ctx context.Context, status models.FarmerStatus) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	n, err := r.coll(farmersCollection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count farmers: %w", err)
	}
	return n, nil
}
