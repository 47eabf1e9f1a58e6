package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/young4chicks/brooder/internal/domain/models"
)

// CreateRequest inserts a chick request.
func (r *MongoDBRepository) CreateRequest(ctx context.Context, req *models.ChickRequest) error {
	req.ID = primitive.NewObjectID()
	if _, err := r.coll(requestsCollection).InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert chick request: %w", err)
	}
	return nil
}

// GetRequest loads a chick request.
func (r *MongoDBRepository) GetRequest(ctx context.Context, id primitive.ObjectID) (models.ChickRequest, error) {
	var req models.ChickRequest
	err := r.coll(requestsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return req, notFound("request", id)
	}
	if err != nil {
		return req, fmt.Errorf("find chick request: %w", err)
	}
	return req, nil
}

// ListRequests pages through requests, newest first.
func (r *MongoDBRepository) ListRequests(ctx context.Context, filter models.ListFilter) (models.Page[models.ChickRequest], error) {
	query := searchFilter(filter.Search, "farmer_name", "category", "breed")
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return findPage[models.ChickRequest](ctx, r.coll(requestsCollection), query, newestFirst, filter)
}

// ListFarmerRequests returns every request of one farmer, newest first.
func (r *MongoDBRepository) ListFarmerRequests(ctx context.Context, farmerID primitive.ObjectID) ([]models.ChickRequest, error) {
	return r.findRequests(ctx, bson.M{"farmer_id": farmerID})
}

// TransitionRequest is a compare-and-set on the request status.
func (r *MongoDBRepository) TransitionRequest(ctx context.Context, id primitive.ObjectID, from, to models.RequestStatus) (models.ChickRequest, error) {
	if !from.CanTransition(to) {
		return models.ChickRequest{}, fmt.Errorf("%w: cannot move a request from %s to %s", models.ErrInvalidArgument, from, to)
	}
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to}}
	return r.conditionalUpdate(ctx, id, filter, update, from)
}

// MarkSold stamps the sale provenance on an approved request in one write.
func (r *MongoDBRepository) MarkSold(ctx context.Context, id primitive.ObjectID, sale models.Sale) (models.ChickRequest, error) {
	filter := bson.M{"_id": id, "status": models.RequestApproved}
	update := bson.M{"$set": bson.M{
		"status":           models.RequestSold,
		"sales_authorized": true,
		"authorized_by":    sale.AgentID,
		"authorized_at":    sale.At,
	}}
	return r.conditionalUpdate(ctx, id, filter, update, models.RequestApproved)
}

// MarkDelivered flags a sold request as delivered.
func (r *MongoDBRepository) MarkDelivered(ctx context.Context, id primitive.ObjectID) (models.ChickRequest, error) {
	filter := bson.M{"_id": id, "status": models.RequestSold}
	update := bson.M{"$set": bson.M{"delivered": models.Yes}}
	return r.conditionalUpdate(ctx, id, filter, update, models.RequestSold)
}

// CountRequests counts requests, optionally restricted to one status.
func (r *MongoDBRepository) CountRequests(ctx context.Context, status models.RequestStatus) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	n, err := r.coll(requestsCollection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count chick requests: %w", err)
	}
	return n, nil
}

// CountAgentSales counts requests authorized by one agent.
func (r *MongoDBRepository) CountAgentSales(ctx context.Context, agentID primitive.ObjectID) (int64, error) {
	n, err := r.coll(requestsCollection).CountDocuments(ctx, bson.M{"authorized_by": agentID})
	if err != nil {
		return 0, fmt.Errorf("count agent sales: %w", err)
	}
	return n, nil
}

// ListSoldBetween returns sold requests authorized in [start, end).
func (r *MongoDBRepository) ListSoldBetween(ctx context.Context, start, end time.Time) ([]models.ChickRequest, error) {
	return r.findRequests(ctx, bson.M{
		"status":        models.RequestSold,
		"authorized_at": bson.M{"$gte": start, "$lt": end},
	})
}

func (r *MongoDBRepository) findRequests(ctx context.Context, filter bson.M) ([]models.ChickRequest, error) {
	cursor, err := r.coll(requestsCollection).Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find chick requests: %w", err)
	}

	out := []models.ChickRequest{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode chick requests: %w", err)
	}
	return out, nil
}

// conditionalUpdate applies update only when filter still matches. When it does
// not, a follow-up read tells a missing record apart from a status mismatch.
func (r *MongoDBRepository) conditionalUpdate(ctx context.Context, id primitive.ObjectID, filter, update bson.M, expected models.RequestStatus) (models.ChickRequest, error) {
	var updated models.ChickRequest
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.coll(requestsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return updated, fmt.Errorf("update chick request: %w", err)
	}

	current, getErr := r.GetRequest(ctx, id)
	if getErr != nil {
		return updated, getErr
	}
	return updated, fmt.Errorf("%w: request is %s, expected %s", models.ErrInvalidState, current.Status, expected)
}
