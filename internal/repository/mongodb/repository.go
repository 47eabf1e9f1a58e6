package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/repository"
)

const (
	accountsCollection = "accounts"
	stocksCollection   = "stocks"
	feedsCollection    = "feeds"
	farmersCollection  = "farmers"
	requestsCollection = "chick_requests"
	auditCollection    = "audit_logs"
)

var _ repository.Store = (*MongoDBRepository)(nil)

// MongoDBRepository implements repository.Store on MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository creates a new MongoDB repository and ensures its indexes.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// usernameCollation compares usernames case-insensitively.
var usernameCollation = &options.Collation{Locale: "en", Strength: 2}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		accountsCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetCollation(usernameCollation)},
		},
		farmersCollection: {
			{Keys: bson.D{{Key: "nin", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		requestsCollection: {
			{Keys: bson.D{{Key: "farmer_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "authorized_at", Value: 1}}},
			{Keys: bson.D{{Key: "authorized_by", Value: 1}}},
		},
		auditCollection: {
			{Keys: bson.D{{Key: "entity_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := r.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) coll(name string) *mongo.Collection {
	return r.db.Collection(name)
}

// searchFilter builds a case-insensitive substring match over fields.
func searchFilter(query string, fields ...string) bson.M {
	query = strings.TrimSpace(query)
	if query == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: pattern})
	}
	return bson.M{"$or": or}
}

// findPage runs a paginated find and decodes into a Page.
func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, lf models.ListFilter) (models.Page[T], error) {
	lf = lf.Normalize()
	page := models.Page[T]{Items: []T{}, Page: lf.Page, PageSize: lf.PageSize}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return page, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	page.Total = total

	opts := options.Find().SetSort(sort).SetSkip(int64(lf.Skip())).SetLimit(int64(lf.PageSize))
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return page, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	if err := cursor.All(ctx, &page.Items); err != nil {
		return page, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return page, nil
}

// sumField totals a numeric field across a collection.
func sumField(ctx context.Context, coll *mongo.Collection, field string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + field}}},
		}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate %s.%s: %w", coll.Name(), field, err)
	}

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode %s.%s sum: %w", coll.Name(), field, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func notFound(kind string, id primitive.ObjectID) error {
	return fmt.Errorf("%w: %s %s", models.ErrNotFound, kind, id.Hex())
}
