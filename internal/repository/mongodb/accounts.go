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

// CreateAccount inserts an account. The collated unique index on username rejects
// case variants, including concurrent ones.
func (r *MongoDBRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	if _, err := r.FindAccountByUsername(ctx, account.Username); err == nil {
		return fmt.Errorf("%w: username %q already taken", models.ErrInvalidArgument, account.Username)
	}

	account.ID = primitive.NewObjectID()
	if _, err := r.coll(accountsCollection).InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: username %q already taken", models.ErrInvalidArgument, account.Username)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetAccount loads an account by id.
func (r *MongoDBRepository) GetAccount(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	var account models.Account
	err := r.coll(accountsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return account, notFound("account", id)
	}
	if err != nil {
		return account, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

// FindAccountByUsername loads an account by case-insensitive username.
func (r *MongoDBRepository) FindAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	var account models.Account
	err := r.coll(accountsCollection).FindOne(ctx,
		bson.M{"username": username},
		options.FindOne().SetCollation(usernameCollation),
	).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return account, fmt.Errorf("%w: account %q", models.ErrNotFound, username)
	}
	if err != nil {
		return account, fmt.Errorf("find account by username: %w", err)
	}
	return account, nil
}

// DeleteAccount removes the account and unsets it as authorizer on requests in
// one transaction.
func (r *MongoDBRepository) DeleteAccount(ctx context.Context, id primitive.ObjectID) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.coll(accountsCollection).DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, fmt.Errorf("delete account: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, notFound("account", id)
		}
		_, err = r.coll(requestsCollection).UpdateMany(sc,
			bson.M{"authorized_by": id},
			bson.M{"$unset": bson.M{"authorized_by": ""}},
		)
		if err != nil {
			return nil, fmt.Errorf("clear authorizer references: %w", err)
		}
		return nil, nil
	})
	return err
}
