// Package repository implements the services' store contracts on MongoDB.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/andrepriyanto/cctvadmin/apperrors"
	"github.com/andrepriyanto/cctvadmin/models"
	"github.com/andrepriyanto/cctvadmin/services"
	"github.com/andrepriyanto/cctvadmin/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type MongoUserStore struct {
	col *mongo.Collection
}

var _ services.UserStore = (*MongoUserStore)(nil)

func NewMongoUserStore(col *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{col: col}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	if _, err := s.col.InsertOne(ctx, user); err != nil {
		if utils.IsDuplicateKey(err) {
			// The service pre-checks uniqueness; this catches the race.
			return apperrors.Wrap(apperrors.Conflict, apperrors.MsgUsernameTaken, err)
		}
		return apperrors.Wrap(apperrors.Internal, "failed to create user", err)
	}
	return nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoUserStore) FindByDeviceToken(ctx context.Context, token string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"deviceToken": token})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.NotFound, apperrors.MsgUserNotFound)
		}
		return nil, apperrors.Wrap(apperrors.Internal, "failed to read user", err)
	}
	return &user, nil
}

func (s *MongoUserStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, apperrors.Wrap(apperrors.Internal, "failed to check username", err)
	}
	return n > 0, nil
}

func (s *MongoUserStore) EmailTaken(ctx context.Context, email string, excludeID bson.ObjectID) (bool, error) {
	filter := bson.M{"email": email}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	n, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, apperrors.Wrap(apperrors.Internal, "failed to check email", err)
	}
	return n > 0, nil
}

// BindDeviceToken is the one atomic check-then-set of the login flow: the
// filter only matches while the account is unbound or already bound to this
// very token, so two concurrent logins cannot double-bind. Cross-account
// exclusivity is enforced by the partial unique index on deviceToken.
func (s *MongoUserStore) BindDeviceToken(ctx context.Context, id bson.ObjectID, token string) error {
	filter := bson.M{
		"_id": id,
		"$or": []bson.M{
			{"deviceToken": bson.M{"$exists": false}},
			{"deviceToken": nil},
			{"deviceToken": token},
		},
	}
	update := bson.M{"$set": bson.M{
		"deviceToken": token,
		"updatedAt":   time.Now().UTC(),
	}}
	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return apperrors.Wrap(apperrors.Conflict, apperrors.MsgAccountOnOtherDevice, err)
		}
		return apperrors.Wrap(apperrors.Internal, "failed to bind device", err)
	}
	if res.MatchedCount == 0 {
		// A concurrent login bound a different device between the service's
		// read and this write.
		return apperrors.New(apperrors.Conflict, apperrors.MsgAccountOnOtherDevice)
	}
	return nil
}

func (s *MongoUserStore) ClearDeviceToken(ctx context.Context, id bson.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{"deviceToken": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "failed to clear device", err)
	}
	return nil
}

func (s *MongoUserStore) UpdateProfile(ctx context.Context, id bson.ObjectID, name, email string, passwordHash *string) error {
	set := bson.M{
		"name":      name,
		"email":     email,
		"updatedAt": time.Now().UTC(),
	}
	if passwordHash != nil {
		set["passwordHash"] = *passwordHash
	}
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return apperrors.Wrap(apperrors.Conflict, apperrors.MsgEmailTaken, err)
		}
		return apperrors.Wrap(apperrors.Internal, "failed to update profile", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.New(apperrors.NotFound, apperrors.MsgUserNotFound)
	}
	return nil
}
