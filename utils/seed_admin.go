package utils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/andrepriyanto/cctvadmin/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

func SeedAdminUser(ctx context.Context, usersCol *mongo.Collection, logger *zap.Logger) error {
	username := strings.TrimSpace(os.Getenv("ADMIN_USERNAME"))
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	pass := os.Getenv("ADMIN_PASSWORD")

	if username == "" || email == "" || pass == "" {
		return fmt.Errorf("missing ADMIN_USERNAME, ADMIN_EMAIL or ADMIN_PASSWORD env vars")
	}

	hash, err := HashPassword(pass)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()

	// Only insert if it doesn't exist
	filter := bson.M{"username": username}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":         "Administrator",
			"username":     username,
			"email":        email,
			"passwordHash": hash,
			"role":         models.RoleAdmin,
			"isActive":     true,
			"createdAt":    now,
			"updatedAt":    now,
		},
	}

	opts := options.UpdateOne().SetUpsert(true)

	res, err := usersCol.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("seed admin upsert failed: %w", err)
	}

	if res.UpsertedCount == 1 {
		logger.Info("admin user seeded", zap.String("username", username))
	} else {
		logger.Info("admin user already exists", zap.String("username", username))
	}

	return nil
}
