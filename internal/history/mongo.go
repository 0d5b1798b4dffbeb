// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package history

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reelscope/reelscope/internal/models"
)

// watchedCollection is the document collection holding watch-history entries.
// One document per (user, title) log entry.
const watchedCollection = "watched_items"

// MongoStore implements Store against a MongoDB database.
type MongoStore struct {
	col *mongo.Collection
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri, database string, timeout time.Duration) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client.Database(database), nil
}

// NewMongoStore creates a Store backed by the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(watchedCollection)}
}

// GetRatedItems returns the user's items rated at or above minRating,
// most recently watched first.
func (s *MongoStore) GetRatedItems(ctx context.Context, userID string, minRating float64) ([]models.WatchedItem, error) {
	filter := bson.M{
		"userId":   userID,
		"myRating": bson.M{"$gte": minRating},
	}

	cur, err := s.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "watchedAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find rated items: %w", err)
	}
	defer cur.Close(ctx)

	var items []models.WatchedItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode rated items: %w", err)
	}

	return items, nil
}

// GetWatchedTMDBIDs returns every TMDB id in the user's history.
func (s *MongoStore) GetWatchedTMDBIDs(ctx context.Context, userID string) (map[int]struct{}, error) {
	cur, err := s.col.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetProjection(bson.M{"tmdbId": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("find watched ids: %w", err)
	}
	defer cur.Close(ctx)

	ids := make(map[int]struct{})
	for cur.Next(ctx) {
		var doc struct {
			TMDBID int `bson:"tmdbId"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode watched id: %w", err)
		}
		ids[doc.TMDBID] = struct{}{}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate watched ids: %w", err)
	}

	return ids, nil
}

// GetRecentItems returns up to limit items, most recently watched first.
func (s *MongoStore) GetRecentItems(ctx context.Context, userID string, limit int) ([]models.WatchedItem, error) {
	cur, err := s.col.Find(ctx,
		bson.M{"userId": userID},
		options.Find().
			SetSort(bson.D{{Key: "watchedAt", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("find recent items: %w", err)
	}
	defer cur.Close(ctx)

	var items []models.WatchedItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode recent items: %w", err)
	}

	return items, nil
}
