package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers         = "users"
	collectionSocieties     = "societies"
	collectionEvents        = "events"
	collectionRegistrations = "registrations"
	collectionAuthUsers     = "auth_users"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the indexes every repository relies on, including the
// unique (user_id, event_id) pair that makes registration idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collectionSocieties: {
			{Keys: bson.D{{Key: "contact_email", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collectionEvents: {
			{Keys: bson.D{{Key: "verified", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "society_id", Value: 1}, {Key: "event_date", Value: -1}}},
		},
		collectionRegistrations: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "event_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "event_id", Value: 1}}},
		},
		collectionAuthUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "confirmation_token", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// classify maps driver failures onto domain errors: unreachable or timed out
// servers become ErrConnectivity, everything else is surfaced verbatim.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, domain.ErrConnectivity)
	}
	return &domain.BackendError{Op: op, Err: err}
}
