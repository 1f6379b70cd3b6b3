package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

type RegistrationRepository struct {
	col *mongo.Collection
}

func NewRegistrationRepository(db *mongo.Database) *RegistrationRepository {
	return &RegistrationRepository{col: db.Collection(collectionRegistrations)}
}

// Create relies on the unique (user_id, event_id) index for idempotency.
func (r *RegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, reg); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyRegistered
		}
		return classify("insert registration", err)
	}
	return nil
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.RegistrationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$match": bson.M{"user_id": userID}},
		bson.M{"$sort": bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.M{"$limit": limit})
	}
	pipeline = append(pipeline,
		bson.M{"$lookup": bson.M{
			"from":         collectionEvents,
			"localField":   "event_id",
			"foreignField": "_id",
			"as":           "event",
		}},
		bson.M{"$unwind": bson.M{"path": "$event", "preserveNullAndEmptyArrays": true}},
	)
	pipeline = append(pipeline, societyNameStages("event.society_id", "event.society_name")...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, classify("list registrations", err)
	}
	out := []domain.RegistrationWithEvent{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, classify("list registrations", err)
	}
	return out, nil
}

func (r *RegistrationRepository) CountByEvents(ctx context.Context, eventIDs []string) (int64, error) {
	if len(eventIDs) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"event_id": bson.M{"$in": eventIDs}})
	if err != nil {
		return 0, classify("count registrations", err)
	}
	return n, nil
}
