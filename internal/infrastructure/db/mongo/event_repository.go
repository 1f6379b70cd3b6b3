package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return classify("insert event", err)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Event
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, classify("find event", err)
	}
	return &e, nil
}

// List runs an aggregation that filters, sorts and joins the owning society's name.
func (r *EventRepository) List(ctx context.Context, filter ports.EventFilter, sort ports.EventSort) ([]domain.EventWithSociety, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if filter.Verified != nil {
		match["verified"] = *filter.Verified
	}
	if filter.SocietyID != "" {
		match["society_id"] = filter.SocietyID
	}
	if len(filter.IDs) > 0 {
		match["_id"] = bson.M{"$in": filter.IDs}
	}

	pipeline := bson.A{
		bson.M{"$match": match},
		bson.M{"$sort": sortStage(sort)},
	}
	if filter.Limit > 0 {
		pipeline = append(pipeline, bson.M{"$limit": filter.Limit})
	}
	pipeline = append(pipeline, societyNameStages("society_id", "society_name")...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, classify("list events", err)
	}
	out := []domain.EventWithSociety{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, classify("list events", err)
	}
	return out, nil
}

func (r *EventRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"verified": verified}})
	if err != nil {
		return classify("update event", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func sortStage(s ports.EventSort) bson.D {
	switch s {
	case ports.SortEventDateAsc:
		return bson.D{{Key: "event_date", Value: 1}, {Key: "_id", Value: 1}}
	case ports.SortEventDateDesc:
		return bson.D{{Key: "event_date", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
	}
}

// societyNameStages joins societies on localField and writes the society name to target.
func societyNameStages(localField, target string) bson.A {
	return bson.A{
		bson.M{"$lookup": bson.M{
			"from":         collectionSocieties,
			"localField":   localField,
			"foreignField": "_id",
			"as":           "_society",
		}},
		bson.M{"$set": bson.M{
			target: bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$_society.name", 0}}, ""}},
		}},
		bson.M{"$project": bson.M{"_society": 0}},
	}
}
