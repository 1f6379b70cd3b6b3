package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

type SocietyRepository struct {
	col *mongo.Collection
}

func NewSocietyRepository(db *mongo.Database) *SocietyRepository {
	return &SocietyRepository{col: db.Collection(collectionSocieties)}
}

func (r *SocietyRepository) Create(ctx context.Context, s *domain.Society) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return classify("insert society", err)
	}
	return nil
}

func (r *SocietyRepository) List(ctx context.Context, limit int) ([]domain.Society, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify("list societies", err)
	}
	out := []domain.Society{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, classify("list societies", err)
	}
	return out, nil
}

func (r *SocietyRepository) FindByContactEmail(ctx context.Context, email string) (*domain.Society, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Society
	if err := r.col.FindOne(ctx, bson.M{"contact_email": email}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSocietyNotFound
		}
		return nil, classify("find society", err)
	}
	return &s, nil
}

func (r *SocietyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return classify("delete society", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSocietyNotFound
	}
	return nil
}
