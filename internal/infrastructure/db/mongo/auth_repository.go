package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// AuthRepository stores the auth provider's credentials in auth_users.
type AuthRepository struct {
	coll *mongo.Collection
}

func NewAuthRepository(db *mongo.Database) *AuthRepository {
	return &AuthRepository{coll: db.Collection(collectionAuthUsers)}
}

type mongoCredential struct {
	ID                string    `bson:"_id"`
	Email             string    `bson:"email"`
	PasswordHash      string    `bson:"password_hash"`
	Name              string    `bson:"name,omitempty"`
	Confirmed         bool      `bson:"confirmed"`
	ConfirmationToken string    `bson:"confirmation_token,omitempty"`
	CreatedAt         time.Time `bson:"created_at"`
}

func (r *AuthRepository) Create(ctx context.Context, c *domain.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCredential{
		ID:                c.ID,
		Email:             c.Email,
		PasswordHash:      c.PasswordHash,
		Name:              c.Name,
		Confirmed:         c.Confirmed,
		ConfirmationToken: c.ConfirmationToken,
		CreatedAt:         c.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return classify("insert credential", err)
	}
	return nil
}

func (r *AuthRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AuthRepository) FindByID(ctx context.Context, id string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// Confirm marks the credential holding token as confirmed and drops the token.
func (r *AuthRepository) Confirm(ctx context.Context, token string) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set":   bson.M{"confirmed": true},
		"$unset": bson.M{"confirmation_token": ""},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoCredential
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"confirmation_token": token}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, classify("confirm credential", err)
	}
	return doc.toDomain(), nil
}

func (r *AuthRepository) findOne(ctx context.Context, filter bson.M) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoCredential
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, classify("find credential", err)
	}
	return doc.toDomain(), nil
}

func (d mongoCredential) toDomain() *domain.Credential {
	return &domain.Credential{
		ID:                d.ID,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		Name:              d.Name,
		Confirmed:         d.Confirmed,
		ConfirmationToken: d.ConfirmationToken,
		CreatedAt:         d.CreatedAt.UTC(),
	}
}
