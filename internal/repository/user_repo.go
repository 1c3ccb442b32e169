package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"skillshare/internal/model"
)

// UserRepo handles MongoDB operations for the Users collection, keyed by
// the identity uid.
type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByUID(ctx context.Context, uid string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepo struct {
	collection *mongo.Collection
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{
		collection: db.Collection("Users"),
	}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *userRepo) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"_id": uid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
