package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"skillshare/internal/model"
)

// SessionRepo handles MongoDB operations for the Sessions collection
type SessionRepo interface {
	Create(ctx context.Context, session *model.Session) (string, error)
	GetByID(ctx context.Context, id string) (*model.Session, error)
	List(ctx context.Context) ([]*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id string) error
	AddParticipant(ctx context.Context, id, uid string) error
	RemoveParticipant(ctx context.Context, id, uid string) error
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("Sessions"),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) (string, error) {
	if session.ID == "" {
		session.ID = primitive.NewObjectID().Hex()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.Participants == nil {
		session.Participants = []string{}
	}

	_, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return "", err
	}
	return session.ID, nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// List fetches the whole collection in the store's natural order; the
// listing applies no sort.
func (r *sessionRepo) List(ctx context.Context) ([]*model.Session, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Update writes only the editable fields. The roster is owned by
// AddParticipant/RemoveParticipant, so a concurrent join can never be
// erased by an edit.
func (r *sessionRepo) Update(ctx context.Context, session *model.Session) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": session.ID}, bson.M{
		"$set": bson.M{
			"title":           session.Title,
			"description":     session.Description,
			"category":        session.Category,
			"difficulty":      session.Difficulty,
			"date":            session.Date,
			"tags":            session.Tags,
			"maxParticipants": session.MaxParticipants,
			"updatedAt":       session.UpdatedAt,
		},
	})
	return err
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AddParticipant adds uid to the roster with set-union semantics, so a
// double-click or retried request cannot produce duplicates.
func (r *sessionRepo) AddParticipant(ctx context.Context, id, uid string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"participants": uid},
	})
	return err
}

// RemoveParticipant removes uid from the roster; removing an absent uid is
// a no-op at the store level.
func (r *sessionRepo) RemoveParticipant(ctx context.Context, id, uid string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"participants": uid},
	})
	return err
}
