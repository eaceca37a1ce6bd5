package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
)

// feedbackDocument is the stored shape; ObjectIDs give the insertion order.
type feedbackDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	Name            string             `bson:"name"`
	Email           string             `bson:"email"`
	FeedbackType    string             `bson:"feedback_type"`
	FeedbackMessage string             `bson:"feedback_message"`
}

// MongoStore keeps feedback in a Mongo collection.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (s *MongoStore) Insert(ctx context.Context, rec models.FeedbackRecord) error {
	doc := feedbackDocument{
		ID:              primitive.NewObjectID(),
		CreatedAt:       rec.CreatedAt,
		Name:            rec.Name,
		Email:           rec.Email,
		FeedbackType:    rec.FeedbackType,
		FeedbackMessage: rec.FeedbackMessage,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err := s.col.InsertOne(ctx, doc)
	return wrap("mongo", "insert", err)
}

// ListRecent sorts on _id descending, newest document first.
func (s *MongoStore) ListRecent(ctx context.Context, limit int) ([]models.FeedbackRecord, error) {
	if limit <= 0 {
		return []models.FeedbackRecord{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrap("mongo", "list_recent", err)
	}
	defer cur.Close(ctx)

	var docs []feedbackDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, wrap("mongo", "list_recent", err)
	}

	out := make([]models.FeedbackRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.FeedbackRecord{
			ID:              d.ID.Hex(),
			CreatedAt:       d.CreatedAt,
			Name:            d.Name,
			Email:           d.Email,
			FeedbackType:    d.FeedbackType,
			FeedbackMessage: d.FeedbackMessage,
		})
	}
	return out, nil
}
