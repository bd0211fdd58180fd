package mongo

import (
	"context"
	"errors"

	"fitquest/expedition-app/internal/domain"
	"fitquest/expedition-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userExpeditionCollectionName = "userExpeditions"

// mongoUserExpeditionRepository implements repository.UserExpeditionRepository.
type mongoUserExpeditionRepository struct {
	collection *mongo.Collection
}

func NewMongoUserExpeditionRepository(db *mongo.Database) repository.UserExpeditionRepository {
	return &mongoUserExpeditionRepository{
		collection: db.Collection(userExpeditionCollectionName),
	}
}

// Create inserts a participation record. The compound unique index on
// (userProfileId, expeditionId) is the sole guard against double-joining;
// a duplicate-key error surfaces as repository.ErrDuplicate.
func (r *mongoUserExpeditionRepository) Create(ctx context.Context, participation *domain.UserExpedition) error {
	_, err := r.collection.InsertOne(ctx, participation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *mongoUserExpeditionRepository) Get(ctx context.Context, profileID, expeditionID string) (*domain.UserExpedition, error) {
	var participation domain.UserExpedition
	filter := bson.M{"userProfileId": profileID, "expeditionId": expeditionID}

	err := r.collection.FindOne(ctx, filter).Decode(&participation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &participation, nil
}

// ListByExpedition returns all participation rows for an expedition,
// optionally ordered by pointsEarned descending (leaderboard order).
func (r *mongoUserExpeditionRepository) ListByExpedition(ctx context.Context, expeditionID string, orderByPointsDesc bool) ([]domain.UserExpedition, error) {
	opts := options.Find()
	if orderByPointsDesc {
		opts.SetSort(bson.D{{Key: "pointsEarned", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, bson.M{"expeditionId": expeditionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participations []domain.UserExpedition
	if err = cursor.All(ctx, &participations); err != nil {
		return nil, err
	}
	return participations, nil
}

// ListByUser returns a user's participations, most recently joined first.
func (r *mongoUserExpeditionRepository) ListByUser(ctx context.Context, profileID string) ([]domain.UserExpedition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joinedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userProfileId": profileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participations []domain.UserExpedition
	if err = cursor.All(ctx, &participations); err != nil {
		return nil, err
	}
	return participations, nil
}

// FirstByExpedition returns one participant in storage order. Account
// deletion uses it to pick the new owner when transferring an expedition.
func (r *mongoUserExpeditionRepository) FirstByExpedition(ctx context.Context, expeditionID string) (*domain.UserExpedition, error) {
	var participation domain.UserExpedition
	err := r.collection.FindOne(ctx, bson.M{"expeditionId": expeditionID}).Decode(&participation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &participation, nil
}

func (r *mongoUserExpeditionRepository) CountByExpedition(ctx context.Context, expeditionID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"expeditionId": expeditionID})
}

// SumPointsByExpedition aggregates all participants' pointsEarned.
func (r *mongoUserExpeditionRepository) SumPointsByExpedition(ctx context.Context, expeditionID string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"expeditionId": expeditionID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$pointsEarned"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// ApplyPointsDelta atomically increments pointsEarned for one participation.
// A missing row is a silent no-op, matching the write behavior of workout
// logging for users who left the expedition's roster.
func (r *mongoUserExpeditionRepository) ApplyPointsDelta(ctx context.Context, profileID, expeditionID string, delta float64) error {
	filter := bson.M{"userProfileId": profileID, "expeditionId": expeditionID}
	update := bson.M{"$inc": bson.M{"pointsEarned": delta}}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *mongoUserExpeditionRepository) Delete(ctx context.Context, profileID, expeditionID string) error {
	filter := bson.M{"userProfileId": profileID, "expeditionId": expeditionID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoUserExpeditionRepository) DeleteByUser(ctx context.Context, profileID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userProfileId": profileID})
	return err
}

func (r *mongoUserExpeditionRepository) DeleteByExpedition(ctx context.Context, expeditionID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"expeditionId": expeditionID})
	return err
}

// EnsureUserExpeditionIndexes creates necessary indexes for the userExpeditions collection.
func EnsureUserExpeditionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userProfileId", Value: 1}, {Key: "expeditionId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expeditionId", Value: 1}, {Key: "pointsEarned", Value: -1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
