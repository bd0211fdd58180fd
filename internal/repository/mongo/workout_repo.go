package mongo

import (
	"context"
	"errors"
	"time"

	"fitquest/expedition-app/internal/domain"
	"fitquest/expedition-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, workout)
	return err
}

func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// Update persists the mutable workout fields. IsSolo, the owning profile and
// the expedition link are immutable after creation and deliberately not written.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	update := bson.M{
		"$set": bson.M{
			"duration":  workout.Duration,
			"metValue":  workout.METValue,
			"points":    workout.Points,
			"notes":     workout.Notes,
			"isPublic":  workout.IsPublic,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": workout.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByUser returns a user's workouts, newest workoutDate first, optionally
// filtered to one expedition.
func (r *mongoWorkoutRepository) ListByUser(ctx context.Context, profileID string, expeditionID *string) ([]domain.Workout, error) {
	filter := bson.M{"userProfileId": profileID}
	if expeditionID != nil {
		filter["expeditionId"] = *expeditionID
	}
	opts := options.Find().SetSort(bson.D{{Key: "workoutDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workouts []domain.Workout
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// ListRecentByExpedition returns the most recent workouts for an expedition.
func (r *mongoWorkoutRepository) ListRecentByExpedition(ctx context.Context, expeditionID string, limit int64) ([]domain.Workout, error) {
	filter := bson.M{"expeditionId": expeditionID}
	opts := options.Find().SetSort(bson.D{{Key: "workoutDate", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workouts []domain.Workout
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *mongoWorkoutRepository) IDsByUser(ctx context.Context, profileID string) ([]string, error) {
	return r.ids(ctx, bson.M{"userProfileId": profileID})
}

func (r *mongoWorkoutRepository) IDsByExpedition(ctx context.Context, expeditionID string) ([]string, error) {
	return r.ids(ctx, bson.M{"expeditionId": expeditionID})
}

func (r *mongoWorkoutRepository) ids(ctx context.Context, filter bson.M) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) DeleteByUser(ctx context.Context, profileID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userProfileId": profileID})
	return err
}

func (r *mongoWorkoutRepository) DeleteByExpedition(ctx context.Context, expeditionID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"expeditionId": expeditionID})
	return err
}

// EnsureWorkoutIndexes creates necessary indexes for the workouts collection.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userProfileId", Value: 1}, {Key: "workoutDate", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "expeditionId", Value: 1}, {Key: "workoutDate", Value: -1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
