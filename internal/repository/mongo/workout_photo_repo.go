package mongo

import (
	"context"
	"time"

	"fitquest/expedition-app/internal/domain"
	"fitquest/expedition-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutPhotoCollectionName = "workoutPhotos"

// mongoWorkoutPhotoRepository implements repository.WorkoutPhotoRepository.
type mongoWorkoutPhotoRepository struct {
	collection *mongo.Collection
}

func NewMongoWorkoutPhotoRepository(db *mongo.Database) repository.WorkoutPhotoRepository {
	return &mongoWorkoutPhotoRepository{
		collection: db.Collection(workoutPhotoCollectionName),
	}
}

func (r *mongoWorkoutPhotoRepository) Create(ctx context.Context, photo *domain.WorkoutPhoto) error {
	photo.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, photo)
	return err
}

func (r *mongoWorkoutPhotoRepository) ListByWorkout(ctx context.Context, workoutID string) ([]domain.WorkoutPhoto, error) {
	return r.list(ctx, bson.M{"workoutId": workoutID})
}

// ListByWorkoutIDs fetches photos for many workouts in one query so list
// endpoints can attach them without N+1 lookups.
func (r *mongoWorkoutPhotoRepository) ListByWorkoutIDs(ctx context.Context, workoutIDs []string) ([]domain.WorkoutPhoto, error) {
	if len(workoutIDs) == 0 {
		return []domain.WorkoutPhoto{}, nil
	}
	return r.list(ctx, bson.M{"workoutId": bson.M{"$in": workoutIDs}})
}

func (r *mongoWorkoutPhotoRepository) list(ctx context.Context, filter bson.M) ([]domain.WorkoutPhoto, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var photos []domain.WorkoutPhoto
	if err = cursor.All(ctx, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *mongoWorkoutPhotoRepository) DeleteByWorkout(ctx context.Context, workoutID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workoutId": workoutID})
	return err
}

func (r *mongoWorkoutPhotoRepository) DeleteByWorkoutIDs(ctx context.Context, workoutIDs []string) error {
	if len(workoutIDs) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"workoutId": bson.M{"$in": workoutIDs}})
	return err
}

// EnsureWorkoutPhotoIndexes creates necessary indexes for the workoutPhotos collection.
func EnsureWorkoutPhotoIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
