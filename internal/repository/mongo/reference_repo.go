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

const (
	characterClassCollectionName = "characterClasses"
	exerciseTypeCollectionName   = "exerciseTypes"
)

// mongoCharacterClassRepository implements repository.CharacterClassRepository.
type mongoCharacterClassRepository struct {
	collection *mongo.Collection
}

func NewMongoCharacterClassRepository(db *mongo.Database) repository.CharacterClassRepository {
	return &mongoCharacterClassRepository{
		collection: db.Collection(characterClassCollectionName),
	}
}

// List returns all character classes ordered by name.
func (r *mongoCharacterClassRepository) List(ctx context.Context) ([]domain.CharacterClass, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var classes []domain.CharacterClass
	if err = cursor.All(ctx, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *mongoCharacterClassRepository) GetByID(ctx context.Context, id string) (*domain.CharacterClass, error) {
	var class domain.CharacterClass
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&class)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &class, nil
}

func (r *mongoCharacterClassRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *mongoCharacterClassRepository) InsertMany(ctx context.Context, classes []domain.CharacterClass) error {
	docs := make([]interface{}, len(classes))
	for i := range classes {
		docs[i] = classes[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// mongoExerciseTypeRepository implements repository.ExerciseTypeRepository.
type mongoExerciseTypeRepository struct {
	collection *mongo.Collection
}

func NewMongoExerciseTypeRepository(db *mongo.Database) repository.ExerciseTypeRepository {
	return &mongoExerciseTypeRepository{
		collection: db.Collection(exerciseTypeCollectionName),
	}
}

// List returns all exercise types ordered by name.
func (r *mongoExerciseTypeRepository) List(ctx context.Context) ([]domain.ExerciseType, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var types []domain.ExerciseType
	if err = cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *mongoExerciseTypeRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *mongoExerciseTypeRepository) InsertMany(ctx context.Context, types []domain.ExerciseType) error {
	docs := make([]interface{}, len(types))
	for i := range types {
		docs[i] = types[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}
