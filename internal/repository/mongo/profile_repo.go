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

const profileCollectionName = "userProfiles"

// mongoUserProfileRepository implements repository.UserProfileRepository.
type mongoUserProfileRepository struct {
	collection *mongo.Collection
}

func NewMongoUserProfileRepository(db *mongo.Database) repository.UserProfileRepository {
	return &mongoUserProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Create inserts a new profile. The unique index on userId enforces the
// one-profile-per-user invariant.
func (r *mongoUserProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *mongoUserProfileRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

func (r *mongoUserProfileRepository) findOne(ctx context.Context, filter bson.M) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// SetCharacterClass updates the class selection on an existing profile.
func (r *mongoUserProfileRepository) SetCharacterClass(ctx context.Context, userID string, characterClassID *string) error {
	update := bson.M{
		"$set": bson.M{
			"characterClassId": characterClassID,
			"updatedAt":        time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Patch applies a partial update of totalPoints, level and/or class. Nil
// fields are left untouched.
func (r *mongoUserProfileRepository) Patch(ctx context.Context, userID string, totalPoints *float64, level *int, characterClassID *string) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if totalPoints != nil {
		set["totalPoints"] = *totalPoints
	}
	if level != nil {
		set["level"] = *level
	}
	if characterClassID != nil {
		set["characterClassId"] = *characterClassID
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ApplyPointsDelta atomically increments totalPoints. $inc keeps concurrent
// workout writes from losing updates.
func (r *mongoUserProfileRepository) ApplyPointsDelta(ctx context.Context, profileID string, delta float64) error {
	update := bson.M{
		"$inc": bson.M{"totalPoints": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": profileID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoUserProfileRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureUserProfileIndexes creates necessary indexes for the userProfiles collection.
func EnsureUserProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
