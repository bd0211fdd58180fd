package mongo

import (
	"context"

	"fitquest/expedition-app/internal/domain"
	"fitquest/expedition-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userArtifactCollectionName = "userArtifacts"

// mongoUserArtifactRepository implements repository.UserArtifactRepository.
type mongoUserArtifactRepository struct {
	collection *mongo.Collection
}

func NewMongoUserArtifactRepository(db *mongo.Database) repository.UserArtifactRepository {
	return &mongoUserArtifactRepository{
		collection: db.Collection(userArtifactCollectionName),
	}
}

// ListByUser returns a user's artifacts, most recently earned first.
func (r *mongoUserArtifactRepository) ListByUser(ctx context.Context, profileID string) ([]domain.UserArtifact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "earnedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userProfileId": profileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var artifacts []domain.UserArtifact
	if err = cursor.All(ctx, &artifacts); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (r *mongoUserArtifactRepository) DeleteByUser(ctx context.Context, profileID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userProfileId": profileID})
	return err
}

// EnsureUserArtifactIndexes creates necessary indexes for the userArtifacts collection.
func EnsureUserArtifactIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userProfileId", Value: 1}, {Key: "earnedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
