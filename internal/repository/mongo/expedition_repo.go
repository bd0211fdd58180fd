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

const expeditionCollectionName = "expeditions"

// mongoExpeditionRepository implements repository.ExpeditionRepository.
type mongoExpeditionRepository struct {
	collection *mongo.Collection
}

func NewMongoExpeditionRepository(db *mongo.Database) repository.ExpeditionRepository {
	return &mongoExpeditionRepository{
		collection: db.Collection(expeditionCollectionName),
	}
}

func (r *mongoExpeditionRepository) Create(ctx context.Context, expedition *domain.Expedition) error {
	now := time.Now().UTC()
	expedition.CreatedAt = now
	expedition.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, expedition)
	return err
}

func (r *mongoExpeditionRepository) GetByID(ctx context.Context, id string) (*domain.Expedition, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByInviteCode looks up a private expedition by its invite code.
func (r *mongoExpeditionRepository) GetByInviteCode(ctx context.Context, inviteCode string) (*domain.Expedition, error) {
	return r.findOne(ctx, bson.M{"inviteCode": inviteCode, "isPublic": false})
}

func (r *mongoExpeditionRepository) findOne(ctx context.Context, filter bson.M) (*domain.Expedition, error) {
	var expedition domain.Expedition
	err := r.collection.FindOne(ctx, filter).Decode(&expedition)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &expedition, nil
}

// InviteCodeExists reports whether any expedition already carries the code.
// Used by the generation retry loop.
func (r *mongoExpeditionRepository) InviteCodeExists(ctx context.Context, inviteCode string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"inviteCode": inviteCode})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListPublicUpcoming returns joinable public expeditions ordered by start date.
func (r *mongoExpeditionRepository) ListPublicUpcoming(ctx context.Context) ([]domain.Expedition, error) {
	filter := bson.M{"isPublic": true, "status": domain.ExpeditionUpcoming}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var expeditions []domain.Expedition
	if err = cursor.All(ctx, &expeditions); err != nil {
		return nil, err
	}
	return expeditions, nil
}

func (r *mongoExpeditionRepository) ListByCreator(ctx context.Context, profileID string) ([]domain.Expedition, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"createdById": profileID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var expeditions []domain.Expedition
	if err = cursor.All(ctx, &expeditions); err != nil {
		return nil, err
	}
	return expeditions, nil
}

// SetCreatedBy reassigns expedition ownership (account deletion transfer).
func (r *mongoExpeditionRepository) SetCreatedBy(ctx context.Context, expeditionID, profileID string) error {
	update := bson.M{
		"$set": bson.M{
			"createdById": profileID,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": expeditionID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoExpeditionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureExpeditionIndexes creates necessary indexes for the expeditions collection.
func EnsureExpeditionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Sparse because public expeditions carry no invite code.
			Keys:    bson.D{{Key: "inviteCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "isPublic", Value: 1}, {Key: "status", Value: 1}, {Key: "startDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdById", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
