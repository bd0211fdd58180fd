package repository

import (
	"context"

	"fitquest/expedition-app/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TransactionManager runs a function inside one storage transaction. Every
// repository call made with the ctx passed to fn joins that transaction; if
// fn returns an error nothing it wrote is visible afterwards.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository stores authentication identity records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetNamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
	Delete(ctx context.Context, id string) error
}

// CharacterClassRepository stores the seeded character-class reference data.
type CharacterClassRepository interface {
	List(ctx context.Context) ([]domain.CharacterClass, error)
	GetByID(ctx context.Context, id string) (*domain.CharacterClass, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, classes []domain.CharacterClass) error
}

// ExerciseTypeRepository stores the seeded exercise-type reference data.
type ExerciseTypeRepository interface {
	List(ctx context.Context) ([]domain.ExerciseType, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, types []domain.ExerciseType) error
}

// UserProfileRepository stores gameplay profiles. ApplyPointsDelta must be
// an atomic in-place increment, never a read-modify-write.
type UserProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) error
	GetByID(ctx context.Context, id string) (*domain.UserProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
	SetCharacterClass(ctx context.Context, userID string, characterClassID *string) error
	Patch(ctx context.Context, userID string, totalPoints *float64, level *int, characterClassID *string) error
	ApplyPointsDelta(ctx context.Context, profileID string, delta float64) error
	Delete(ctx context.Context, id string) error
}

// ExpeditionRepository stores expeditions.
type ExpeditionRepository interface {
	Create(ctx context.Context, expedition *domain.Expedition) error
	GetByID(ctx context.Context, id string) (*domain.Expedition, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (*domain.Expedition, error)
	InviteCodeExists(ctx context.Context, inviteCode string) (bool, error)
	ListPublicUpcoming(ctx context.Context) ([]domain.Expedition, error)
	ListByCreator(ctx context.Context, profileID string) ([]domain.Expedition, error)
	SetCreatedBy(ctx context.Context, expeditionID, profileID string) error
	Delete(ctx context.Context, id string) error
}

// UserExpeditionRepository stores participation records. Create must surface
// ErrDuplicate when the (userProfileId, expeditionId) unique index is hit;
// ApplyPointsDelta must be an atomic in-place increment.
type UserExpeditionRepository interface {
	Create(ctx context.Context, participation *domain.UserExpedition) error
	Get(ctx context.Context, profileID, expeditionID string) (*domain.UserExpedition, error)
	ListByExpedition(ctx context.Context, expeditionID string, orderByPointsDesc bool) ([]domain.UserExpedition, error)
	ListByUser(ctx context.Context, profileID string) ([]domain.UserExpedition, error)
	FirstByExpedition(ctx context.Context, expeditionID string) (*domain.UserExpedition, error)
	CountByExpedition(ctx context.Context, expeditionID string) (int64, error)
	SumPointsByExpedition(ctx context.Context, expeditionID string) (float64, error)
	ApplyPointsDelta(ctx context.Context, profileID, expeditionID string, delta float64) error
	Delete(ctx context.Context, profileID, expeditionID string) error
	DeleteByUser(ctx context.Context, profileID string) error
	DeleteByExpedition(ctx context.Context, expeditionID string) error
}

// WorkoutRepository stores workout records.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) error
	GetByID(ctx context.Context, id string) (*domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	ListByUser(ctx context.Context, profileID string, expeditionID *string) ([]domain.Workout, error)
	ListRecentByExpedition(ctx context.Context, expeditionID string, limit int64) ([]domain.Workout, error)
	IDsByUser(ctx context.Context, profileID string) ([]string, error)
	IDsByExpedition(ctx context.Context, expeditionID string) ([]string, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, profileID string) error
	DeleteByExpedition(ctx context.Context, expeditionID string) error
}

// WorkoutPhotoRepository stores workout photo metadata.
type WorkoutPhotoRepository interface {
	Create(ctx context.Context, photo *domain.WorkoutPhoto) error
	ListByWorkout(ctx context.Context, workoutID string) ([]domain.WorkoutPhoto, error)
	ListByWorkoutIDs(ctx context.Context, workoutIDs []string) ([]domain.WorkoutPhoto, error)
	DeleteByWorkout(ctx context.Context, workoutID string) error
	DeleteByWorkoutIDs(ctx context.Context, workoutIDs []string) error
}

// UserArtifactRepository stores reward records.
type UserArtifactRepository interface {
	ListByUser(ctx context.Context, profileID string) ([]domain.UserArtifact, error)
	DeleteByUser(ctx context.Context, profileID string) error
}
