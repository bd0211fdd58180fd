package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"fitquest/expedition-app/internal/domain"
	"fitquest/expedition-app/internal/points"
	"fitquest/expedition-app/internal/repository"
	"fitquest/expedition-app/internal/storage"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound      = errors.New("workout not found")
	ErrLoggingWindowClosed  = errors.New("workout must be logged within 24 hours of completion")
	ErrUpdateWindowClosed   = errors.New("workout can only be updated within 24 hours of completion")
	ErrDeletionWindowClosed = errors.New("workout can only be deleted within 24 hours of completion")
	ErrInvalidPhotoType     = errors.New("invalid or missing image content type")
)

// editWindow is how long after workoutDate a workout stays mutable. The
// window is anchored to when the exercise happened, not when the record was
// created, and is re-checked on every mutation.
const editWindow = 24 * time.Hour

// CreateWorkoutInput carries a new workout submission. BasePoints is the
// client-computed duration x MET x 0.1 value; the server applies the
// character-class multiplier and stores the scaled result at full precision.
type CreateWorkoutInput struct {
	UserProfileID string
	ExpeditionID  *string
	ExerciseType  string
	Duration      int
	METValue      float64
	BasePoints    float64
	IsSolo        bool
	IsPublic      bool
	Notes         *string
	WorkoutDate   time.Time
}

// UpdateWorkoutInput carries the mutable workout fields. IsSolo is fixed at
// creation; points are recomputed server-side from BasePoints.
type UpdateWorkoutInput struct {
	Duration   int
	METValue   float64
	BasePoints float64
	Notes      *string
	IsPublic   bool
}

// PointsPreview is the response of the no-persistence point calculation.
// Both point values are rounded to two decimals for display; only the
// stored workout path keeps full precision.
type PointsPreview struct {
	BasePoints  float64 `json:"basePoints"`
	FinalPoints float64 `json:"finalPoints"`
	Multiplier  float64 `json:"multiplier"`
}

// PhotoUploadTicket is a one-time presigned PUT target for a workout photo.
type PhotoUploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// WorkoutService owns the workout lifecycle. Every create, update and
// delete pairs the workout write with compensating point deltas to the
// profile ledger and, when the workout belongs to an expedition, to the
// matching participation row, all inside one storage transaction.
type WorkoutService interface {
	Create(ctx context.Context, input CreateWorkoutInput) (*domain.Workout, error)
	Update(ctx context.Context, workoutID, ownerProfileID string, input UpdateWorkoutInput) (*domain.Workout, error)
	Delete(ctx context.Context, workoutID, ownerProfileID string) error
	ListForUser(ctx context.Context, profileID string, expeditionID *string) ([]domain.Workout, error)
	CalculatePoints(ctx context.Context, profileID string, duration int, metValue float64, isSolo bool) (*PointsPreview, error)
	RequestPhotoUpload(ctx context.Context, workoutID, ownerProfileID, contentType string) (*PhotoUploadTicket, error)
	AttachPhoto(ctx context.Context, workoutID, ownerProfileID, objectKey, caption string) (*domain.WorkoutPhoto, error)
}

type workoutService struct {
	workoutRepo    repository.WorkoutRepository
	photoRepo      repository.WorkoutPhotoRepository
	profileRepo    repository.UserProfileRepository
	membershipRepo repository.UserExpeditionRepository
	classRepo      repository.CharacterClassRepository
	txManager      repository.TransactionManager
	fileStorage    storage.FileStorage
	now            func() time.Time
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	photoRepo repository.WorkoutPhotoRepository,
	profileRepo repository.UserProfileRepository,
	membershipRepo repository.UserExpeditionRepository,
	classRepo repository.CharacterClassRepository,
	txManager repository.TransactionManager,
	fileStorage storage.FileStorage,
) WorkoutService {
	return &workoutService{
		workoutRepo:    workoutRepo,
		photoRepo:      photoRepo,
		profileRepo:    profileRepo,
		membershipRepo: membershipRepo,
		classRepo:      classRepo,
		txManager:      txManager,
		fileStorage:    fileStorage,
		now:            time.Now,
	}
}

// Create validates the logging window, scales the base points by the
// owner's class multiplier and persists the workout together with the
// ledger increments as one atomic unit.
func (s *workoutService) Create(ctx context.Context, input CreateWorkoutInput) (*domain.Workout, error) {
	if input.UserProfileID == "" || input.ExerciseType == "" {
		return nil, errors.New("user profile id and exercise type are required")
	}
	if s.now().UTC().Sub(input.WorkoutDate) > editWindow {
		return nil, ErrLoggingWindowClosed
	}

	multiplier, err := s.multiplierFor(ctx, input.UserProfileID, input.IsSolo)
	if err != nil {
		return nil, err
	}
	finalPoints := points.Final(input.BasePoints, multiplier)

	workout := &domain.Workout{
		ID:            uuid.NewString(),
		UserProfileID: input.UserProfileID,
		ExpeditionID:  input.ExpeditionID,
		ExerciseType:  input.ExerciseType,
		Duration:      input.Duration,
		METValue:      input.METValue,
		Points:        finalPoints,
		IsSolo:        input.IsSolo,
		IsPublic:      input.IsPublic,
		Notes:         input.Notes,
		WorkoutDate:   input.WorkoutDate.UTC(),
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.workoutRepo.Create(txCtx, workout); err != nil {
			return err
		}
		if err := s.profileRepo.ApplyPointsDelta(txCtx, workout.UserProfileID, finalPoints); err != nil {
			return err
		}
		if workout.ExpeditionID != nil {
			return s.membershipRepo.ApplyPointsDelta(txCtx, workout.UserProfileID, *workout.ExpeditionID, finalPoints)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	workout.Photos = []domain.WorkoutPhoto{}
	return workout, nil
}

// Update recomputes points from the new base value using the workout's
// original solo flag and the profile's current class, then applies the
// resulting difference as a delta, never an overwrite.
func (s *workoutService) Update(ctx context.Context, workoutID, ownerProfileID string, input UpdateWorkoutInput) (*domain.Workout, error) {
	existing, err := s.getOwned(ctx, workoutID, ownerProfileID)
	if err != nil {
		return nil, err
	}

	if s.now().UTC().Sub(existing.WorkoutDate) > editWindow {
		return nil, ErrUpdateWindowClosed
	}

	multiplier, err := s.multiplierFor(ctx, existing.UserProfileID, existing.IsSolo)
	if err != nil {
		return nil, err
	}
	newPoints := points.Final(input.BasePoints, multiplier)
	pointsDifference := newPoints - existing.Points

	existing.Duration = input.Duration
	existing.METValue = input.METValue
	existing.Points = newPoints
	existing.Notes = input.Notes
	existing.IsPublic = input.IsPublic

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.workoutRepo.Update(txCtx, existing); err != nil {
			return err
		}
		if pointsDifference == 0 {
			return nil
		}
		if err := s.profileRepo.ApplyPointsDelta(txCtx, existing.UserProfileID, pointsDifference); err != nil {
			return err
		}
		if existing.ExpeditionID != nil {
			return s.membershipRepo.ApplyPointsDelta(txCtx, existing.UserProfileID, *existing.ExpeditionID, pointsDifference)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.ListByWorkout(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	existing.Photos = photos
	return existing, nil
}

// Delete reverses the workout's point contribution and removes the record
// with its photos, all in one transaction. S3 objects are cleaned up
// best-effort after the commit.
func (s *workoutService) Delete(ctx context.Context, workoutID, ownerProfileID string) error {
	existing, err := s.getOwned(ctx, workoutID, ownerProfileID)
	if err != nil {
		return err
	}

	if s.now().UTC().Sub(existing.WorkoutDate) > editWindow {
		return ErrDeletionWindowClosed
	}

	photos, err := s.photoRepo.ListByWorkout(ctx, existing.ID)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.profileRepo.ApplyPointsDelta(txCtx, existing.UserProfileID, -existing.Points); err != nil {
			return err
		}
		if existing.ExpeditionID != nil {
			if err := s.membershipRepo.ApplyPointsDelta(txCtx, existing.UserProfileID, *existing.ExpeditionID, -existing.Points); err != nil {
				return err
			}
		}
		if err := s.photoRepo.DeleteByWorkout(txCtx, existing.ID); err != nil {
			return err
		}
		return s.workoutRepo.Delete(txCtx, existing.ID)
	})
	if err != nil {
		return err
	}

	for _, photo := range photos {
		if photo.ObjectKey == "" {
			continue
		}
		if err := s.fileStorage.DeleteObject(ctx, photo.ObjectKey); err != nil {
			log.Printf("WARN: Failed to delete photo object '%s': %v", photo.ObjectKey, err)
		}
	}
	return nil
}

// ListForUser returns a profile's workouts newest-first, optionally scoped
// to one expedition, with photos attached in a single batched lookup.
func (s *workoutService) ListForUser(ctx context.Context, profileID string, expeditionID *string) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.ListByUser(ctx, profileID, expeditionID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(workouts))
	for i := range workouts {
		ids[i] = workouts[i].ID
	}
	photos, err := s.photoRepo.ListByWorkoutIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byWorkout := make(map[string][]domain.WorkoutPhoto)
	for _, p := range photos {
		byWorkout[p.WorkoutID] = append(byWorkout[p.WorkoutID], p)
	}
	for i := range workouts {
		if ps := byWorkout[workouts[i].ID]; ps != nil {
			workouts[i].Photos = ps
		} else {
			workouts[i].Photos = []domain.WorkoutPhoto{}
		}
	}
	return workouts, nil
}

// CalculatePoints is the preview endpoint's backing logic: the full formula
// with the profile's current multiplier, rounded for display, persisting
// nothing.
func (s *workoutService) CalculatePoints(ctx context.Context, profileID string, duration int, metValue float64, isSolo bool) (*PointsPreview, error) {
	multiplier, err := s.multiplierFor(ctx, profileID, isSolo)
	if err != nil {
		return nil, err
	}

	basePoints := points.Base(duration, metValue)
	finalPoints := points.Final(basePoints, multiplier)

	return &PointsPreview{
		BasePoints:  points.Round2(basePoints),
		FinalPoints: points.Round2(finalPoints),
		Multiplier:  multiplier,
	}, nil
}

// RequestPhotoUpload hands out a presigned PUT URL for a photo of an
// existing workout. The client uploads directly to object storage and then
// confirms with AttachPhoto.
func (s *workoutService) RequestPhotoUpload(ctx context.Context, workoutID, ownerProfileID, contentType string) (*PhotoUploadTicket, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidPhotoType
	}

	workout, err := s.getOwned(ctx, workoutID, ownerProfileID)
	if err != nil {
		return nil, err
	}

	fileExtension := "bin"
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("photos", workout.UserProfileID, workout.ID, fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &PhotoUploadTicket{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// AttachPhoto records the photo metadata after a successful upload. The
// stored URL is a presigned download link; clients re-request listings when
// it expires.
func (s *workoutService) AttachPhoto(ctx context.Context, workoutID, ownerProfileID, objectKey, caption string) (*domain.WorkoutPhoto, error) {
	if objectKey == "" {
		return nil, errors.New("object key is required")
	}

	workout, err := s.getOwned(ctx, workoutID, ownerProfileID)
	if err != nil {
		return nil, err
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	photo := &domain.WorkoutPhoto{
		ID:        uuid.NewString(),
		WorkoutID: workout.ID,
		URL:       url,
		ObjectKey: objectKey,
		Caption:   caption,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// getOwned loads a workout and hides it behind ErrWorkoutNotFound when it
// belongs to someone else, so callers cannot probe other users' records.
func (s *workoutService) getOwned(ctx context.Context, workoutID, ownerProfileID string) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if ownerProfileID != "" && workout.UserProfileID != ownerProfileID {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

// multiplierFor resolves the profile's character class and selects the
// solo/group multiplier, defaulting to 1.0 for classless profiles.
func (s *workoutService) multiplierFor(ctx context.Context, profileID string, isSolo bool) (float64, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrProfileNotFound
		}
		return 0, err
	}

	var class *domain.CharacterClass
	if profile.CharacterClassID != nil {
		class, err = s.classRepo.GetByID(ctx, *profile.CharacterClassID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return 0, err
		}
	}
	return points.MultiplierFor(class, isSolo), nil
}
