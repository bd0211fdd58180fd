package service

import (
	"context"
	"errors"

	"fitquest/expedition-app/internal/domain"
	"fitquest/expedition-app/internal/repository"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("user profile not found")

// recentWorkoutLimit caps the workout history attached to a profile read.
const recentWorkoutLimit = 10

// ProfileService is the profile ledger: it owns a user's cumulative point
// total and level, and the lazily-created 1:1 profile record itself.
// Point deltas flow in from the workout service, always through atomic
// increments on the repository.
type ProfileService interface {
	// GetOrCreate is an idempotent upsert keyed by userId. A new profile
	// starts at totalPoints=0, level=1; an existing one just has its
	// character class updated.
	GetOrCreate(ctx context.Context, userID string, characterClassID *string) (*domain.UserProfile, error)
	// GetByUserID returns the profile expanded with its character class,
	// expedition memberships, recent workouts and artifacts.
	GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, []domain.UserExpedition, []domain.Workout, []domain.UserArtifact, error)
	// Resolve returns the bare profile row for a user id, without any of the
	// expansions GetByUserID does.
	Resolve(ctx context.Context, userID string) (*domain.UserProfile, error)
	// Patch applies a partial update of totalPoints, level and/or class.
	// Level progression has no in-scope algorithm; it moves only through here.
	Patch(ctx context.Context, userID string, totalPoints *float64, level *int, characterClassID *string) (*domain.UserProfile, error)
}

type profileService struct {
	profileRepo    repository.UserProfileRepository
	classRepo      repository.CharacterClassRepository
	membershipRepo repository.UserExpeditionRepository
	expeditionRepo repository.ExpeditionRepository
	workoutRepo    repository.WorkoutRepository
	artifactRepo   repository.UserArtifactRepository
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(
	profileRepo repository.UserProfileRepository,
	classRepo repository.CharacterClassRepository,
	membershipRepo repository.UserExpeditionRepository,
	expeditionRepo repository.ExpeditionRepository,
	workoutRepo repository.WorkoutRepository,
	artifactRepo repository.UserArtifactRepository,
) ProfileService {
	return &profileService{
		profileRepo:    profileRepo,
		classRepo:      classRepo,
		membershipRepo: membershipRepo,
		expeditionRepo: expeditionRepo,
		workoutRepo:    workoutRepo,
		artifactRepo:   artifactRepo,
	}
}

func (s *profileService) GetOrCreate(ctx context.Context, userID string, characterClassID *string) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		if err := s.profileRepo.SetCharacterClass(ctx, userID, characterClassID); err != nil {
			return nil, err
		}
		profile.CharacterClassID = characterClassID
		return s.resolveClass(ctx, profile)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	profile = &domain.UserProfile{
		ID:               uuid.NewString(),
		UserID:           userID,
		CharacterClassID: characterClassID,
		TotalPoints:      0,
		Level:            1,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		// Two concurrent first-time selections: the unique userId index lets
		// exactly one insert win; the loser falls back to the update path.
		if errors.Is(err, repository.ErrDuplicate) {
			if err := s.profileRepo.SetCharacterClass(ctx, userID, characterClassID); err != nil {
				return nil, err
			}
			profile, err = s.profileRepo.GetByUserID(ctx, userID)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	return s.resolveClass(ctx, profile)
}

func (s *profileService) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, []domain.UserExpedition, []domain.Workout, []domain.UserArtifact, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil, nil, ErrProfileNotFound
		}
		return nil, nil, nil, nil, err
	}
	if _, err := s.resolveClass(ctx, profile); err != nil {
		return nil, nil, nil, nil, err
	}

	memberships, err := s.membershipRepo.ListByUser(ctx, profile.ID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	for i := range memberships {
		expedition, err := s.expeditionRepo.GetByID(ctx, memberships[i].ExpeditionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, nil, nil, nil, err
		}
		memberships[i].Expedition = expedition
	}

	workouts, err := s.workoutRepo.ListByUser(ctx, profile.ID, nil)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if len(workouts) > recentWorkoutLimit {
		workouts = workouts[:recentWorkoutLimit]
	}

	artifacts, err := s.artifactRepo.ListByUser(ctx, profile.ID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return profile, memberships, workouts, artifacts, nil
}

func (s *profileService) Resolve(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) Patch(ctx context.Context, userID string, totalPoints *float64, level *int, characterClassID *string) (*domain.UserProfile, error) {
	err := s.profileRepo.Patch(ctx, userID, totalPoints, level, characterClassID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveClass(ctx, profile)
}

// resolveClass attaches the character class document to a profile.
func (s *profileService) resolveClass(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	if profile.CharacterClassID == nil {
		profile.CharacterClass = nil
		return profile, nil
	}
	class, err := s.classRepo.GetByID(ctx, *profile.CharacterClassID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Dangling class reference; surface the profile without it.
			return profile, nil
		}
		return nil, err
	}
	profile.CharacterClass = class
	return profile, nil
}
