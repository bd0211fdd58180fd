package service

import (
	"context"
	"errors"

	"fitquest/expedition-app/internal/domain"
	"fitquest/expedition-app/internal/repository"

	"github.com/google/uuid"
)

var ErrCharacterClassNotFound = errors.New("character class not found")

// SeedResult reports the outcome of an idempotent seed operation.
type SeedResult struct {
	AlreadySeeded bool
	Count         int
}

// ReferenceService serves and seeds the read-mostly reference collections
// (character classes and exercise types). Re-seeding when rows already exist
// is a no-op reported through SeedResult.
type ReferenceService interface {
	ListCharacterClasses(ctx context.Context) ([]domain.CharacterClass, error)
	GetCharacterClass(ctx context.Context, id string) (*domain.CharacterClass, error)
	ListExerciseTypes(ctx context.Context) ([]domain.ExerciseType, error)
	SeedCharacterClasses(ctx context.Context) (*SeedResult, error)
	SeedExerciseTypes(ctx context.Context) (*SeedResult, error)
}

type referenceService struct {
	classRepo        repository.CharacterClassRepository
	exerciseTypeRepo repository.ExerciseTypeRepository
}

// NewReferenceService creates a new instance of referenceService.
func NewReferenceService(classRepo repository.CharacterClassRepository, exerciseTypeRepo repository.ExerciseTypeRepository) ReferenceService {
	return &referenceService{
		classRepo:        classRepo,
		exerciseTypeRepo: exerciseTypeRepo,
	}
}

func (s *referenceService) ListCharacterClasses(ctx context.Context) ([]domain.CharacterClass, error) {
	return s.classRepo.List(ctx)
}

func (s *referenceService) GetCharacterClass(ctx context.Context, id string) (*domain.CharacterClass, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCharacterClassNotFound
		}
		return nil, err
	}
	return class, nil
}

func (s *referenceService) ListExerciseTypes(ctx context.Context) ([]domain.ExerciseType, error) {
	return s.exerciseTypeRepo.List(ctx)
}

// SeedCharacterClasses inserts the default classes unless any already exist.
func (s *referenceService) SeedCharacterClasses(ctx context.Context) (*SeedResult, error) {
	count, err := s.classRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &SeedResult{AlreadySeeded: true}, nil
	}

	if err := s.classRepo.InsertMany(ctx, defaultCharacterClasses); err != nil {
		return nil, err
	}
	return &SeedResult{Count: len(defaultCharacterClasses)}, nil
}

// SeedExerciseTypes inserts the default exercise types unless any already exist.
func (s *referenceService) SeedExerciseTypes(ctx context.Context) (*SeedResult, error) {
	count, err := s.exerciseTypeRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &SeedResult{AlreadySeeded: true}, nil
	}

	types := make([]domain.ExerciseType, len(defaultExerciseTypes))
	copy(types, defaultExerciseTypes)
	for i := range types {
		types[i].ID = uuid.NewString()
	}

	if err := s.exerciseTypeRepo.InsertMany(ctx, types); err != nil {
		return nil, err
	}
	return &SeedResult{Count: len(types)}, nil
}
