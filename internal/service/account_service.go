package service

import (
	"context"
	"errors"
	"log"

	"fitquest/expedition-app/internal/domain"
	"fitquest/expedition-app/internal/repository"
	"fitquest/expedition-app/internal/storage"
)

// AccountService tears down every record belonging to a user in one
// all-or-nothing transaction: photos, workouts, artifacts, expedition
// memberships, owned expeditions (deleted or ownership-transferred), the
// profile, and finally the identity record.
type AccountService interface {
	DeleteAccount(ctx context.Context, userID string) error
}

type accountService struct {
	userRepo       repository.UserRepository
	profileRepo    repository.UserProfileRepository
	workoutRepo    repository.WorkoutRepository
	photoRepo      repository.WorkoutPhotoRepository
	artifactRepo   repository.UserArtifactRepository
	membershipRepo repository.UserExpeditionRepository
	expeditionRepo repository.ExpeditionRepository
	txManager      repository.TransactionManager
	fileStorage    storage.FileStorage
}

// NewAccountService creates a new instance of accountService.
func NewAccountService(
	userRepo repository.UserRepository,
	profileRepo repository.UserProfileRepository,
	workoutRepo repository.WorkoutRepository,
	photoRepo repository.WorkoutPhotoRepository,
	artifactRepo repository.UserArtifactRepository,
	membershipRepo repository.UserExpeditionRepository,
	expeditionRepo repository.ExpeditionRepository,
	txManager repository.TransactionManager,
	fileStorage storage.FileStorage,
) AccountService {
	return &accountService{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		workoutRepo:    workoutRepo,
		photoRepo:      photoRepo,
		artifactRepo:   artifactRepo,
		membershipRepo: membershipRepo,
		expeditionRepo: expeditionRepo,
		txManager:      txManager,
		fileStorage:    fileStorage,
	}
}

// DeleteAccount removes the user and everything they own. Expeditions the
// user created survive if anyone else is still participating; ownership
// moves to the first remaining participant found. Expeditions where the
// user was the sole participant are cascade-deleted with their workouts
// and photos. Any failure rolls back the whole teardown.
func (s *accountService) DeleteAccount(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}

	// Object keys are collected inside the transaction; the S3 objects are
	// only removed once the commit has gone through.
	var orphanedKeys []string

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		profile, err := s.profileRepo.GetByUserID(txCtx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		createdExpeditions, err := s.expeditionRepo.ListByCreator(txCtx, profile.ID)
		if err != nil {
			return err
		}

		// Photos first: they hang off workouts.
		workoutIDs, err := s.workoutRepo.IDsByUser(txCtx, profile.ID)
		if err != nil {
			return err
		}
		keys, err := s.collectPhotoKeys(txCtx, workoutIDs)
		if err != nil {
			return err
		}
		orphanedKeys = append(orphanedKeys, keys...)
		if err := s.photoRepo.DeleteByWorkoutIDs(txCtx, workoutIDs); err != nil {
			return err
		}

		if err := s.workoutRepo.DeleteByUser(txCtx, profile.ID); err != nil {
			return err
		}
		if err := s.artifactRepo.DeleteByUser(txCtx, profile.ID); err != nil {
			return err
		}

		// Leave every expedition; the expeditions themselves and other
		// participants' data stay untouched.
		if err := s.membershipRepo.DeleteByUser(txCtx, profile.ID); err != nil {
			return err
		}

		for i := range createdExpeditions {
			keys, err := s.resolveOwnedExpedition(txCtx, &createdExpeditions[i])
			if err != nil {
				return err
			}
			orphanedKeys = append(orphanedKeys, keys...)
		}

		if err := s.profileRepo.Delete(txCtx, profile.ID); err != nil {
			return err
		}
		return s.userRepo.Delete(txCtx, userID)
	})
	if err != nil {
		return err
	}

	for _, key := range orphanedKeys {
		if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
			log.Printf("WARN: Failed to delete orphaned photo object '%s': %v", key, err)
		}
	}
	return nil
}

// resolveOwnedExpedition either cascade-deletes an expedition that lost its
// last participant or transfers ownership to the first one remaining.
// Returns the object keys of any photos deleted with it.
func (s *accountService) resolveOwnedExpedition(ctx context.Context, expedition *domain.Expedition) ([]string, error) {
	remaining, err := s.membershipRepo.CountByExpedition(ctx, expedition.ID)
	if err != nil {
		return nil, err
	}

	if remaining > 0 {
		first, err := s.membershipRepo.FirstByExpedition(ctx, expedition.ID)
		if err != nil {
			return nil, err
		}
		return nil, s.expeditionRepo.SetCreatedBy(ctx, expedition.ID, first.UserProfileID)
	}

	workoutIDs, err := s.workoutRepo.IDsByExpedition(ctx, expedition.ID)
	if err != nil {
		return nil, err
	}
	keys, err := s.collectPhotoKeys(ctx, workoutIDs)
	if err != nil {
		return nil, err
	}
	if err := s.photoRepo.DeleteByWorkoutIDs(ctx, workoutIDs); err != nil {
		return nil, err
	}
	if err := s.workoutRepo.DeleteByExpedition(ctx, expedition.ID); err != nil {
		return nil, err
	}
	if err := s.membershipRepo.DeleteByExpedition(ctx, expedition.ID); err != nil {
		return nil, err
	}
	return keys, s.expeditionRepo.Delete(ctx, expedition.ID)
}

func (s *accountService) collectPhotoKeys(ctx context.Context, workoutIDs []string) ([]string, error) {
	photos, err := s.photoRepo.ListByWorkoutIDs(ctx, workoutIDs)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(photos))
	for _, p := range photos {
		if p.ObjectKey != "" {
			keys = append(keys, p.ObjectKey)
		}
	}
	return keys, nil
}
