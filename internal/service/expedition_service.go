package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"fitquest/expedition-app/internal/domain"
	"fitquest/expedition-app/internal/points"
	"fitquest/expedition-app/internal/repository"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrExpeditionNotFound   = errors.New("expedition not found")
	ErrCreatorProfileNeeded = errors.New("user profile not found, select a character class first")
	ErrNotJoinable          = errors.New("expedition is no longer joinable")
	ErrInvalidInviteCode    = errors.New("invalid invite code")
	ErrAlreadyParticipating = errors.New("already participating in this expedition")
	ErrNotParticipating     = errors.New("not participating in this expedition")
	ErrExpeditionActive     = errors.New("cannot leave an active expedition")
)

const (
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteCodeLength   = 8
	inviteCodeRetries  = 5

	progressRecentWorkouts = 10
)

// CreateExpeditionInput carries the fields for a new expedition.
// CreatorUserID is the authenticated user id; the creator's profile is
// resolved from it and automatically enrolled as the first participant.
type CreateExpeditionInput struct {
	CreatorUserID string
	Name          string
	Description   string
	TargetPoints  float64
	DurationDays  int
	IsPublic      bool
	StartDate     time.Time
}

// ExpeditionProgress is the aggregate view of an expedition's standing.
type ExpeditionProgress struct {
	Expedition         *domain.Expedition
	TotalPoints        float64
	TargetPoints       float64
	ProgressPercentage float64
	ParticipantCount   int64
	RecentWorkouts     []domain.Workout
}

// ExpeditionService owns the expedition lifecycle: creation, invite-gated
// membership, leaderboards and progress aggregates. Status transitions past
// "upcoming" are driven by an external scheduler, never from here.
type ExpeditionService interface {
	Create(ctx context.Context, input CreateExpeditionInput) (*domain.Expedition, error)
	GetByID(ctx context.Context, id string) (*domain.Expedition, error)
	GetPublic(ctx context.Context) ([]domain.Expedition, error)
	Join(ctx context.Context, expeditionID, profileID string, inviteCode *string) (*domain.UserExpedition, error)
	JoinByCode(ctx context.Context, inviteCode, profileID string) (*domain.UserExpedition, error)
	Leave(ctx context.Context, expeditionID, profileID string) error
	GetLeaderboard(ctx context.Context, expeditionID string) ([]domain.UserExpedition, error)
	GetProgress(ctx context.Context, expeditionID string) (*ExpeditionProgress, error)
	ListForUser(ctx context.Context, profileID string) ([]domain.UserExpedition, error)
}

type expeditionService struct {
	expeditionRepo repository.ExpeditionRepository
	membershipRepo repository.UserExpeditionRepository
	profileRepo    repository.UserProfileRepository
	workoutRepo    repository.WorkoutRepository
	photoRepo      repository.WorkoutPhotoRepository
	classRepo      repository.CharacterClassRepository
	userRepo       repository.UserRepository
	txManager      repository.TransactionManager
}

// NewExpeditionService creates a new instance of expeditionService.
func NewExpeditionService(
	expeditionRepo repository.ExpeditionRepository,
	membershipRepo repository.UserExpeditionRepository,
	profileRepo repository.UserProfileRepository,
	workoutRepo repository.WorkoutRepository,
	photoRepo repository.WorkoutPhotoRepository,
	classRepo repository.CharacterClassRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
) ExpeditionService {
	return &expeditionService{
		expeditionRepo: expeditionRepo,
		membershipRepo: membershipRepo,
		profileRepo:    profileRepo,
		workoutRepo:    workoutRepo,
		photoRepo:      photoRepo,
		classRepo:      classRepo,
		userRepo:       userRepo,
		txManager:      txManager,
	}
}

// Create persists a new expedition with status "upcoming" and enrolls the
// creator as its first participant in the same transaction.
func (s *expeditionService) Create(ctx context.Context, input CreateExpeditionInput) (*domain.Expedition, error) {
	if input.Name == "" || input.TargetPoints <= 0 || input.DurationDays <= 0 {
		return nil, errors.New("name, positive target points and positive duration are required")
	}

	profile, err := s.profileRepo.GetByUserID(ctx, input.CreatorUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCreatorProfileNeeded
		}
		return nil, err
	}

	var inviteCode *string
	if !input.IsPublic {
		code, err := s.generateInviteCode(ctx)
		if err != nil {
			return nil, err
		}
		inviteCode = &code
	}

	expedition := &domain.Expedition{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Description:  input.Description,
		TargetPoints: input.TargetPoints,
		Duration:     input.DurationDays,
		IsPublic:     input.IsPublic,
		InviteCode:   inviteCode,
		StartDate:    input.StartDate,
		EndDate:      input.StartDate.AddDate(0, 0, input.DurationDays),
		Status:       domain.ExpeditionUpcoming,
		CreatedByID:  profile.ID,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.expeditionRepo.Create(txCtx, expedition); err != nil {
			return err
		}
		participation := &domain.UserExpedition{
			ID:            uuid.NewString(),
			UserProfileID: profile.ID,
			ExpeditionID:  expedition.ID,
			PointsEarned:  0,
			IsActive:      true,
			JoinedAt:      time.Now().UTC(),
		}
		return s.membershipRepo.Create(txCtx, participation)
	})
	if err != nil {
		return nil, err
	}

	return s.expand(ctx, expedition, false)
}

// GetByID returns an expedition expanded with participants, its workout
// feed and the creator profile.
func (s *expeditionService) GetByID(ctx context.Context, id string) (*domain.Expedition, error) {
	expedition, err := s.expeditionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpeditionNotFound
		}
		return nil, err
	}
	return s.expand(ctx, expedition, true)
}

// GetPublic returns all public, still-upcoming expeditions ordered by start
// date, each expanded with participants and creator.
func (s *expeditionService) GetPublic(ctx context.Context) ([]domain.Expedition, error) {
	expeditions, err := s.expeditionRepo.ListPublicUpcoming(ctx)
	if err != nil {
		return nil, err
	}
	for i := range expeditions {
		if _, err := s.expand(ctx, &expeditions[i], false); err != nil {
			return nil, err
		}
	}
	return expeditions, nil
}

// Join adds a profile to an expedition. Private expeditions require the
// matching invite code; only "upcoming" expeditions are joinable. The
// compound unique index is the final word on duplicate joins.
func (s *expeditionService) Join(ctx context.Context, expeditionID, profileID string, inviteCode *string) (*domain.UserExpedition, error) {
	expedition, err := s.expeditionRepo.GetByID(ctx, expeditionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpeditionNotFound
		}
		return nil, err
	}

	if expedition.Status != domain.ExpeditionUpcoming {
		return nil, ErrNotJoinable
	}
	if !expedition.IsPublic {
		if inviteCode == nil || expedition.InviteCode == nil || *expedition.InviteCode != *inviteCode {
			return nil, ErrInvalidInviteCode
		}
	}

	return s.enroll(ctx, profileID, expedition)
}

// JoinByCode resolves a private expedition from its invite code and joins it.
func (s *expeditionService) JoinByCode(ctx context.Context, inviteCode, profileID string) (*domain.UserExpedition, error) {
	if inviteCode == "" || profileID == "" {
		return nil, errors.New("profile id and invite code are required")
	}

	expedition, err := s.expeditionRepo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, err
	}

	if expedition.Status != domain.ExpeditionUpcoming {
		return nil, ErrNotJoinable
	}

	return s.enroll(ctx, profileID, expedition)
}

func (s *expeditionService) enroll(ctx context.Context, profileID string, expedition *domain.Expedition) (*domain.UserExpedition, error) {
	if _, err := s.membershipRepo.Get(ctx, profileID, expedition.ID); err == nil {
		return nil, ErrAlreadyParticipating
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	participation := &domain.UserExpedition{
		ID:            uuid.NewString(),
		UserProfileID: profileID,
		ExpeditionID:  expedition.ID,
		PointsEarned:  0,
		IsActive:      true,
		JoinedAt:      time.Now().UTC(),
	}

	if err := s.membershipRepo.Create(ctx, participation); err != nil {
		// Lost the race against a concurrent join by the same user.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyParticipating
		}
		return nil, err
	}

	participation.Expedition = expedition
	if profile, err := s.profileRepo.GetByID(ctx, profileID); err == nil {
		participation.UserProfile = profile
	}
	return participation, nil
}

// Leave removes a participation record. Leaving is allowed any time except
// mid-challenge; the workout history stays untouched either way.
func (s *expeditionService) Leave(ctx context.Context, expeditionID, profileID string) error {
	_, err := s.membershipRepo.Get(ctx, profileID, expeditionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotParticipating
		}
		return err
	}

	expedition, err := s.expeditionRepo.GetByID(ctx, expeditionID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if expedition != nil && expedition.Status == domain.ExpeditionActive {
		return ErrExpeditionActive
	}

	return s.membershipRepo.Delete(ctx, profileID, expeditionID)
}

// GetLeaderboard returns participation rows ordered by pointsEarned
// descending, with profiles and display names attached.
func (s *expeditionService) GetLeaderboard(ctx context.Context, expeditionID string) ([]domain.UserExpedition, error) {
	if _, err := s.expeditionRepo.GetByID(ctx, expeditionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpeditionNotFound
		}
		return nil, err
	}

	participants, err := s.membershipRepo.ListByExpedition(ctx, expeditionID, true)
	if err != nil {
		return nil, err
	}
	if err := s.attachProfiles(ctx, participants); err != nil {
		return nil, err
	}
	return participants, nil
}

// GetProgress aggregates an expedition's standing: summed participant
// points, capped completion percentage and the latest workout activity.
func (s *expeditionService) GetProgress(ctx context.Context, expeditionID string) (*ExpeditionProgress, error) {
	expedition, err := s.expeditionRepo.GetByID(ctx, expeditionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpeditionNotFound
		}
		return nil, err
	}

	totalPoints, err := s.membershipRepo.SumPointsByExpedition(ctx, expeditionID)
	if err != nil {
		return nil, err
	}
	participantCount, err := s.membershipRepo.CountByExpedition(ctx, expeditionID)
	if err != nil {
		return nil, err
	}

	progressPercentage := 0.0
	if expedition.TargetPoints > 0 {
		progressPercentage = totalPoints / expedition.TargetPoints * 100
		if progressPercentage > 100 {
			progressPercentage = 100
		}
	}

	recentWorkouts, err := s.workoutRepo.ListRecentByExpedition(ctx, expeditionID, progressRecentWorkouts)
	if err != nil {
		return nil, err
	}
	if err := s.attachWorkoutProfiles(ctx, recentWorkouts); err != nil {
		return nil, err
	}

	if _, err := s.expand(ctx, expedition, false); err != nil {
		return nil, err
	}

	return &ExpeditionProgress{
		Expedition:         expedition,
		TotalPoints:        totalPoints,
		TargetPoints:       expedition.TargetPoints,
		ProgressPercentage: points.Round2(progressPercentage),
		ParticipantCount:   participantCount,
		RecentWorkouts:     recentWorkouts,
	}, nil
}

// ListForUser returns a profile's participations, most recently joined
// first, each with its expedition attached.
func (s *expeditionService) ListForUser(ctx context.Context, profileID string) ([]domain.UserExpedition, error) {
	participations, err := s.membershipRepo.ListByUser(ctx, profileID)
	if err != nil {
		return nil, err
	}
	for i := range participations {
		expedition, err := s.expeditionRepo.GetByID(ctx, participations[i].ExpeditionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		participations[i].Expedition = expedition
	}
	return participations, nil
}

// generateInviteCode draws 8 uppercase-alphanumeric characters uniformly
// and retries on the (unlikely) collision with an existing code.
func (s *expeditionService) generateInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < inviteCodeRetries; attempt++ {
		code := make([]byte, inviteCodeLength)
		for i := range code {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeAlphabet))))
			if err != nil {
				return "", err
			}
			code[i] = inviteCodeAlphabet[n.Int64()]
		}

		exists, err := s.expeditionRepo.InviteCodeExists(ctx, string(code))
		if err != nil {
			return "", err
		}
		if !exists {
			return string(code), nil
		}
	}
	return "", errors.New("could not generate a unique invite code")
}

// expand attaches participants, creator and (optionally) the workout feed
// to an expedition.
func (s *expeditionService) expand(ctx context.Context, expedition *domain.Expedition, withWorkouts bool) (*domain.Expedition, error) {
	participants, err := s.membershipRepo.ListByExpedition(ctx, expedition.ID, false)
	if err != nil {
		return nil, err
	}
	if err := s.attachProfiles(ctx, participants); err != nil {
		return nil, err
	}
	expedition.Participants = participants

	creator, err := s.profileRepo.GetByID(ctx, expedition.CreatedByID)
	if err == nil {
		s.resolveProfile(ctx, creator)
		expedition.Creator = creator
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if withWorkouts {
		workouts, err := s.workoutRepo.ListRecentByExpedition(ctx, expedition.ID, 0)
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
			workouts[i].Photos = byWorkout[workouts[i].ID]
		}
		if err := s.attachWorkoutProfiles(ctx, workouts); err != nil {
			return nil, err
		}
		expedition.Workouts = workouts
	}

	return expedition, nil
}

// attachProfiles resolves the profile, class and display name for each
// participation row. Names come from one batched user lookup.
func (s *expeditionService) attachProfiles(ctx context.Context, participations []domain.UserExpedition) error {
	userIDs := make([]string, 0, len(participations))
	for i := range participations {
		profile, err := s.profileRepo.GetByID(ctx, participations[i].UserProfileID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return err
		}
		s.resolveProfile(ctx, profile)
		participations[i].UserProfile = profile
		userIDs = append(userIDs, profile.UserID)
	}

	names, err := s.userRepo.GetNamesByIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	for i := range participations {
		if p := participations[i].UserProfile; p != nil {
			p.UserName = names[p.UserID]
		}
	}
	return nil
}

func (s *expeditionService) attachWorkoutProfiles(ctx context.Context, workouts []domain.Workout) error {
	userIDs := make([]string, 0, len(workouts))
	for i := range workouts {
		profile, err := s.profileRepo.GetByID(ctx, workouts[i].UserProfileID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return err
		}
		s.resolveProfile(ctx, profile)
		workouts[i].UserProfile = profile
		userIDs = append(userIDs, profile.UserID)
	}

	names, err := s.userRepo.GetNamesByIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	for i := range workouts {
		if p := workouts[i].UserProfile; p != nil {
			p.UserName = names[p.UserID]
		}
	}
	return nil
}

func (s *expeditionService) resolveProfile(ctx context.Context, profile *domain.UserProfile) {
	if profile.CharacterClassID == nil {
		return
	}
	if class, err := s.classRepo.GetByID(ctx, *profile.CharacterClassID); err == nil {
		profile.CharacterClass = class
	}
}
