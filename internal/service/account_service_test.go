package service

import (
	"context"
	"testing"
	"time"

	"fitquest/expedition-app/internal/domain"

	"github.com/stretchr/testify/require"
)

type accountFixture struct {
	users       *fakeUserRepo
	profiles    *fakeProfileRepo
	workouts    *fakeWorkoutRepo
	photos      *fakePhotoRepo
	artifacts   *fakeArtifactRepo
	memberships *fakeMembershipRepo
	expeditions *fakeExpeditionRepo
	storage     *fakeFileStorage
	svc         AccountService
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		users:       newFakeUserRepo(),
		profiles:    newFakeProfileRepo(),
		workouts:    newFakeWorkoutRepo(),
		photos:      &fakePhotoRepo{},
		artifacts:   &fakeArtifactRepo{},
		memberships: &fakeMembershipRepo{},
		expeditions: newFakeExpeditionRepo(),
		storage:     &fakeFileStorage{},
	}
	f.svc = NewAccountService(f.users, f.profiles, f.workouts, f.photos, f.artifacts, f.memberships, f.expeditions, fakeTxManager{}, f.storage)
	return f
}

func (f *accountFixture) seedUser(t *testing.T, userID string) string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, &domain.User{ID: userID, Name: userID, Email: userID + "@example.com"}))
	profileID := "profile-" + userID
	require.NoError(t, f.profiles.Create(ctx, &domain.UserProfile{ID: profileID, UserID: userID, Level: 1}))
	return profileID
}

func (f *accountFixture) seedExpedition(t *testing.T, id, creatorProfileID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.expeditions.Create(ctx, &domain.Expedition{
		ID:           id,
		Name:         "Basecamp",
		TargetPoints: 100,
		Status:       domain.ExpeditionUpcoming,
		CreatedByID:  creatorProfileID,
	}))
	require.NoError(t, f.memberships.Create(ctx, &domain.UserExpedition{
		ID:            id + "-" + creatorProfileID,
		UserProfileID: creatorProfileID,
		ExpeditionID:  id,
		IsActive:      true,
		JoinedAt:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func TestDeleteAccountTransfersExpeditionOwnership(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	ownerProfile := f.seedUser(t, "owner")
	otherProfile := f.seedUser(t, "other")
	f.seedExpedition(t, "expedition-1", ownerProfile)
	require.NoError(t, f.memberships.Create(ctx, &domain.UserExpedition{
		ID:            "m-other",
		UserProfileID: otherProfile,
		ExpeditionID:  "expedition-1",
		IsActive:      true,
		JoinedAt:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}))

	require.NoError(t, f.svc.DeleteAccount(ctx, "owner"))

	// The expedition survives under the remaining participant.
	expedition, err := f.expeditions.GetByID(ctx, "expedition-1")
	require.NoError(t, err)
	require.Equal(t, otherProfile, expedition.CreatedByID)

	// The owner's identity, profile and membership are gone.
	_, err = f.users.GetByID(ctx, "owner")
	require.Error(t, err)
	_, err = f.profiles.GetByID(ctx, ownerProfile)
	require.Error(t, err)
	_, err = f.memberships.Get(ctx, ownerProfile, "expedition-1")
	require.Error(t, err)

	// The other participant is untouched.
	_, err = f.memberships.Get(ctx, otherProfile, "expedition-1")
	require.NoError(t, err)
}

func TestDeleteAccountCascadesSoleParticipantExpedition(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	ownerProfile := f.seedUser(t, "owner")
	f.seedExpedition(t, "expedition-1", ownerProfile)

	expeditionID := "expedition-1"
	require.NoError(t, f.workouts.Create(ctx, &domain.Workout{
		ID:            "workout-1",
		UserProfileID: ownerProfile,
		ExpeditionID:  &expeditionID,
		ExerciseType:  "Running",
		Points:        10,
	}))
	require.NoError(t, f.photos.Create(ctx, &domain.WorkoutPhoto{
		ID:        "photo-1",
		WorkoutID: "workout-1",
		ObjectKey: "photos/owner/workout-1/a.jpeg",
	}))
	f.artifacts.artifacts = append(f.artifacts.artifacts, domain.UserArtifact{
		ID:            "artifact-1",
		UserProfileID: ownerProfile,
		ArtifactID:    "badge",
	})

	require.NoError(t, f.svc.DeleteAccount(ctx, "owner"))

	// No participants left, so the expedition and its records go with it.
	_, err := f.expeditions.GetByID(ctx, expeditionID)
	require.Error(t, err)
	_, err = f.workouts.GetByID(ctx, "workout-1")
	require.Error(t, err)
	photos, err := f.photos.ListByWorkoutIDs(ctx, []string{"workout-1"})
	require.NoError(t, err)
	require.Empty(t, photos)
	artifacts, err := f.artifacts.ListByUser(ctx, ownerProfile)
	require.NoError(t, err)
	require.Empty(t, artifacts)

	// The orphaned S3 object was cleaned up after the commit.
	require.Equal(t, []string{"photos/owner/workout-1/a.jpeg"}, f.storage.deleted)
}

func TestDeleteAccountWithoutProfile(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, &domain.User{ID: "bare", Name: "bare", Email: "bare@example.com"}))

	require.ErrorIs(t, f.svc.DeleteAccount(ctx, "bare"), ErrProfileNotFound)
}
