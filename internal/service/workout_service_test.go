package service

import (
	"context"
	"testing"
	"time"

	"fitquest/expedition-app/internal/domain"

	"github.com/stretchr/testify/require"
)

type workoutFixture struct {
	profiles    *fakeProfileRepo
	classes     *fakeClassRepo
	memberships *fakeMembershipRepo
	workouts    *fakeWorkoutRepo
	photos      *fakePhotoRepo
	storage     *fakeFileStorage
	now         time.Time
	svc         WorkoutService

	profileID    string
	expeditionID string
}

func newWorkoutFixture(t *testing.T) *workoutFixture {
	t.Helper()

	f := &workoutFixture{
		profiles:    newFakeProfileRepo(),
		classes:     &fakeClassRepo{},
		memberships: &fakeMembershipRepo{},
		workouts:    newFakeWorkoutRepo(),
		photos:      &fakePhotoRepo{},
		storage:     &fakeFileStorage{},
		now:         time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),

		profileID:    "profile-1",
		expeditionID: "expedition-1",
	}

	require.NoError(t, f.classes.InsertMany(context.Background(), []domain.CharacterClass{{
		ID:              "warrior",
		Name:            "Warrior",
		SoloMultiplier:  0.6,
		GroupMultiplier: 1.2,
	}}))

	classID := "warrior"
	require.NoError(t, f.profiles.Create(context.Background(), &domain.UserProfile{
		ID:               f.profileID,
		UserID:           "user-1",
		CharacterClassID: &classID,
		Level:            1,
	}))
	require.NoError(t, f.memberships.Create(context.Background(), &domain.UserExpedition{
		ID:            "membership-1",
		UserProfileID: f.profileID,
		ExpeditionID:  f.expeditionID,
		IsActive:      true,
		JoinedAt:      f.now,
	}))

	svc := NewWorkoutService(f.workouts, f.photos, f.profiles, f.memberships, f.classes, fakeTxManager{}, f.storage)
	svc.(*workoutService).now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func (f *workoutFixture) createInput(basePoints float64) CreateWorkoutInput {
	return CreateWorkoutInput{
		UserProfileID: f.profileID,
		ExpeditionID:  &f.expeditionID,
		ExerciseType:  "Running",
		Duration:      30,
		METValue:      9.8,
		BasePoints:    basePoints,
		IsSolo:        true,
		IsPublic:      true,
		WorkoutDate:   f.now.Add(-2 * time.Hour),
	}
}

func (f *workoutFixture) profilePoints(t *testing.T) float64 {
	t.Helper()
	profile, err := f.profiles.GetByID(context.Background(), f.profileID)
	require.NoError(t, err)
	return profile.TotalPoints
}

func (f *workoutFixture) membershipPoints(t *testing.T) float64 {
	t.Helper()
	membership, err := f.memberships.Get(context.Background(), f.profileID, f.expeditionID)
	require.NoError(t, err)
	return membership.PointsEarned
}

func TestCreateWorkoutAppliesMultiplierAndLedgers(t *testing.T) {
	f := newWorkoutFixture(t)

	// Solo warrior: 29.4 base * 0.6 = 17.64 final.
	workout, err := f.svc.Create(context.Background(), f.createInput(29.4))
	require.NoError(t, err)
	require.InDelta(t, 17.64, workout.Points, 1e-9)

	// Both ledgers move by exactly the workout's points.
	require.InDelta(t, 17.64, f.profilePoints(t), 1e-9)
	require.InDelta(t, 17.64, f.membershipPoints(t), 1e-9)
}

func TestCreateWorkoutWithoutClassUsesUnitMultiplier(t *testing.T) {
	f := newWorkoutFixture(t)
	require.NoError(t, f.profiles.SetCharacterClass(context.Background(), "user-1", nil))

	workout, err := f.svc.Create(context.Background(), f.createInput(29.4))
	require.NoError(t, err)
	require.InDelta(t, 29.4, workout.Points, 1e-9)
}

func TestCreateWorkoutStandaloneSkipsMembershipLedger(t *testing.T) {
	f := newWorkoutFixture(t)

	input := f.createInput(10)
	input.ExpeditionID = nil
	_, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)

	require.InDelta(t, 6.0, f.profilePoints(t), 1e-9)
	require.Zero(t, f.membershipPoints(t))
}

func TestCreateWorkoutLoggingWindow(t *testing.T) {
	f := newWorkoutFixture(t)

	// Exactly 24 hours old is still inside the window.
	input := f.createInput(10)
	input.WorkoutDate = f.now.Add(-editWindow)
	_, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)

	// One second past the window is not.
	input = f.createInput(10)
	input.WorkoutDate = f.now.Add(-editWindow - time.Second)
	_, err = f.svc.Create(context.Background(), input)
	require.ErrorIs(t, err, ErrLoggingWindowClosed)
}

func TestUpdateWorkoutAppliesPointsDifference(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.svc.Create(context.Background(), f.createInput(10)) // 6 points
	require.NoError(t, err)

	updated, err := f.svc.Update(context.Background(), workout.ID, f.profileID, UpdateWorkoutInput{
		Duration:   45,
		METValue:   9.8,
		BasePoints: 15, // 9 points
		IsPublic:   true,
	})
	require.NoError(t, err)
	require.InDelta(t, 9.0, updated.Points, 1e-9)

	// Ledgers moved by the +3 difference, not to a recomputed absolute.
	require.InDelta(t, 9.0, f.profilePoints(t), 1e-9)
	require.InDelta(t, 9.0, f.membershipPoints(t), 1e-9)
}

func TestUpdateWorkoutWindowClosed(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.svc.Create(context.Background(), f.createInput(10))
	require.NoError(t, err)

	f.now = f.now.Add(25 * time.Hour)
	_, err = f.svc.Update(context.Background(), workout.ID, f.profileID, UpdateWorkoutInput{
		Duration:   45,
		METValue:   9.8,
		BasePoints: 15,
	})
	require.ErrorIs(t, err, ErrUpdateWindowClosed)
}

func TestUpdateSomeoneElsesWorkout(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.svc.Create(context.Background(), f.createInput(10))
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), workout.ID, "other-profile", UpdateWorkoutInput{
		Duration:   45,
		METValue:   9.8,
		BasePoints: 15,
	})
	require.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestDeleteWorkoutReversesPoints(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.svc.Create(context.Background(), f.createInput(29.4))
	require.NoError(t, err)
	require.NoError(t, f.photos.Create(context.Background(), &domain.WorkoutPhoto{
		ID:        "photo-1",
		WorkoutID: workout.ID,
		ObjectKey: "photos/profile-1/w/p.jpeg",
	}))

	require.NoError(t, f.svc.Delete(context.Background(), workout.ID, f.profileID))

	// Everything the workout contributed is gone again.
	require.InDelta(t, 0.0, f.profilePoints(t), 1e-9)
	require.InDelta(t, 0.0, f.membershipPoints(t), 1e-9)

	_, err = f.workouts.GetByID(context.Background(), workout.ID)
	require.Error(t, err)
	remaining, err := f.photos.ListByWorkout(context.Background(), workout.ID)
	require.NoError(t, err)
	require.Empty(t, remaining)
	require.Equal(t, []string{"photos/profile-1/w/p.jpeg"}, f.storage.deleted)
}

func TestDeleteWorkoutWindowClosed(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.svc.Create(context.Background(), f.createInput(10))
	require.NoError(t, err)

	f.now = f.now.Add(25 * time.Hour)
	require.ErrorIs(t, f.svc.Delete(context.Background(), workout.ID, f.profileID), ErrDeletionWindowClosed)

	// The failed delete left the ledgers alone.
	require.InDelta(t, 6.0, f.profilePoints(t), 1e-9)
}

func TestCalculatePointsPreview(t *testing.T) {
	f := newWorkoutFixture(t)

	preview, err := f.svc.CalculatePoints(context.Background(), f.profileID, 30, 9.8, true)
	require.NoError(t, err)
	require.InDelta(t, 29.4, preview.BasePoints, 1e-9)
	require.InDelta(t, 17.64, preview.FinalPoints, 1e-9)
	require.InDelta(t, 0.6, preview.Multiplier, 1e-9)

	preview, err = f.svc.CalculatePoints(context.Background(), f.profileID, 30, 9.8, false)
	require.NoError(t, err)
	require.InDelta(t, 35.28, preview.FinalPoints, 1e-9)
	require.InDelta(t, 1.2, preview.Multiplier, 1e-9)
}

func TestRequestPhotoUpload(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.svc.Create(context.Background(), f.createInput(10))
	require.NoError(t, err)

	_, err = f.svc.RequestPhotoUpload(context.Background(), workout.ID, f.profileID, "text/plain")
	require.ErrorIs(t, err, ErrInvalidPhotoType)

	ticket, err := f.svc.RequestPhotoUpload(context.Background(), workout.ID, f.profileID, "image/jpeg")
	require.NoError(t, err)
	require.NotEmpty(t, ticket.UploadURL)
	require.Contains(t, ticket.ObjectKey, workout.ID)
}

func TestAttachPhoto(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.svc.Create(context.Background(), f.createInput(10))
	require.NoError(t, err)

	photo, err := f.svc.AttachPhoto(context.Background(), workout.ID, f.profileID, "photos/profile-1/w/p.jpeg", "summit")
	require.NoError(t, err)
	require.Equal(t, workout.ID, photo.WorkoutID)
	require.NotEmpty(t, photo.URL)

	photos, err := f.photos.ListByWorkout(context.Background(), workout.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
}
