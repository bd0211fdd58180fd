package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"fitquest/expedition-app/internal/domain"

	"github.com/stretchr/testify/require"
)

type expeditionFixture struct {
	users       *fakeUserRepo
	profiles    *fakeProfileRepo
	classes     *fakeClassRepo
	expeditions *fakeExpeditionRepo
	memberships *fakeMembershipRepo
	workouts    *fakeWorkoutRepo
	photos      *fakePhotoRepo
	svc         ExpeditionService
}

func newExpeditionFixture() *expeditionFixture {
	f := &expeditionFixture{
		users:       newFakeUserRepo(),
		profiles:    newFakeProfileRepo(),
		classes:     &fakeClassRepo{},
		expeditions: newFakeExpeditionRepo(),
		memberships: &fakeMembershipRepo{},
		workouts:    newFakeWorkoutRepo(),
		photos:      &fakePhotoRepo{},
	}
	f.svc = NewExpeditionService(f.expeditions, f.memberships, f.profiles, f.workouts, f.photos, f.classes, f.users, fakeTxManager{})
	return f
}

// addUser seeds a user plus profile and returns the profile id.
func (f *expeditionFixture) addUser(t *testing.T, userID, name string) string {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), &domain.User{ID: userID, Name: name, Email: userID + "@example.com"}))
	profile := &domain.UserProfile{ID: "profile-" + userID, UserID: userID, Level: 1}
	require.NoError(t, f.profiles.Create(context.Background(), profile))
	return profile.ID
}

func createInput(creatorUserID string, isPublic bool) CreateExpeditionInput {
	return CreateExpeditionInput{
		CreatorUserID: creatorUserID,
		Name:          "Mount Cardio",
		Description:   "Climb together",
		TargetPoints:  500,
		DurationDays:  14,
		IsPublic:      isPublic,
		StartDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateExpeditionEnrollsCreator(t *testing.T) {
	f := newExpeditionFixture()
	profileID := f.addUser(t, "user-1", "Ada")

	expedition, err := f.svc.Create(context.Background(), createInput("user-1", true))
	require.NoError(t, err)

	require.Equal(t, domain.ExpeditionUpcoming, expedition.Status)
	require.Equal(t, profileID, expedition.CreatedByID)
	require.Nil(t, expedition.InviteCode)
	require.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), expedition.EndDate)

	// Creator must already be a participant.
	membership, err := f.memberships.Get(context.Background(), profileID, expedition.ID)
	require.NoError(t, err)
	require.True(t, membership.IsActive)
	require.Zero(t, membership.PointsEarned)
}

func TestCreatePrivateExpeditionGeneratesInviteCode(t *testing.T) {
	f := newExpeditionFixture()
	f.addUser(t, "user-1", "Ada")

	expedition, err := f.svc.Create(context.Background(), createInput("user-1", false))
	require.NoError(t, err)

	require.NotNil(t, expedition.InviteCode)
	require.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{8}$`), *expedition.InviteCode)
}

func TestCreateExpeditionRequiresProfile(t *testing.T) {
	f := newExpeditionFixture()

	_, err := f.svc.Create(context.Background(), createInput("no-profile", true))
	require.ErrorIs(t, err, ErrCreatorProfileNeeded)
}

func TestJoinPublicExpedition(t *testing.T) {
	f := newExpeditionFixture()
	f.addUser(t, "user-1", "Ada")
	joinerID := f.addUser(t, "user-2", "Grace")

	expedition, err := f.svc.Create(context.Background(), createInput("user-1", true))
	require.NoError(t, err)

	participation, err := f.svc.Join(context.Background(), expedition.ID, joinerID, nil)
	require.NoError(t, err)
	require.Equal(t, joinerID, participation.UserProfileID)
	require.True(t, participation.IsActive)

	// Joining twice is rejected.
	_, err = f.svc.Join(context.Background(), expedition.ID, joinerID, nil)
	require.ErrorIs(t, err, ErrAlreadyParticipating)
}

func TestJoinPrivateExpeditionValidatesInviteCode(t *testing.T) {
	f := newExpeditionFixture()
	f.addUser(t, "user-1", "Ada")
	joinerID := f.addUser(t, "user-2", "Grace")

	expedition, err := f.svc.Create(context.Background(), createInput("user-1", false))
	require.NoError(t, err)

	_, err = f.svc.Join(context.Background(), expedition.ID, joinerID, nil)
	require.ErrorIs(t, err, ErrInvalidInviteCode)

	wrong := "WRONGCOD"
	_, err = f.svc.Join(context.Background(), expedition.ID, joinerID, &wrong)
	require.ErrorIs(t, err, ErrInvalidInviteCode)

	_, err = f.svc.Join(context.Background(), expedition.ID, joinerID, expedition.InviteCode)
	require.NoError(t, err)
}

func TestJoinRejectsNonUpcomingExpedition(t *testing.T) {
	f := newExpeditionFixture()
	f.addUser(t, "user-1", "Ada")
	joinerID := f.addUser(t, "user-2", "Grace")

	expedition, err := f.svc.Create(context.Background(), createInput("user-1", true))
	require.NoError(t, err)
	f.expeditions.expeditions[expedition.ID].Status = domain.ExpeditionActive

	_, err = f.svc.Join(context.Background(), expedition.ID, joinerID, nil)
	require.ErrorIs(t, err, ErrNotJoinable)
}

func TestJoinByCode(t *testing.T) {
	f := newExpeditionFixture()
	f.addUser(t, "user-1", "Ada")
	joinerID := f.addUser(t, "user-2", "Grace")

	expedition, err := f.svc.Create(context.Background(), createInput("user-1", false))
	require.NoError(t, err)

	participation, err := f.svc.JoinByCode(context.Background(), *expedition.InviteCode, joinerID)
	require.NoError(t, err)
	require.Equal(t, expedition.ID, participation.ExpeditionID)

	// An unknown code means the expedition cannot be found at all.
	_, err = f.svc.JoinByCode(context.Background(), "NOSUCHCD", joinerID)
	require.ErrorIs(t, err, ErrInvalidInviteCode)
}

func TestLeaveExpedition(t *testing.T) {
	f := newExpeditionFixture()
	f.addUser(t, "user-1", "Ada")
	joinerID := f.addUser(t, "user-2", "Grace")

	expedition, err := f.svc.Create(context.Background(), createInput("user-1", true))
	require.NoError(t, err)

	// Not a participant yet.
	require.ErrorIs(t, f.svc.Leave(context.Background(), expedition.ID, joinerID), ErrNotParticipating)

	_, err = f.svc.Join(context.Background(), expedition.ID, joinerID, nil)
	require.NoError(t, err)

	// Mid-challenge departures are blocked.
	f.expeditions.expeditions[expedition.ID].Status = domain.ExpeditionActive
	require.ErrorIs(t, f.svc.Leave(context.Background(), expedition.ID, joinerID), ErrExpeditionActive)

	f.expeditions.expeditions[expedition.ID].Status = domain.ExpeditionUpcoming
	require.NoError(t, f.svc.Leave(context.Background(), expedition.ID, joinerID))

	_, err = f.memberships.Get(context.Background(), joinerID, expedition.ID)
	require.Error(t, err)
}

func TestLeaderboardOrdersByPointsDescending(t *testing.T) {
	f := newExpeditionFixture()
	creatorID := f.addUser(t, "user-1", "Ada")
	secondID := f.addUser(t, "user-2", "Grace")
	thirdID := f.addUser(t, "user-3", "Edsger")

	expedition, err := f.svc.Create(context.Background(), createInput("user-1", true))
	require.NoError(t, err)

	_, err = f.svc.Join(context.Background(), expedition.ID, secondID, nil)
	require.NoError(t, err)
	_, err = f.svc.Join(context.Background(), expedition.ID, thirdID, nil)
	require.NoError(t, err)

	require.NoError(t, f.memberships.ApplyPointsDelta(context.Background(), creatorID, expedition.ID, 5))
	require.NoError(t, f.memberships.ApplyPointsDelta(context.Background(), secondID, expedition.ID, 20))
	require.NoError(t, f.memberships.ApplyPointsDelta(context.Background(), thirdID, expedition.ID, 10))

	leaderboard, err := f.svc.GetLeaderboard(context.Background(), expedition.ID)
	require.NoError(t, err)
	require.Len(t, leaderboard, 3)
	require.Equal(t, secondID, leaderboard[0].UserProfileID)
	require.Equal(t, thirdID, leaderboard[1].UserProfileID)
	require.Equal(t, creatorID, leaderboard[2].UserProfileID)

	// Display names ride along for rendering.
	require.Equal(t, "Grace", leaderboard[0].UserProfile.UserName)
}

func TestProgressPercentage(t *testing.T) {
	f := newExpeditionFixture()
	creatorID := f.addUser(t, "user-1", "Ada")

	expedition, err := f.svc.Create(context.Background(), createInput("user-1", true))
	require.NoError(t, err)

	require.NoError(t, f.memberships.ApplyPointsDelta(context.Background(), creatorID, expedition.ID, 100))

	progress, err := f.svc.GetProgress(context.Background(), expedition.ID)
	require.NoError(t, err)
	require.InDelta(t, 100.0, progress.TotalPoints, 1e-9)
	require.InDelta(t, 20.0, progress.ProgressPercentage, 1e-9) // 100 / 500
	require.Equal(t, int64(1), progress.ParticipantCount)

	// Overshooting the target caps the percentage at 100.
	require.NoError(t, f.memberships.ApplyPointsDelta(context.Background(), creatorID, expedition.ID, 900))
	progress, err = f.svc.GetProgress(context.Background(), expedition.ID)
	require.NoError(t, err)
	require.InDelta(t, 100.0, progress.ProgressPercentage, 1e-9)
}

func TestGetProgressUnknownExpedition(t *testing.T) {
	f := newExpeditionFixture()
	_, err := f.svc.GetProgress(context.Background(), "missing")
	require.ErrorIs(t, err, ErrExpeditionNotFound)
}
