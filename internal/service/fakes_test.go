package service

import (
	"context"
	"sort"
	"time"

	"fitquest/expedition-app/internal/domain"
	"fitquest/expedition-app/internal/repository"
)

// In-memory repository fakes. They mirror the semantics the mongo
// implementations guarantee: ErrDuplicate from the unique indexes, atomic
// point increments and the silent no-op on missing participation rows.

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeFileStorage struct {
	uploads []string
	deleted []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	f.uploads = append(f.uploads, objectKey)
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// --- Users ---

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetNamesByIDs(_ context.Context, ids []string) (map[string]string, error) {
	names := map[string]string{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			names[id] = u.Name
		}
	}
	return names, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// --- Character classes ---

type fakeClassRepo struct {
	classes []domain.CharacterClass
}

func (f *fakeClassRepo) List(_ context.Context) ([]domain.CharacterClass, error) {
	out := make([]domain.CharacterClass, len(f.classes))
	copy(out, f.classes)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeClassRepo) GetByID(_ context.Context, id string) (*domain.CharacterClass, error) {
	for i := range f.classes {
		if f.classes[i].ID == id {
			copied := f.classes[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeClassRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.classes)), nil
}

func (f *fakeClassRepo) InsertMany(_ context.Context, classes []domain.CharacterClass) error {
	f.classes = append(f.classes, classes...)
	return nil
}

// --- Exercise types ---

type fakeExerciseTypeRepo struct {
	types []domain.ExerciseType
}

func (f *fakeExerciseTypeRepo) List(_ context.Context) ([]domain.ExerciseType, error) {
	out := make([]domain.ExerciseType, len(f.types))
	copy(out, f.types)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeExerciseTypeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.types)), nil
}

func (f *fakeExerciseTypeRepo) InsertMany(_ context.Context, types []domain.ExerciseType) error {
	f.types = append(f.types, types...)
	return nil
}

// --- Profiles ---

type fakeProfileRepo struct {
	profiles map[string]*domain.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*domain.UserProfile{}}
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *domain.UserProfile) error {
	for _, p := range f.profiles {
		if p.UserID == profile.UserID {
			return repository.ErrDuplicate
		}
	}
	copied := *profile
	f.profiles[profile.ID] = &copied
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*domain.UserProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.UserProfile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) SetCharacterClass(_ context.Context, userID string, characterClassID *string) error {
	for _, p := range f.profiles {
		if p.UserID == userID {
			p.CharacterClassID = characterClassID
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeProfileRepo) Patch(_ context.Context, userID string, totalPoints *float64, level *int, characterClassID *string) error {
	for _, p := range f.profiles {
		if p.UserID == userID {
			if totalPoints != nil {
				p.TotalPoints = *totalPoints
			}
			if level != nil {
				p.Level = *level
			}
			if characterClassID != nil {
				p.CharacterClassID = characterClassID
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeProfileRepo) ApplyPointsDelta(_ context.Context, profileID string, delta float64) error {
	if p, ok := f.profiles[profileID]; ok {
		p.TotalPoints += delta
	}
	return nil
}

func (f *fakeProfileRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.profiles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.profiles, id)
	return nil
}

// --- Expeditions ---

type fakeExpeditionRepo struct {
	expeditions map[string]*domain.Expedition
}

func newFakeExpeditionRepo() *fakeExpeditionRepo {
	return &fakeExpeditionRepo{expeditions: map[string]*domain.Expedition{}}
}

func (f *fakeExpeditionRepo) Create(_ context.Context, expedition *domain.Expedition) error {
	copied := *expedition
	f.expeditions[expedition.ID] = &copied
	return nil
}

func (f *fakeExpeditionRepo) GetByID(_ context.Context, id string) (*domain.Expedition, error) {
	e, ok := f.expeditions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeExpeditionRepo) GetByInviteCode(_ context.Context, inviteCode string) (*domain.Expedition, error) {
	for _, e := range f.expeditions {
		if e.InviteCode != nil && *e.InviteCode == inviteCode {
			copied := *e
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExpeditionRepo) InviteCodeExists(_ context.Context, inviteCode string) (bool, error) {
	for _, e := range f.expeditions {
		if e.InviteCode != nil && *e.InviteCode == inviteCode {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeExpeditionRepo) ListPublicUpcoming(_ context.Context) ([]domain.Expedition, error) {
	var out []domain.Expedition
	for _, e := range f.expeditions {
		if e.IsPublic && e.Status == domain.ExpeditionUpcoming {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (f *fakeExpeditionRepo) ListByCreator(_ context.Context, profileID string) ([]domain.Expedition, error) {
	var out []domain.Expedition
	for _, e := range f.expeditions {
		if e.CreatedByID == profileID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExpeditionRepo) SetCreatedBy(_ context.Context, expeditionID, profileID string) error {
	e, ok := f.expeditions[expeditionID]
	if !ok {
		return repository.ErrNotFound
	}
	e.CreatedByID = profileID
	return nil
}

func (f *fakeExpeditionRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.expeditions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.expeditions, id)
	return nil
}

// --- Participations ---

type fakeMembershipRepo struct {
	rows []*domain.UserExpedition
}

func (f *fakeMembershipRepo) Create(_ context.Context, participation *domain.UserExpedition) error {
	for _, r := range f.rows {
		if r.UserProfileID == participation.UserProfileID && r.ExpeditionID == participation.ExpeditionID {
			return repository.ErrDuplicate
		}
	}
	copied := *participation
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeMembershipRepo) Get(_ context.Context, profileID, expeditionID string) (*domain.UserExpedition, error) {
	for _, r := range f.rows {
		if r.UserProfileID == profileID && r.ExpeditionID == expeditionID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMembershipRepo) ListByExpedition(_ context.Context, expeditionID string, orderByPointsDesc bool) ([]domain.UserExpedition, error) {
	var out []domain.UserExpedition
	for _, r := range f.rows {
		if r.ExpeditionID == expeditionID {
			out = append(out, *r)
		}
	}
	if orderByPointsDesc {
		sort.Slice(out, func(i, j int) bool { return out[i].PointsEarned > out[j].PointsEarned })
	}
	return out, nil
}

func (f *fakeMembershipRepo) ListByUser(_ context.Context, profileID string) ([]domain.UserExpedition, error) {
	var out []domain.UserExpedition
	for _, r := range f.rows {
		if r.UserProfileID == profileID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.After(out[j].JoinedAt) })
	return out, nil
}

func (f *fakeMembershipRepo) FirstByExpedition(_ context.Context, expeditionID string) (*domain.UserExpedition, error) {
	var first *domain.UserExpedition
	for _, r := range f.rows {
		if r.ExpeditionID != expeditionID {
			continue
		}
		if first == nil || r.JoinedAt.Before(first.JoinedAt) {
			first = r
		}
	}
	if first == nil {
		return nil, repository.ErrNotFound
	}
	copied := *first
	return &copied, nil
}

func (f *fakeMembershipRepo) CountByExpedition(_ context.Context, expeditionID string) (int64, error) {
	var n int64
	for _, r := range f.rows {
		if r.ExpeditionID == expeditionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeMembershipRepo) SumPointsByExpedition(_ context.Context, expeditionID string) (float64, error) {
	var sum float64
	for _, r := range f.rows {
		if r.ExpeditionID == expeditionID {
			sum += r.PointsEarned
		}
	}
	return sum, nil
}

func (f *fakeMembershipRepo) ApplyPointsDelta(_ context.Context, profileID, expeditionID string, delta float64) error {
	for _, r := range f.rows {
		if r.UserProfileID == profileID && r.ExpeditionID == expeditionID {
			r.PointsEarned += delta
			return nil
		}
	}
	// Missing row is a no-op, matching the $inc update semantics.
	return nil
}

func (f *fakeMembershipRepo) Delete(_ context.Context, profileID, expeditionID string) error {
	for i, r := range f.rows {
		if r.UserProfileID == profileID && r.ExpeditionID == expeditionID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeMembershipRepo) DeleteByUser(_ context.Context, profileID string) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.UserProfileID != profileID {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeMembershipRepo) DeleteByExpedition(_ context.Context, expeditionID string) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.ExpeditionID != expeditionID {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

// --- Workouts ---

type fakeWorkoutRepo struct {
	workouts map[string]*domain.Workout
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: map[string]*domain.Workout{}}
}

func (f *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) error {
	copied := *workout
	f.workouts[workout.ID] = &copied
	return nil
}

func (f *fakeWorkoutRepo) GetByID(_ context.Context, id string) (*domain.Workout, error) {
	w, ok := f.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *w
	return &copied, nil
}

func (f *fakeWorkoutRepo) Update(_ context.Context, workout *domain.Workout) error {
	w, ok := f.workouts[workout.ID]
	if !ok {
		return repository.ErrNotFound
	}
	w.Duration = workout.Duration
	w.METValue = workout.METValue
	w.Points = workout.Points
	w.Notes = workout.Notes
	w.IsPublic = workout.IsPublic
	return nil
}

func (f *fakeWorkoutRepo) ListByUser(_ context.Context, profileID string, expeditionID *string) ([]domain.Workout, error) {
	var out []domain.Workout
	for _, w := range f.workouts {
		if w.UserProfileID != profileID {
			continue
		}
		if expeditionID != nil && (w.ExpeditionID == nil || *w.ExpeditionID != *expeditionID) {
			continue
		}
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkoutDate.After(out[j].WorkoutDate) })
	return out, nil
}

func (f *fakeWorkoutRepo) ListRecentByExpedition(_ context.Context, expeditionID string, limit int64) ([]domain.Workout, error) {
	var out []domain.Workout
	for _, w := range f.workouts {
		if w.ExpeditionID != nil && *w.ExpeditionID == expeditionID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkoutDate.After(out[j].WorkoutDate) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeWorkoutRepo) IDsByUser(_ context.Context, profileID string) ([]string, error) {
	var ids []string
	for _, w := range f.workouts {
		if w.UserProfileID == profileID {
			ids = append(ids, w.ID)
		}
	}
	return ids, nil
}

func (f *fakeWorkoutRepo) IDsByExpedition(_ context.Context, expeditionID string) ([]string, error) {
	var ids []string
	for _, w := range f.workouts {
		if w.ExpeditionID != nil && *w.ExpeditionID == expeditionID {
			ids = append(ids, w.ID)
		}
	}
	return ids, nil
}

func (f *fakeWorkoutRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.workouts, id)
	return nil
}

func (f *fakeWorkoutRepo) DeleteByUser(_ context.Context, profileID string) error {
	for id, w := range f.workouts {
		if w.UserProfileID == profileID {
			delete(f.workouts, id)
		}
	}
	return nil
}

func (f *fakeWorkoutRepo) DeleteByExpedition(_ context.Context, expeditionID string) error {
	for id, w := range f.workouts {
		if w.ExpeditionID != nil && *w.ExpeditionID == expeditionID {
			delete(f.workouts, id)
		}
	}
	return nil
}

// --- Workout photos ---

type fakePhotoRepo struct {
	photos []domain.WorkoutPhoto
}

func (f *fakePhotoRepo) Create(_ context.Context, photo *domain.WorkoutPhoto) error {
	f.photos = append(f.photos, *photo)
	return nil
}

func (f *fakePhotoRepo) ListByWorkout(_ context.Context, workoutID string) ([]domain.WorkoutPhoto, error) {
	var out []domain.WorkoutPhoto
	for _, p := range f.photos {
		if p.WorkoutID == workoutID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePhotoRepo) ListByWorkoutIDs(_ context.Context, workoutIDs []string) ([]domain.WorkoutPhoto, error) {
	ids := map[string]bool{}
	for _, id := range workoutIDs {
		ids[id] = true
	}
	var out []domain.WorkoutPhoto
	for _, p := range f.photos {
		if ids[p.WorkoutID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePhotoRepo) DeleteByWorkout(_ context.Context, workoutID string) error {
	kept := f.photos[:0]
	for _, p := range f.photos {
		if p.WorkoutID != workoutID {
			kept = append(kept, p)
		}
	}
	f.photos = kept
	return nil
}

func (f *fakePhotoRepo) DeleteByWorkoutIDs(_ context.Context, workoutIDs []string) error {
	ids := map[string]bool{}
	for _, id := range workoutIDs {
		ids[id] = true
	}
	kept := f.photos[:0]
	for _, p := range f.photos {
		if !ids[p.WorkoutID] {
			kept = append(kept, p)
		}
	}
	f.photos = kept
	return nil
}

// --- Artifacts ---

type fakeArtifactRepo struct {
	artifacts []domain.UserArtifact
}

func (f *fakeArtifactRepo) ListByUser(_ context.Context, profileID string) ([]domain.UserArtifact, error) {
	var out []domain.UserArtifact
	for _, a := range f.artifacts {
		if a.UserProfileID == profileID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArtifactRepo) DeleteByUser(_ context.Context, profileID string) error {
	kept := f.artifacts[:0]
	for _, a := range f.artifacts {
		if a.UserProfileID != profileID {
			kept = append(kept, a)
		}
	}
	f.artifacts = kept
	return nil
}
