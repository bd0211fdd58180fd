package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedCharacterClasses(t *testing.T) {
	classes := &fakeClassRepo{}
	svc := NewReferenceService(classes, &fakeExerciseTypeRepo{})
	ctx := context.Background()

	result, err := svc.SeedCharacterClasses(ctx)
	require.NoError(t, err)
	require.False(t, result.AlreadySeeded)
	require.Equal(t, 5, result.Count)

	// Seeding again must not duplicate anything.
	result, err = svc.SeedCharacterClasses(ctx)
	require.NoError(t, err)
	require.True(t, result.AlreadySeeded)

	listed, err := svc.ListCharacterClasses(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 5)

	warrior, err := svc.GetCharacterClass(ctx, "warrior")
	require.NoError(t, err)
	require.InDelta(t, 0.6, warrior.SoloMultiplier, 1e-9)
	require.InDelta(t, 1.2, warrior.GroupMultiplier, 1e-9)

	_, err = svc.GetCharacterClass(ctx, "bard")
	require.ErrorIs(t, err, ErrCharacterClassNotFound)
}

func TestSeedExerciseTypes(t *testing.T) {
	types := &fakeExerciseTypeRepo{}
	svc := NewReferenceService(&fakeClassRepo{}, types)
	ctx := context.Background()

	result, err := svc.SeedExerciseTypes(ctx)
	require.NoError(t, err)
	require.False(t, result.AlreadySeeded)
	require.Equal(t, len(defaultExerciseTypes), result.Count)

	listed, err := svc.ListExerciseTypes(ctx)
	require.NoError(t, err)
	require.Len(t, listed, len(defaultExerciseTypes))
	for _, et := range listed {
		require.NotEmpty(t, et.ID)
		require.Greater(t, et.METValue, 0.0)
	}

	result, err = svc.SeedExerciseTypes(ctx)
	require.NoError(t, err)
	require.True(t, result.AlreadySeeded)
}
