package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/helpers"
	"github.com/yigit/studyhub/internal/testfixtures"
)

func TestProgramSweepStepsFollowDateRange(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()
	repo := h.ProgramRepository

	june := h.CreateProgram(t, "June Intensive", "2024-06-01", "2024-06-30", false)

	activated, err := repo.ActivateCurrent(ctx, helpers.MustParseDate("2024-06-15"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), activated)

	got, err := repo.GetByID(ctx, june.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	deactivated, err := repo.DeactivateOutOfRange(ctx, helpers.MustParseDate("2024-07-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deactivated)

	got, err = repo.GetByID(ctx, june.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestProgramSweepBoundariesAreInclusive(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()
	repo := h.ProgramRepository

	h.CreateProgram(t, "Starts today", "2024-06-15", "2024-06-20", false)
	h.CreateProgram(t, "Ends today", "2024-06-01", "2024-06-15", false)
	h.CreateProgram(t, "Ended yesterday", "2024-06-01", "2024-06-14", true)
	h.CreateProgram(t, "Starts tomorrow", "2024-06-16", "2024-06-30", false)

	today := helpers.MustParseDate("2024-06-15")

	deactivated, err := repo.DeactivateOutOfRange(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deactivated)

	activated, err := repo.ActivateCurrent(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(2), activated)

	programs, err := repo.List(ctx, nil)
	require.NoError(t, err)
	for _, p := range programs {
		assert.Equal(t, p.ActiveOn(today), p.IsActive, p.Name)
	}
}

func TestProgramSweepDeactivatesProgramsNotYetStarted(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()
	repo := h.ProgramRepository

	early := h.CreateProgram(t, "Flagged early", "2024-09-01", "2024-12-15", true)
	running := h.CreateProgram(t, "Running", "2024-06-01", "2024-06-30", true)
	today := helpers.MustParseDate("2024-06-15")

	deactivated, err := repo.DeactivateOutOfRange(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deactivated)

	got, err := repo.GetByID(ctx, early.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = repo.GetByID(ctx, running.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestProgramSweepIsIdempotent(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()
	repo := h.ProgramRepository

	h.CreateProgram(t, "Current", "2024-06-01", "2024-06-30", false)
	h.CreateProgram(t, "Expired", "2024-05-01", "2024-05-31", true)
	today := helpers.MustParseDate("2024-06-15")

	_, err := repo.DeactivateOutOfRange(ctx, today)
	require.NoError(t, err)
	_, err = repo.ActivateCurrent(ctx, today)
	require.NoError(t, err)

	deactivated, err := repo.DeactivateOutOfRange(ctx, today)
	require.NoError(t, err)
	activated, err := repo.ActivateCurrent(ctx, today)
	require.NoError(t, err)

	assert.Zero(t, deactivated)
	assert.Zero(t, activated)
}

func TestProgramListFiltersByActive(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()

	h.CreateProgram(t, "Active", "2024-06-01", "2024-06-30", true)
	h.CreateProgram(t, "Inactive", "2024-09-01", "2024-09-30", false)

	active := true
	list, err := h.ProgramRepository.List(ctx, &active)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Active", list[0].Name)
	assert.Equal(t, "2024-06-01", helpers.FormatDate(list[0].StartDate))

	all, err := h.ProgramRepository.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProgramGetByIDNotFound(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)

	_, err := h.ProgramRepository.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrProgramNotFound)
}

func TestProgramRegisterRejectsDuplicates(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()

	student := h.CreateStudent(t, "Ada", "ada@example.com")
	program := h.CreateProgram(t, "June", "2024-06-01", "2024-06-30", true)

	reg := &models.ProgramRegistration{ProgramID: program.ID, StudentID: student.ID}
	require.NoError(t, h.ProgramRepository.Register(ctx, reg))
	assert.Equal(t, testfixtures.ReferenceTime(), reg.RegisteredAt)

	err := h.ProgramRepository.Register(ctx, &models.ProgramRegistration{ProgramID: program.ID, StudentID: student.ID})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}
