package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/helpers"
)

func TestPgProgramRepositoryDeactivateOutOfRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	today := helpers.MustParseDate("2024-07-01")
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE programs SET is_active = $1 WHERE (end_date < $2 OR start_date > $3) AND is_active = $4")).
		WithArgs(false, today, today, true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	n, err := NewProgramRepository(mock).DeactivateOutOfRange(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgProgramRepositoryActivateCurrent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	today := helpers.MustParseDate("2024-06-15")
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE programs SET is_active = $1 WHERE start_date <= $2 AND end_date >= $3 AND is_active = $4")).
		WithArgs(true, today, today, false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	n, err := NewProgramRepository(mock).ActivateCurrent(context.Background(), today)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgProgramRepositoryWrapsDriverErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	driverErr := errors.New("connection refused")
	mock.ExpectExec("UPDATE programs").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(driverErr)

	_, err = NewProgramRepository(mock).DeactivateOutOfRange(context.Background(), helpers.MustParseDate("2024-06-15"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.ErrorIs(t, err, driverErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
