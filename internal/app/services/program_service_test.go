package services_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/services"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/testfixtures"
)

func newProgramService(h *testfixtures.SQLiteHarness) (*services.ProgramService, *services.NotificationService) {
	notifications := newNotificationService(h)
	return services.NewProgramService(h.ProgramRepository, notifications, zerolog.Nop()), notifications
}

func TestProgramRegisterSendsNotification(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	svc, notifications := newProgramService(h)
	ctx := context.Background()

	ada := h.CreateStudent(t, "Ada", "ada@example.com")
	program := h.CreateProgram(t, "June Intensive", "2024-06-01", "2024-06-30", true)

	reg, err := svc.Register(ctx, subjectFor(ada), program.ID)
	require.NoError(t, err)
	assert.Equal(t, program.ID, reg.ProgramID)
	assert.Equal(t, ada.ID, reg.StudentID)

	list, err := notifications.List(ctx, subjectFor(ada))
	require.NoError(t, err)
	require.Len(t, list, 1)
	n := list[0]
	assert.Equal(t, models.NotificationTypeProgrammeRegistration, n.Type)
	assert.False(t, n.Read)
	require.NotNil(t, n.Action)
	assert.Equal(t, models.ActionNavigate, n.Action.Kind)
	assert.Contains(t, n.Preview, "June Intensive")
}

func TestProgramRegisterErrors(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	svc, _ := newProgramService(h)
	ctx := context.Background()

	ada := h.CreateStudent(t, "Ada", "ada@example.com")
	active := h.CreateProgram(t, "Active", "2024-06-01", "2024-06-30", true)
	inactive := h.CreateProgram(t, "Later", "2024-09-01", "2024-09-30", false)

	_, err := svc.Register(ctx, subjectFor(ada), active.ID)
	require.NoError(t, err)

	tests := []struct {
		name      string
		programID int64
		wantErr   error
	}{
		{"duplicate", active.ID, apperrors.ErrAlreadyRegistered},
		{"inactive", inactive.ID, apperrors.ErrProgramInactive},
		{"missing", 9999, apperrors.ErrProgramNotFound},
		{"invalid id", 0, apperrors.ErrProgramNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, subjectFor(ada), tc.programID)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
