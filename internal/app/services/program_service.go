package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/repositories"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/auth"
)

// ProgramService handles program browsing and registration
type ProgramService struct {
	repo          repositories.ProgramRepository
	notifications *NotificationService
	logger        zerolog.Logger
}

// NewProgramService creates a new ProgramService
func NewProgramService(repo repositories.ProgramRepository, notifications *NotificationService, logger zerolog.Logger) *ProgramService {
	return &ProgramService{
		repo:          repo,
		notifications: notifications,
		logger:        logger.With().Str("service", "programs").Logger(),
	}
}

// List returns programs, optionally only active or inactive ones
func (s *ProgramService) List(ctx context.Context, active *bool) ([]models.Program, error) {
	return s.repo.List(ctx, active)
}

// Get returns one program
func (s *ProgramService) Get(ctx context.Context, id int64) (*models.Program, error) {
	if id <= 0 {
		return nil, apperrors.ErrProgramNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Register signs the subject up for an active program and sends them a
// programme_registration notification. The registration stands even if the
// notification cannot be stored.
func (s *ProgramService) Register(ctx context.Context, subject auth.Subject, programID int64) (*models.ProgramRegistration, error) {
	if err := requireSubject(subject); err != nil {
		return nil, err
	}

	program, err := s.Get(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !program.IsActive {
		return nil, apperrors.ErrProgramInactive
	}

	reg := &models.ProgramRegistration{ProgramID: program.ID, StudentID: subject.StudentID}
	if err := s.repo.Register(ctx, reg); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", subject.StudentID).Int64("programID", program.ID).Msg("Student registered for program")

	notification := &models.Notification{
		StudentID: subject.StudentID,
		Type:      models.NotificationTypeProgrammeRegistration,
		Title:     "Registration confirmed",
		Preview:   fmt.Sprintf("You are registered for %s", program.Name),
		Body: fmt.Sprintf("Your place on %s (%s %d, %s) is confirmed. Sessions run from %s to %s.",
			program.Name, program.Term, program.Year, program.Duration,
			program.StartDate.Format("2 Jan 2006"), program.EndDate.Format("2 Jan 2006")),
		Action: &models.NotificationAction{
			Kind:   models.ActionNavigate,
			Label:  "View programme",
			Target: fmt.Sprintf("/programs/%d", program.ID),
		},
	}
	if err := s.notifications.Notify(ctx, notification); err != nil {
		s.logger.Warn().Err(err).Int64("studentID", subject.StudentID).Int64("programID", program.ID).Msg("Registration notification not delivered")
	}

	return reg, nil
}
