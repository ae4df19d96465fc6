package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/repositories"
	"github.com/yigit/studyhub/internal/pkg/helpers"
)

// SweepResult counts the programs each sweep step flipped
type SweepResult struct {
	Deactivated int64
	Activated   int64
}

// ProgramLifecycleService keeps Program.IsActive in line with the calendar.
// It is the only writer of that flag.
type ProgramLifecycleService struct {
	repo   repositories.ProgramRepository
	logger zerolog.Logger
}

// NewProgramLifecycleService creates a new ProgramLifecycleService
func NewProgramLifecycleService(repo repositories.ProgramRepository, logger zerolog.Logger) *ProgramLifecycleService {
	return &ProgramLifecycleService{
		repo:   repo,
		logger: logger.With().Str("service", "program_lifecycle").Logger(),
	}
}

// Sweep deactivates programs whose range does not cover today, then activates the
// inactive ones whose range covers today. Both steps always run; a failure
// in one does not skip the other and both errors are returned joined.
// Re-running on the same day changes nothing.
func (s *ProgramLifecycleService) Sweep(ctx context.Context, today time.Time) (SweepResult, error) {
	today = helpers.CalendarDate(today, nil)
	var result SweepResult

	deactivated, errDeactivate := s.repo.DeactivateOutOfRange(ctx, today)
	if errDeactivate != nil {
		s.logger.Error().Err(errDeactivate).Str("today", helpers.FormatDate(today)).Msg("Sweep step deactivate-out-of-range failed")
	} else {
		result.Deactivated = deactivated
	}

	activated, errActivate := s.repo.ActivateCurrent(ctx, today)
	if errActivate != nil {
		s.logger.Error().Err(errActivate).Str("today", helpers.FormatDate(today)).Msg("Sweep step activate-current failed")
	} else {
		result.Activated = activated
	}

	if err := errors.Join(errDeactivate, errActivate); err != nil {
		return result, err
	}

	s.logger.Info().
		Str("today", helpers.FormatDate(today)).
		Int64("deactivated", result.Deactivated).
		Int64("activated", result.Activated).
		Msg("Program lifecycle sweep completed")
	return result, nil
}
