// Package seed creates demo data for local and development runs.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/models/dto"
	appRepos "github.com/yigit/studyhub/internal/app/repositories"
	appServices "github.com/yigit/studyhub/internal/app/services"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/helpers"
)

// Demo account credentials
const (
	DemoEmail    = "demo@studyhub.local"
	DemoPassword = "demo-password"
)

// CreateDefaultData creates a finished, a running and an upcoming program
// around today plus a demo student signed up through the normal flow. It is
// safe to run on every start; existing rows are left alone.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, svc *appServices.Services, today time.Time, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Programs/Demo student)...")
	var finalErr error

	if err := createDefaultPrograms(ctx, repos.ProgramRepository, helpers.CalendarDate(today, nil), lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	_, err := repos.StudentRepository.GetByEmail(ctx, DemoEmail)
	switch {
	case err == nil:
		lgr.Debug().Str("email", DemoEmail).Msg("Demo student already exists")
	case errors.Is(err, apperrors.ErrStudentNotFound):
		if _, err := svc.AuthService.Signup(ctx, &dto.SignupRequest{
			Name:     "Demo Student",
			Email:    DemoEmail,
			Password: DemoPassword,
		}); err != nil {
			lgr.Error().Err(err).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Str("email", DemoEmail).Msg("Demo student created")
		}
	default:
		lgr.Error().Err(err).Msg("Error looking up demo student")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func createDefaultPrograms(ctx context.Context, repo appRepos.ProgramRepository, today time.Time, lgr zerolog.Logger) error {
	existing, err := repo.List(ctx, nil)
	if err != nil {
		lgr.Error().Err(err).Msg("Error listing programs")
		return err
	}

	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[programKey(p.Name, p.Year, p.Term)] = true
	}

	defaults := []appModels.Program{
		{
			Name:      "Foundation Maths",
			Term:      appModels.TermSpring,
			Duration:  "6 weeks",
			StartDate: today.AddDate(0, -3, 0),
			EndDate:   today.AddDate(0, -2, -14),
		},
		{
			Name:      "GCSE Maths Intensive",
			Term:      appModels.TermSummer,
			Duration:  "4 weeks",
			StartDate: today.AddDate(0, 0, -7),
			EndDate:   today.AddDate(0, 0, 21),
		},
		{
			Name:      "A-Level Physics",
			Term:      appModels.TermFall,
			Duration:  "10 weeks",
			StartDate: today.AddDate(0, 2, 0),
			EndDate:   today.AddDate(0, 4, 14),
		},
	}

	var finalErr error
	for i := range defaults {
		p := defaults[i]
		p.Year = p.StartDate.Year()
		p.IsActive = p.ActiveOn(today)
		if seen[programKey(p.Name, p.Year, p.Term)] {
			continue
		}
		if err := repo.Create(ctx, &p); err != nil {
			lgr.Error().Err(err).Str("program", p.Name).Msg("Error creating default program")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("program", p.Name).Bool("active", p.IsActive).Msg("Default program created")
	}
	return finalErr
}

func programKey(name string, year int, term appModels.Term) string {
	return fmt.Sprintf("%s|%d|%s", name, year, term)
}
