package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/studyhub/internal/app/services"
	"github.com/yigit/studyhub/internal/pkg/auth"
	"github.com/yigit/studyhub/internal/seed"
	"github.com/yigit/studyhub/internal/testfixtures"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	svc := services.NewServices(services.Dependencies{
		Repos: h.Repositories,
		JWT: auth.NewJWTService(auth.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenExp: time.Hour,
			TokenIssuer:    "studyhub.test",
		}),
		Logger: zerolog.Nop(),
	})
	svc.AuthService.SetPasswordCost(bcrypt.MinCost)
	ctx := context.Background()
	today := h.Clock.Now()

	require.NoError(t, seed.CreateDefaultData(ctx, h.Repositories, svc, today, zerolog.Nop()))
	require.NoError(t, seed.CreateDefaultData(ctx, h.Repositories, svc, today, zerolog.Nop()))

	programs, err := h.ProgramRepository.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, programs, 3)

	active := 0
	for _, p := range programs {
		if p.IsActive {
			active++
			assert.Equal(t, "GCSE Maths Intensive", p.Name)
		}
	}
	assert.Equal(t, 1, active)

	student, err := h.StudentRepository.GetByEmail(ctx, seed.DemoEmail)
	require.NoError(t, err)

	feed, err := h.NotificationRepository.ListByStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}
