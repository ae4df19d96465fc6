package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/testfixtures"
)

func TestStudentCreateAndLookup(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()

	s := &models.Student{Name: "Ada", Email: "  Ada@Example.com ", PasswordHash: "hash"}
	require.NoError(t, h.StudentRepository.Create(ctx, s))
	assert.NotZero(t, s.ID)
	assert.Equal(t, "ada@example.com", s.Email)

	byEmail, err := h.StudentRepository.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, s.ID, byEmail.ID)
	assert.Nil(t, byEmail.PhotoURL)

	err = h.StudentRepository.Create(ctx, &models.Student{Name: "Other", Email: "ada@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestStudentUpdatePhotoURL(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()
	s := h.CreateStudent(t, "Ada", "ada@example.com")

	url := "http://localhost/uploads/profile-photos/1/a.png"
	require.NoError(t, h.StudentRepository.UpdatePhotoURL(ctx, s.ID, &url))

	got, err := h.StudentRepository.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PhotoURL)
	assert.Equal(t, url, *got.PhotoURL)

	err = h.StudentRepository.UpdatePhotoURL(ctx, 999, &url)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = h.StudentRepository.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestTestimonialsAndLoginLog(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	ctx := context.Background()
	s := h.CreateStudent(t, "Ada", "ada@example.com")

	entry := &models.LoginLogEntry{StudentID: s.ID, IPAddress: "10.0.0.1", UserAgent: "curl/8"}
	require.NoError(t, h.LoginLogRepository.Create(ctx, entry))
	assert.NotZero(t, entry.ID)

	var count int
	require.NoError(t, h.DB.Get(&count, "SELECT COUNT(*) FROM login_logs WHERE student_id = ?", s.ID))
	assert.Equal(t, 1, count)

	require.NoError(t, h.TestimonialRepository.Create(ctx, &models.Testimonial{StudentID: s.ID, Rating: 5, Comment: "great"}))
	list, err := h.TestimonialRepository.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0].StudentName)
	assert.Equal(t, 5, list[0].Rating)
}
