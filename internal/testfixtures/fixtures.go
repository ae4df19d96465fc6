package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/pkg/helpers"
)

// CreateStudent stores a student with a throwaway password hash.
func (h *SQLiteHarness) CreateStudent(tb testing.TB, name, email string) *models.Student {
	tb.Helper()
	s := &models.Student{Name: name, Email: email, PasswordHash: "not-a-real-hash"}
	if err := h.StudentRepository.Create(context.Background(), s); err != nil {
		tb.Fatalf("create student %s: %v", email, err)
	}
	return s
}

// CreateProgram stores a program spanning start..end (YYYY-MM-DD).
func (h *SQLiteHarness) CreateProgram(tb testing.TB, name, start, end string, active bool) *models.Program {
	tb.Helper()
	p := &models.Program{
		Name:      name,
		Year:      helpers.MustParseDate(start).Year(),
		Term:      models.TermSummer,
		Duration:  "4 weeks",
		StartDate: helpers.MustParseDate(start),
		EndDate:   helpers.MustParseDate(end),
		IsActive:  active,
	}
	if err := h.ProgramRepository.Create(context.Background(), p); err != nil {
		tb.Fatalf("create program %s: %v", name, err)
	}
	return p
}

// CreateNotification stores a general notification for the student and
// advances the clock a second so creation order is deterministic.
func (h *SQLiteHarness) CreateNotification(tb testing.TB, studentID int64, title string, read bool) *models.Notification {
	tb.Helper()
	n := &models.Notification{
		StudentID: studentID,
		Type:      models.NotificationTypeGeneral,
		Title:     title,
		Preview:   title,
		Body:      title,
		Read:      read,
	}
	if err := h.NotificationRepository.Create(context.Background(), n); err != nil {
		tb.Fatalf("create notification %s: %v", title, err)
	}
	h.Clock.Advance(time.Second)
	return n
}
