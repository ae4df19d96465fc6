package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/db"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
)

// StudentRepository stores student accounts
type StudentRepository interface {
	// Create inserts the student and fills ID and timestamps. Returns
	// apperrors.ErrEmailAlreadyExists when the email is taken.
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	UpdatePhotoURL(ctx context.Context, id int64, photoURL *string) error
}

// ProgramRepository stores programs and registrations. DeactivateOutOfRange and
// ActivateCurrent are the two lifecycle sweep steps; each is one UPDATE and
// returns the number of rows it flipped.
type ProgramRepository interface {
	Create(ctx context.Context, program *models.Program) error
	GetByID(ctx context.Context, id int64) (*models.Program, error)
	List(ctx context.Context, active *bool) ([]models.Program, error)
	DeactivateOutOfRange(ctx context.Context, today time.Time) (int64, error)
	ActivateCurrent(ctx context.Context, today time.Time) (int64, error)
	Register(ctx context.Context, reg *models.ProgramRegistration) error
}

// NotificationRepository stores notifications. Every read and write is scoped
// to one student; the int64 results are rows affected.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByStudent(ctx context.Context, studentID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, studentID, id int64) (int64, error)
	MarkAllRead(ctx context.Context, studentID int64) (int64, error)
	Delete(ctx context.Context, studentID, id int64) (int64, error)
}

// LoginLogRepository is the write-only login audit trail
type LoginLogRepository interface {
	Create(ctx context.Context, entry *models.LoginLogEntry) error
}

// TestimonialRepository stores student ratings
type TestimonialRepository interface {
	Create(ctx context.Context, t *models.Testimonial) error
	List(ctx context.Context, limit int) ([]models.Testimonial, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository      StudentRepository
	ProgramRepository      ProgramRepository
	NotificationRepository NotificationRepository
	LoginLogRepository     LoginLogRepository
	TestimonialRepository  TestimonialRepository
}

// NewRepositories initializes the PostgreSQL repositories
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		StudentRepository:      NewStudentRepository(conn),
		ProgramRepository:      NewProgramRepository(conn),
		NotificationRepository: NewNotificationRepository(conn),
		LoginLogRepository:     NewLoginLogRepository(conn),
		TestimonialRepository:  NewTestimonialRepository(conn),
	}
}

// StoreError marks a driver failure as apperrors.ErrStoreUnavailable while
// keeping the original error in the chain.
func StoreError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, op, err)
}
