package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/db"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/dberrors"
	"github.com/yigit/studyhub/internal/pkg/logger"
)

const studentsEmailKey = "students_email_key"

// PgStudentRepository handles database operations for students
type PgStudentRepository struct {
	db db.DBTX
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(conn db.DBTX) *PgStudentRepository {
	return &PgStudentRepository{db: conn}
}

func selectStudent() squirrel.SelectBuilder {
	return squirrel.Select("id", "name", "email", "password_hash", "photo_url", "created_at", "updated_at").
		From("students").
		PlaceholderFormat(squirrel.Dollar)
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.PhotoURL, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, StoreError("scan student", err)
	}
	return &s, nil
}

// Create inserts a new student
func (r *PgStudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.Email = strings.ToLower(strings.TrimSpace(student.Email))

	sql, args, err := squirrel.Insert("students").
		Columns("name", "email", "password_hash", "photo_url").
		Values(student.Name, student.Email, student.PasswordHash, student.PhotoURL).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentsEmailKey) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Msg("Error creating student")
		return StoreError("create student", err)
	}
	return nil
}

// GetByID retrieves a student by ID
func (r *PgStudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := selectStudent().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanStudent(r.db.QueryRow(ctx, sql, args...))
}

// GetByEmail retrieves a student by email, case-insensitively
func (r *PgStudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	sql, args, err := selectStudent().
		Where(squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanStudent(r.db.QueryRow(ctx, sql, args...))
}

// UpdatePhotoURL sets or clears the student's profile photo
func (r *PgStudentRepository) UpdatePhotoURL(ctx context.Context, id int64, photoURL *string) error {
	sql, args, err := squirrel.Update("students").
		Set("photo_url", photoURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return StoreError("update student photo", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
