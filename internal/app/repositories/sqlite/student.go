package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/repositories"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/dberrors"
	"github.com/yigit/studyhub/internal/pkg/helpers"
)

// StudentRepository implements repositories.StudentRepository
type StudentRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type studentRow struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	PhotoURL     sql.NullString `db:"photo_url"`
	CreatedAt    string         `db:"created_at"`
	UpdatedAt    string         `db:"updated_at"`
}

func (r studentRow) toModel() (*models.Student, error) {
	s := &models.Student{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		PhotoURL:     helpers.StringPtr(r.PhotoURL),
	}
	var err error
	if s.CreatedAt, err = parseTimestamp(r.CreatedAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTimestamp(r.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.Email = strings.ToLower(strings.TrimSpace(student.Email))
	now := r.now().UTC()
	ts := formatTimestamp(now)

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO students (name, email, password_hash, photo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		student.Name, student.Email, student.PasswordHash, helpers.GetNullString(student.PhotoURL), ts, ts,
	)
	if err != nil {
		if dberrors.IsSQLiteUniqueError(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		return repositories.StoreError("create student", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return repositories.StoreError("create student", err)
	}
	student.ID = id
	student.CreatedAt = now
	student.UpdatedAt = student.CreatedAt
	return nil
}

func (r *StudentRepository) getOne(ctx context.Context, where string, arg any) (*models.Student, error) {
	var row studentRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, name, email, password_hash, photo_url, created_at, updated_at
		FROM students WHERE `+where, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, repositories.StoreError("get student", err)
	}
	s, err := row.toModel()
	if err != nil {
		return nil, repositories.StoreError("get student", err)
	}
	return s, nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves a student by email, case-insensitively
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.getOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// UpdatePhotoURL sets or clears the student's profile photo
func (r *StudentRepository) UpdatePhotoURL(ctx context.Context, id int64, photoURL *string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE students SET photo_url = ?, updated_at = ? WHERE id = ?",
		helpers.GetNullString(photoURL), formatTimestamp(r.now()), id)
	if err != nil {
		return repositories.StoreError("update student photo", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return repositories.StoreError("update student photo", err)
	}
	if n == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
