package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/repositories"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/dberrors"
	"github.com/yigit/studyhub/internal/pkg/helpers"
)

// ProgramRepository implements repositories.ProgramRepository
type ProgramRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type programRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Year      int    `db:"year"`
	Term      string `db:"term"`
	Duration  string `db:"duration"`
	StartDate string `db:"start_date"`
	EndDate   string `db:"end_date"`
	IsActive  bool   `db:"is_active"`
	CreatedAt string `db:"created_at"`
}

func (r programRow) toModel() (models.Program, error) {
	p := models.Program{
		ID:       r.ID,
		Name:     r.Name,
		Year:     r.Year,
		Term:     models.Term(r.Term),
		Duration: r.Duration,
		IsActive: r.IsActive,
	}
	var err error
	if p.StartDate, err = helpers.ParseDate(r.StartDate); err != nil {
		return p, err
	}
	if p.EndDate, err = helpers.ParseDate(r.EndDate); err != nil {
		return p, err
	}
	if p.CreatedAt, err = parseTimestamp(r.CreatedAt); err != nil {
		return p, err
	}
	return p, nil
}

const selectProgram = `
	SELECT id, name, year, term, duration, start_date, end_date, is_active, created_at
	FROM programs`

// Create inserts a program
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	now := r.now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO programs (name, year, term, duration, start_date, end_date, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		program.Name, program.Year, string(program.Term), program.Duration,
		formatDate(program.StartDate), formatDate(program.EndDate), program.IsActive,
		formatTimestamp(now),
	)
	if err != nil {
		return repositories.StoreError("create program", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return repositories.StoreError("create program", err)
	}
	program.ID = id
	program.CreatedAt = now
	return nil
}

// GetByID retrieves a program by ID
func (r *ProgramRepository) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	var row programRow
	if err := r.db.GetContext(ctx, &row, selectProgram+" WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		return nil, repositories.StoreError("get program", err)
	}
	p, err := row.toModel()
	if err != nil {
		return nil, repositories.StoreError("get program", err)
	}
	return &p, nil
}

// List returns programs ordered by start date, optionally filtered by active flag
func (r *ProgramRepository) List(ctx context.Context, active *bool) ([]models.Program, error) {
	query := selectProgram
	var args []any
	if active != nil {
		query += " WHERE is_active = ?"
		args = append(args, *active)
	}
	query += " ORDER BY start_date, id"

	var rows []programRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, repositories.StoreError("list programs", err)
	}

	programs := make([]models.Program, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, repositories.StoreError("list programs", err)
		}
		programs = append(programs, p)
	}
	return programs, nil
}

// DeactivateOutOfRange clears is_active on every active program that ended
// before today or has not started yet.
func (r *ProgramRepository) DeactivateOutOfRange(ctx context.Context, today time.Time) (int64, error) {
	d := formatDate(today)
	res, err := r.db.ExecContext(ctx,
		"UPDATE programs SET is_active = 0 WHERE (end_date < ? OR start_date > ?) AND is_active = 1",
		d, d)
	if err != nil {
		return 0, repositories.StoreError("deactivate out-of-range programs", err)
	}
	return rowsAffected(res, "deactivate out-of-range programs")
}

// ActivateCurrent sets is_active on every inactive program whose range covers today.
func (r *ProgramRepository) ActivateCurrent(ctx context.Context, today time.Time) (int64, error) {
	d := formatDate(today)
	res, err := r.db.ExecContext(ctx,
		"UPDATE programs SET is_active = 1 WHERE start_date <= ? AND end_date >= ? AND is_active = 0",
		d, d)
	if err != nil {
		return 0, repositories.StoreError("activate current programs", err)
	}
	return rowsAffected(res, "activate current programs")
}

// Register records a student's registration for a program
func (r *ProgramRepository) Register(ctx context.Context, reg *models.ProgramRegistration) error {
	now := r.now().UTC()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO program_registrations (program_id, student_id, registered_at) VALUES (?, ?, ?)",
		reg.ProgramID, reg.StudentID, formatTimestamp(now))
	if err != nil {
		if dberrors.IsSQLiteUniqueError(err) {
			return apperrors.ErrAlreadyRegistered
		}
		return repositories.StoreError("register for program", err)
	}
	reg.RegisteredAt = now
	return nil
}

func rowsAffected(res sql.Result, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, repositories.StoreError(op, err)
	}
	return n, nil
}
