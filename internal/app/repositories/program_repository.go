package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/db"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/dberrors"
)

// PgProgramRepository handles database operations for programs
type PgProgramRepository struct {
	db db.DBTX
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(conn db.DBTX) *PgProgramRepository {
	return &PgProgramRepository{db: conn}
}

func selectProgram() squirrel.SelectBuilder {
	return squirrel.Select("id", "name", "year", "term", "duration", "start_date", "end_date", "is_active", "created_at").
		From("programs").
		PlaceholderFormat(squirrel.Dollar)
}

func scanProgram(row pgx.Row) (*models.Program, error) {
	var p models.Program
	err := row.Scan(&p.ID, &p.Name, &p.Year, &p.Term, &p.Duration,
		&p.StartDate, &p.EndDate, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a program. IsActive is stored as given; the next sweep corrects it.
func (r *PgProgramRepository) Create(ctx context.Context, program *models.Program) error {
	sql, args, err := squirrel.Insert("programs").
		Columns("name", "year", "term", "duration", "start_date", "end_date", "is_active").
		Values(program.Name, program.Year, program.Term, program.Duration,
			program.StartDate, program.EndDate, program.IsActive).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&program.ID, &program.CreatedAt); err != nil {
		return StoreError("create program", err)
	}
	return nil
}

// GetByID retrieves a program by ID
func (r *PgProgramRepository) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	sql, args, err := selectProgram().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanProgram(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		return nil, StoreError("get program", err)
	}
	return p, nil
}

// List returns programs ordered by start date, optionally filtered by active flag
func (r *PgProgramRepository) List(ctx context.Context, active *bool) ([]models.Program, error) {
	qb := selectProgram().OrderBy("start_date", "id")
	if active != nil {
		qb = qb.Where(squirrel.Eq{"is_active": *active})
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, StoreError("list programs", err)
	}
	defer rows.Close()

	programs := make([]models.Program, 0)
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, StoreError("scan program", err)
		}
		programs = append(programs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, StoreError("list programs", err)
	}
	return programs, nil
}

// DeactivateOutOfRange clears is_active on every active program whose range
// does not cover today: it ended before today or starts after it.
func (r *PgProgramRepository) DeactivateOutOfRange(ctx context.Context, today time.Time) (int64, error) {
	sql, args, err := squirrel.Update("programs").
		Set("is_active", false).
		Where(squirrel.Or{
			squirrel.Lt{"end_date": today},
			squirrel.Gt{"start_date": today},
		}).
		Where(squirrel.Eq{"is_active": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, StoreError("deactivate out-of-range programs", err)
	}
	return tag.RowsAffected(), nil
}

// ActivateCurrent sets is_active on every inactive program whose range covers today.
func (r *PgProgramRepository) ActivateCurrent(ctx context.Context, today time.Time) (int64, error) {
	sql, args, err := squirrel.Update("programs").
		Set("is_active", true).
		Where(squirrel.LtOrEq{"start_date": today}).
		Where(squirrel.GtOrEq{"end_date": today}).
		Where(squirrel.Eq{"is_active": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, StoreError("activate current programs", err)
	}
	return tag.RowsAffected(), nil
}

// Register records a student's registration for a program
func (r *PgProgramRepository) Register(ctx context.Context, reg *models.ProgramRegistration) error {
	sql, args, err := squirrel.Insert("program_registrations").
		Columns("program_id", "student_id").
		Values(reg.ProgramID, reg.StudentID).
		Suffix("RETURNING registered_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&reg.RegisteredAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "program_registrations_pkey") {
			return apperrors.ErrAlreadyRegistered
		}
		return StoreError("register for program", err)
	}
	return nil
}
