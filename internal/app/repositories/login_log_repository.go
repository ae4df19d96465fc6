package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/db"
)

// PgLoginLogRepository writes the login audit trail
type PgLoginLogRepository struct {
	db db.DBTX
}

// NewLoginLogRepository creates a new login log repository
func NewLoginLogRepository(conn db.DBTX) *PgLoginLogRepository {
	return &PgLoginLogRepository{db: conn}
}

// Create appends one login entry
func (r *PgLoginLogRepository) Create(ctx context.Context, entry *models.LoginLogEntry) error {
	sql, args, err := squirrel.Insert("login_logs").
		Columns("student_id", "ip_address", "user_agent").
		Values(entry.StudentID, entry.IPAddress, entry.UserAgent).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return StoreError("create login log", err)
	}
	return nil
}
