package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/repositories"
)

// LoginLogRepository implements repositories.LoginLogRepository
type LoginLogRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// Create appends one login entry
func (r *LoginLogRepository) Create(ctx context.Context, entry *models.LoginLogEntry) error {
	now := r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO login_logs (student_id, ip_address, user_agent, created_at) VALUES (?, ?, ?, ?)",
		entry.StudentID, entry.IPAddress, entry.UserAgent, formatTimestamp(now))
	if err != nil {
		return repositories.StoreError("create login log", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return repositories.StoreError("create login log", err)
	}
	entry.ID = id
	entry.CreatedAt = now
	return nil
}
