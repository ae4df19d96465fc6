package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/repositories"
)

// NotificationRepository implements repositories.NotificationRepository
type NotificationRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type notificationRow struct {
	ID           int64          `db:"id"`
	StudentID    int64          `db:"student_id"`
	Type         string         `db:"type"`
	Title        string         `db:"title"`
	Preview      string         `db:"preview"`
	Body         string         `db:"body"`
	Read         bool           `db:"is_read"`
	ActionKind   sql.NullString `db:"action_kind"`
	ActionLabel  sql.NullString `db:"action_label"`
	ActionTarget sql.NullString `db:"action_target"`
	CreatedAt    string         `db:"created_at"`
}

func (r notificationRow) toModel() (models.Notification, error) {
	n := models.Notification{
		ID:        r.ID,
		StudentID: r.StudentID,
		Type:      models.NotificationType(r.Type),
		Title:     r.Title,
		Preview:   r.Preview,
		Body:      r.Body,
		Read:      r.Read,
	}
	if r.ActionKind.Valid && r.ActionKind.String != "" {
		n.Action = &models.NotificationAction{
			Kind:   models.ActionKind(r.ActionKind.String),
			Label:  r.ActionLabel.String,
			Target: r.ActionTarget.String,
		}
	}
	var err error
	n.CreatedAt, err = parseTimestamp(r.CreatedAt)
	return n, err
}

// Create inserts a notification and fills ID and CreatedAt
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	var kind, label, target sql.NullString
	if n.Action != nil {
		kind = sql.NullString{String: string(n.Action.Kind), Valid: true}
		label = sql.NullString{String: n.Action.Label, Valid: true}
		target = sql.NullString{String: n.Action.Target, Valid: true}
	}
	now := r.now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (
			student_id, type, title, preview, body, is_read,
			action_kind, action_label, action_target, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.StudentID, string(n.Type), n.Title, n.Preview, n.Body, n.Read,
		kind, label, target, formatTimestamp(now),
	)
	if err != nil {
		return repositories.StoreError("create notification", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return repositories.StoreError("create notification", err)
	}
	n.ID = id
	n.CreatedAt = now
	return nil
}

// ListByStudent returns the student's notifications, newest first
func (r *NotificationRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Notification, error) {
	var rows []notificationRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, student_id, type, title, preview, body, is_read,
		       action_kind, action_label, action_target, created_at
		FROM notifications
		WHERE student_id = ?
		ORDER BY created_at DESC, id DESC`, studentID)
	if err != nil {
		return nil, repositories.StoreError("list notifications", err)
	}

	list := make([]models.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := row.toModel()
		if err != nil {
			return nil, repositories.StoreError("list notifications", err)
		}
		list = append(list, n)
	}
	return list, nil
}

// MarkRead sets read on one of the student's notifications
func (r *NotificationRepository) MarkRead(ctx context.Context, studentID, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE id = ? AND student_id = ? AND is_read = 0",
		id, studentID)
	if err != nil {
		return 0, repositories.StoreError("mark notification read", err)
	}
	return rowsAffected(res, "mark notification read")
}

// MarkAllRead sets read on every unread notification of the student
func (r *NotificationRepository) MarkAllRead(ctx context.Context, studentID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE student_id = ? AND is_read = 0",
		studentID)
	if err != nil {
		return 0, repositories.StoreError("mark all notifications read", err)
	}
	return rowsAffected(res, "mark all notifications read")
}

// Delete permanently removes one of the student's notifications
func (r *NotificationRepository) Delete(ctx context.Context, studentID, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE id = ? AND student_id = ?",
		id, studentID)
	if err != nil {
		return 0, repositories.StoreError("delete notification", err)
	}
	return rowsAffected(res, "delete notification")
}
