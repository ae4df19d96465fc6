package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/db"
	"github.com/yigit/studyhub/internal/pkg/logger"
)

// PgNotificationRepository handles database operations for notifications
type PgNotificationRepository struct {
	db db.DBTX
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(conn db.DBTX) *PgNotificationRepository {
	return &PgNotificationRepository{db: conn}
}

// actionColumns splits an optional action into its three nullable columns.
func actionColumns(a *models.NotificationAction) (kind, label, target *string) {
	if a == nil {
		return nil, nil, nil
	}
	k := string(a.Kind)
	return &k, &a.Label, &a.Target
}

// actionFromColumns is the inverse of actionColumns; a NULL kind means no action.
func actionFromColumns(kind, label, target *string) *models.NotificationAction {
	if kind == nil || *kind == "" {
		return nil
	}
	a := &models.NotificationAction{Kind: models.ActionKind(*kind)}
	if label != nil {
		a.Label = *label
	}
	if target != nil {
		a.Target = *target
	}
	return a
}

// Create inserts a notification and fills ID and CreatedAt
func (r *PgNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	kind, label, target := actionColumns(n.Action)

	sql, args, err := squirrel.Insert("notifications").
		Columns("student_id", "type", "title", "preview", "body", "is_read",
			"action_kind", "action_label", "action_target").
		Values(n.StudentID, n.Type, n.Title, n.Preview, n.Body, n.Read, kind, label, target).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("studentID", n.StudentID).Msg("Error creating notification")
		return StoreError("create notification", err)
	}
	return nil
}

// ListByStudent returns the student's notifications, newest first
func (r *PgNotificationRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Notification, error) {
	sql, args, err := squirrel.Select("id", "student_id", "type", "title", "preview", "body", "is_read",
		"action_kind", "action_label", "action_target", "created_at").
		From("notifications").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, StoreError("list notifications", err)
	}
	defer rows.Close()

	list := make([]models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, StoreError("scan notification", err)
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, StoreError("list notifications", err)
	}
	return list, nil
}

func scanNotification(row pgx.Row) (models.Notification, error) {
	var (
		n                   models.Notification
		kind, label, target *string
	)
	err := row.Scan(&n.ID, &n.StudentID, &n.Type, &n.Title, &n.Preview, &n.Body, &n.Read,
		&kind, &label, &target, &n.CreatedAt)
	if err != nil {
		return n, err
	}
	n.Action = actionFromColumns(kind, label, target)
	return n, nil
}

// MarkRead sets read on one of the student's notifications. A missing,
// foreign or already-read id affects zero rows and is not an error.
func (r *PgNotificationRepository) MarkRead(ctx context.Context, studentID, id int64) (int64, error) {
	sql, args, err := squirrel.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"student_id": studentID}).
		Where(squirrel.Eq{"is_read": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, StoreError("mark notification read", err)
	}
	return tag.RowsAffected(), nil
}

// MarkAllRead sets read on every unread notification of the student in one statement
func (r *PgNotificationRepository) MarkAllRead(ctx context.Context, studentID int64) (int64, error) {
	sql, args, err := squirrel.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"student_id": studentID}).
		Where(squirrel.Eq{"is_read": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, StoreError("mark all notifications read", err)
	}
	return tag.RowsAffected(), nil
}

// Delete permanently removes one of the student's notifications
func (r *PgNotificationRepository) Delete(ctx context.Context, studentID, id int64) (int64, error) {
	sql, args, err := squirrel.Delete("notifications").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"student_id": studentID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, StoreError("delete notification", err)
	}
	return tag.RowsAffected(), nil
}
