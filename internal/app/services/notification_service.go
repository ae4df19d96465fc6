package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/repositories"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/auth"
	"github.com/yigit/studyhub/internal/pkg/metrics"
)

// NotificationService exposes the notification feed of the authenticated student.
// Every call goes straight to the store, so a List after a mutation sees it.
type NotificationService struct {
	repo    repositories.NotificationRepository
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repositories.NotificationRepository, m *metrics.Metrics, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		repo:    repo,
		metrics: m,
		logger:  logger.With().Str("service", "notifications").Logger(),
	}
}

func requireSubject(subject auth.Subject) error {
	if !subject.Authenticated || subject.StudentID <= 0 {
		return apperrors.ErrUnauthenticated
	}
	return nil
}

// List returns the subject's notifications, newest first
func (s *NotificationService) List(ctx context.Context, subject auth.Subject) ([]models.Notification, error) {
	if err := requireSubject(subject); err != nil {
		return nil, err
	}
	return s.repo.ListByStudent(ctx, subject.StudentID)
}

// MarkRead marks one notification as read. Ids that are missing, already
// read or owned by someone else are accepted without error.
func (s *NotificationService) MarkRead(ctx context.Context, subject auth.Subject, id int64) error {
	if err := requireSubject(subject); err != nil {
		return err
	}

	n, err := s.repo.MarkRead(ctx, subject.StudentID, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", subject.StudentID).Int64("notificationID", id).Msg("Failed to mark notification read")
		return err
	}

	s.metrics.NotificationMutated("mark_read")
	s.logger.Debug().Int64("studentID", subject.StudentID).Int64("notificationID", id).Int64("updated", n).Msg("Notification marked read")
	return nil
}

// MarkAllRead marks every unread notification of the subject as read and
// returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, subject auth.Subject) (int64, error) {
	if err := requireSubject(subject); err != nil {
		return 0, err
	}

	n, err := s.repo.MarkAllRead(ctx, subject.StudentID)
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", subject.StudentID).Msg("Failed to mark all notifications read")
		return 0, err
	}

	s.metrics.NotificationMutated("mark_all_read")
	s.logger.Debug().Int64("studentID", subject.StudentID).Int64("updated", n).Msg("All notifications marked read")
	return n, nil
}

// Archive permanently deletes one notification. Archiving an id that does
// not exist is not an error.
func (s *NotificationService) Archive(ctx context.Context, subject auth.Subject, id int64) error {
	if err := requireSubject(subject); err != nil {
		return err
	}

	n, err := s.repo.Delete(ctx, subject.StudentID, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", subject.StudentID).Int64("notificationID", id).Msg("Failed to archive notification")
		return err
	}

	s.metrics.NotificationMutated("archive")
	s.logger.Debug().Int64("studentID", subject.StudentID).Int64("notificationID", id).Int64("deleted", n).Msg("Notification archived")
	return nil
}

// Notify validates and stores a notification produced by another part of
// the system. New notifications always start unread.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	n.Read = false
	if err := n.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error().Err(err).Int64("studentID", n.StudentID).Str("type", string(n.Type)).Msg("Failed to store notification")
		return err
	}

	s.metrics.NotificationMutated("create")
	s.logger.Info().Int64("studentID", n.StudentID).Int64("notificationID", n.ID).Str("type", string(n.Type)).Msg("Notification created")
	return nil
}
