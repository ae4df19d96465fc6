package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/studyhub/internal/pkg/apperrors"
)

// NotificationType is the category of a notification
type NotificationType string

const (
	NotificationTypeProgrammeRegistration NotificationType = "programme_registration"
	NotificationTypeSecurity              NotificationType = "security"
	NotificationTypePaymentReminder       NotificationType = "payment_reminder"
	NotificationTypeGeneral               NotificationType = "general"
)

// IsValid reports whether t is a known notification type
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeProgrammeRegistration,
		NotificationTypeSecurity,
		NotificationTypePaymentReminder,
		NotificationTypeGeneral:
		return true
	}
	return false
}

// ActionKind is the closed set of things a client can do with a notification.
// The client resolves each kind to its own code; nothing executable is stored.
type ActionKind string

const (
	ActionNavigate  ActionKind = "navigate"   // Target is an in-app path or URL
	ActionOpenModal ActionKind = "open_modal" // Target is a modal identifier
)

// NotificationAction is the optional call-to-action attached to a notification
type NotificationAction struct {
	Kind   ActionKind `json:"kind" example:"navigate"`
	Label  string     `json:"label" example:"View programme"`
	Target string     `json:"target" example:"/programs/3"`
}

// Validate checks the kind is known and both label and target are present.
func (a *NotificationAction) Validate() error {
	if a == nil {
		return nil
	}
	switch a.Kind {
	case ActionNavigate, ActionOpenModal:
	default:
		return fmt.Errorf("%w: unknown kind %q", apperrors.ErrInvalidNotificationAction, a.Kind)
	}
	if strings.TrimSpace(a.Label) == "" || strings.TrimSpace(a.Target) == "" {
		return fmt.Errorf("%w: label and target are required", apperrors.ErrInvalidNotificationAction)
	}
	return nil
}

// Notification is a per-student message with read state. Read only ever moves
// from false to true; Archive removes the row.
type Notification struct {
	ID        int64               `json:"id" db:"id" example:"12"`
	StudentID int64               `json:"studentId" db:"student_id" example:"1"`
	Type      NotificationType    `json:"type" db:"type" example:"programme_registration"`
	Title     string              `json:"title" db:"title" example:"Registration confirmed"`
	Preview   string              `json:"preview" db:"preview"`
	Body      string              `json:"body" db:"body"`
	Read      bool                `json:"read" db:"is_read"`
	Action    *NotificationAction `json:"action,omitempty"`
	CreatedAt time.Time           `json:"createdAt" db:"created_at"`
}

// Validate checks the fields a producer must supply before a notification is stored.
func (n *Notification) Validate() error {
	if n.StudentID <= 0 {
		return apperrors.NewValidationError("notification recipient is required")
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidNotificationType, n.Type)
	}
	if strings.TrimSpace(n.Title) == "" {
		return apperrors.NewValidationError("notification title is required")
	}
	return n.Action.Validate()
}

// CountUnread returns how many notifications in list are unread.
func CountUnread(list []Notification) int {
	n := 0
	for i := range list {
		if !list[i].Read {
			n++
		}
	}
	return n
}
