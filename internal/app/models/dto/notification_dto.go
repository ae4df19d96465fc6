package dto

import (
	"time"

	"github.com/yigit/studyhub/internal/app/models"
)

// NotificationResponse is one entry of the notification feed
type NotificationResponse struct {
	ID        int64                      `json:"id" example:"12"`
	Type      models.NotificationType    `json:"type" example:"programme_registration" enums:"programme_registration,security,payment_reminder,general"`
	Title     string                     `json:"title" example:"Registration confirmed"`
	Preview   string                     `json:"preview" example:"You are registered for GCSE Maths Intensive"`
	Body      string                     `json:"body"`
	Read      bool                       `json:"read" example:"false"`
	Action    *models.NotificationAction `json:"action,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
}

// NotificationListResponse is the body of GET /notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount" example:"2"`
}

// NewNotificationListResponse keeps the store order and never returns a null list.
func NewNotificationListResponse(list []models.Notification) NotificationListResponse {
	resp := NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(list)),
		UnreadCount:   models.CountUnread(list),
	}
	for _, n := range list {
		resp.Notifications = append(resp.Notifications, NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Preview:   n.Preview,
			Body:      n.Body,
			Read:      n.Read,
			Action:    n.Action,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp
}
