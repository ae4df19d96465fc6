package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/app/services"
	"github.com/yigit/studyhub/internal/middleware"
)

// NotificationController serves the authenticated student's notification feed
type NotificationController struct {
	notificationService *services.NotificationService
	logger              zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService, logger zerolog.Logger) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List returns the caller's notifications, newest first
// @Summary List notifications
// @Description Returns the authenticated student's notifications ordered by creation time, newest first, with the unread count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.NotificationListResponse
// @Failure 401 {object} dto.ErrorResponse "Missing credential"
// @Failure 403 {object} dto.ErrorResponse "Invalid or expired credential"
// @Failure 500 {object} dto.ErrorResponse "Store unavailable"
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	list, err := c.notificationService.List(ctx.Request.Context(), middleware.SubjectFromContext(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewNotificationListResponse(list))
}

// MarkRead marks one notification as read
// @Summary Mark notification as read
// @Description Marks a notification as read. Unknown or already-read ids succeed without changes.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid notification ID"
// @Failure 401 {object} dto.ErrorResponse "Missing credential"
// @Failure 403 {object} dto.ErrorResponse "Invalid or expired credential"
// @Failure 500 {object} dto.ErrorResponse "Store unavailable"
// @Router /notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx, "notification")
		return
	}

	if err := c.notificationService.MarkRead(ctx.Request.Context(), middleware.SubjectFromContext(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Notification marked as read"})
}

// MarkAllRead marks every unread notification of the caller as read
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Missing credential"
// @Failure 403 {object} dto.ErrorResponse "Invalid or expired credential"
// @Failure 500 {object} dto.ErrorResponse "Store unavailable"
// @Router /notifications/mark-all-read [patch]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	changed, err := c.notificationService.MarkAllRead(ctx.Request.Context(), middleware.SubjectFromContext(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Debug().Int64("changed", changed).Msg("Marked all notifications read")
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "All notifications marked as read"})
}

// Archive removes a notification from the caller's feed
// @Summary Archive notification
// @Description Permanently removes a notification. Unknown ids succeed without changes.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid notification ID"
// @Failure 401 {object} dto.ErrorResponse "Missing credential"
// @Failure 403 {object} dto.ErrorResponse "Invalid or expired credential"
// @Failure 500 {object} dto.ErrorResponse "Store unavailable"
// @Router /notifications/{id} [delete]
func (c *NotificationController) Archive(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx, "notification")
		return
	}

	if err := c.notificationService.Archive(ctx.Request.Context(), middleware.SubjectFromContext(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Notification archived"})
}
