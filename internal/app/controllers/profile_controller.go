package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/app/services"
	"github.com/yigit/studyhub/internal/middleware"
)

// ProfileController handles the authenticated student's profile
type ProfileController struct {
	profileService *services.ProfileService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService *services.ProfileService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		logger:         logger,
	}
}

// Get returns the caller's profile
// @Summary Get my profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 401 {object} dto.ErrorResponse "Missing credential"
// @Failure 403 {object} dto.ErrorResponse "Invalid or expired credential"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /profile [get]
func (c *ProfileController) Get(ctx *gin.Context) {
	subject := middleware.SubjectFromContext(ctx)
	student, err := c.profileService.Get(ctx.Request.Context(), subject.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentResponse(student), ""))
}

// UpdatePhoto replaces the caller's profile photo
// @Summary Upload profile photo
// @Description Uploads a jpg, png or webp image of at most 5MB and replaces the previous photo
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Failure 401 {object} dto.ErrorResponse "Missing credential"
// @Failure 403 {object} dto.ErrorResponse "Invalid or expired credential"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profile/photo [post]
func (c *ProfileController) UpdatePhoto(ctx *gin.Context) {
	file, err := ctx.FormFile("photo")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Photo file is required").
			WithField("photo")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	subject := middleware.SubjectFromContext(ctx)
	student, err := c.profileService.UpdatePhoto(ctx.Request.Context(), subject.StudentID, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("studentID", subject.StudentID).Msg("Profile photo updated")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentResponse(student), "Profile photo updated"))
}
