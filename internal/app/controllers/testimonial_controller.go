package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/app/services"
	"github.com/yigit/studyhub/internal/middleware"
)

// TestimonialController handles student ratings
type TestimonialController struct {
	testimonialService *services.TestimonialService
	logger             zerolog.Logger
}

// NewTestimonialController creates a new TestimonialController
func NewTestimonialController(testimonialService *services.TestimonialService, logger zerolog.Logger) *TestimonialController {
	return &TestimonialController{
		testimonialService: testimonialService,
		logger:             logger,
	}
}

// List returns the most recent testimonials
// @Summary List testimonials
// @Tags testimonials
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.TestimonialResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /testimonials [get]
func (c *TestimonialController) List(ctx *gin.Context) {
	list, err := c.testimonialService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list, ""))
}

// Create records a rating from the caller
// @Summary Submit a testimonial
// @Tags testimonials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTestimonialRequest true "Rating and comment"
// @Success 201 {object} dto.APIResponse{data=dto.TestimonialResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Missing credential"
// @Failure 403 {object} dto.ErrorResponse "Invalid or expired credential"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /testimonials [post]
func (c *TestimonialController) Create(ctx *gin.Context) {
	var req dto.CreateTestimonialRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.testimonialService.Create(ctx.Request.Context(), middleware.SubjectFromContext(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Thank you for your feedback"))
}
