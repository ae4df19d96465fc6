package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/app/services"
	"github.com/yigit/studyhub/internal/middleware"
)

// ProgramController exposes the program catalogue and registration
type ProgramController struct {
	programService *services.ProgramService
	logger         zerolog.Logger
}

// NewProgramController creates a new ProgramController
func NewProgramController(programService *services.ProgramService, logger zerolog.Logger) *ProgramController {
	return &ProgramController{
		programService: programService,
		logger:         logger,
	}
}

// List returns programs, optionally filtered by active flag
// @Summary List programs
// @Tags programs
// @Produce json
// @Param active query bool false "Filter by active flag"
// @Param term query string false "Filter by term" Enums(SPRING, SUMMER, FALL, WINTER)
// @Success 200 {object} dto.APIResponse{data=dto.ProgramListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs [get]
func (c *ProgramController) List(ctx *gin.Context) {
	var filter dto.ProgramFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	programs, err := c.programService.List(ctx.Request.Context(), filter.Active)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ProgramListResponse{Programs: make([]dto.ProgramResponse, 0, len(programs))}
	for i := range programs {
		if filter.Term != "" && !strings.EqualFold(string(programs[i].Term), filter.Term) {
			continue
		}
		resp.Programs = append(resp.Programs, dto.NewProgramResponse(&programs[i]))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Get returns one program
// @Summary Get program by ID
// @Tags programs
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProgramResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid program ID"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs/{id} [get]
func (c *ProgramController) Get(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx, "program")
		return
	}

	program, err := c.programService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewProgramResponse(program), ""))
}

// Register signs the caller up for an active program
// @Summary Register for a program
// @Description Registers the authenticated student for an active program and sends a confirmation notification
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Success 201 {object} dto.APIResponse{data=dto.RegistrationResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid program ID"
// @Failure 401 {object} dto.ErrorResponse "Missing credential"
// @Failure 403 {object} dto.ErrorResponse "Invalid or expired credential"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered or program inactive"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs/{id}/register [post]
func (c *ProgramController) Register(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx, "program")
		return
	}

	reg, err := c.programService.Register(ctx.Request.Context(), middleware.SubjectFromContext(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.RegistrationResponse{
		ProgramID:    reg.ProgramID,
		StudentID:    reg.StudentID,
		RegisteredAt: reg.RegisteredAt,
	}, "Registered for program"))
}
