package dto

import (
	"time"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/pkg/helpers"
)

// ProgramFilterRequest holds the query parameters of GET /programs
type ProgramFilterRequest struct {
	Active *bool  `form:"active"`
	Term   string `form:"term" binding:"omitempty,term"`
}

// ProgramResponse is the public view of a program. Dates are calendar dates.
type ProgramResponse struct {
	ID        int64       `json:"id" example:"3"`
	Name      string      `json:"name" example:"GCSE Maths Intensive"`
	Year      int         `json:"year" example:"2024"`
	Term      models.Term `json:"term" example:"SUMMER"`
	Duration  string      `json:"duration" example:"4 weeks"`
	StartDate string      `json:"startDate" example:"2024-06-01"`
	EndDate   string      `json:"endDate" example:"2024-06-30"`
	IsActive  bool        `json:"isActive" example:"true"`
}

// NewProgramResponse builds the response from a stored program
func NewProgramResponse(p *models.Program) ProgramResponse {
	return ProgramResponse{
		ID:        p.ID,
		Name:      p.Name,
		Year:      p.Year,
		Term:      p.Term,
		Duration:  p.Duration,
		StartDate: helpers.FormatDate(p.StartDate),
		EndDate:   helpers.FormatDate(p.EndDate),
		IsActive:  p.IsActive,
	}
}

// ProgramListResponse wraps a list of programs
type ProgramListResponse struct {
	Programs []ProgramResponse `json:"programs"`
}

// RegistrationResponse confirms a program registration
type RegistrationResponse struct {
	ProgramID    int64     `json:"programId" example:"3"`
	StudentID    int64     `json:"studentId" example:"1"`
	RegisteredAt time.Time `json:"registeredAt"`
}
