package dto

import (
	"time"

	"github.com/yigit/studyhub/internal/app/models"
)

// StudentResponse is the public view of a student account
type StudentResponse struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"Ada Lovelace"`
	Email     string    `json:"email" example:"ada@example.com"`
	PhotoURL  string    `json:"photoUrl,omitempty" example:"http://localhost:8080/uploads/profile-photos/1/4f1c.png"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewStudentResponse builds the response from a stored student
func NewStudentResponse(s *models.Student) StudentResponse {
	resp := StudentResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
	}
	if s.PhotoURL != nil {
		resp.PhotoURL = *s.PhotoURL
	}
	return resp
}
