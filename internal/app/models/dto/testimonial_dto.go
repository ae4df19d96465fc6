package dto

import "time"

// CreateTestimonialRequest is the body of POST /testimonials
type CreateTestimonialRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5" example:"5"`
	Comment string `json:"comment" binding:"max=1000" example:"Great tutors"`
}

// TestimonialResponse is one published testimonial
type TestimonialResponse struct {
	ID          int64     `json:"id" example:"4"`
	StudentName string    `json:"studentName" example:"Ada Lovelace"`
	Rating      int       `json:"rating" example:"5"`
	Comment     string    `json:"comment" example:"Great tutors"`
	CreatedAt   time.Time `json:"createdAt"`
}
