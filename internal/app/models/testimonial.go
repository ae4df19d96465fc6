package models

import "time"

// Rating bounds for testimonials
const (
	MinRating = 1
	MaxRating = 5
)

// Testimonial is a student's rating of the center
type Testimonial struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	StudentName string    `json:"studentName" db:"student_name"`
	Rating      int       `json:"rating" db:"rating"`
	Comment     string    `json:"comment" db:"comment"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
