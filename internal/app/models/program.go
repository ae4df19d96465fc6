package models

import "time"

// Program is a tutoring offering with a fixed date range. IsActive is owned by
// the daily lifecycle sweep and tracks StartDate <= today <= EndDate.
type Program struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"GCSE Maths Intensive"`
	Year      int       `json:"year" db:"year" example:"2024"`
	Term      Term      `json:"term" db:"term" example:"SUMMER"`
	Duration  string    `json:"duration" db:"duration" example:"4 weeks"`
	StartDate time.Time `json:"startDate" db:"start_date"` // calendar date, midnight UTC
	EndDate   time.Time `json:"endDate" db:"end_date"`     // inclusive
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ActiveOn reports whether the program's date range covers day.
func (p *Program) ActiveOn(day time.Time) bool {
	return !day.Before(p.StartDate) && !day.After(p.EndDate)
}

// ProgramRegistration links a student to a program they signed up for
type ProgramRegistration struct {
	ProgramID    int64     `json:"programId" db:"program_id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`
}
