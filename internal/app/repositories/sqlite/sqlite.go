// Package sqlite implements the repository interfaces on a single-file SQLite
// database through sqlx. Dates are 'YYYY-MM-DD' text and timestamps are
// fixed-width UTC text, so ordering and range comparisons work on strings.
package sqlite

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yigit/studyhub/internal/app/repositories"
	"github.com/yigit/studyhub/internal/pkg/helpers"
)

const timestampLayout = "2006-01-02 15:04:05.000000000"

// NewRepositories wires every repository onto db
func NewRepositories(db *sqlx.DB, now func() time.Time) *repositories.Repositories {
	if now == nil {
		now = time.Now
	}
	return &repositories.Repositories{
		StudentRepository:      &StudentRepository{db: db, now: now},
		ProgramRepository:      &ProgramRepository{db: db, now: now},
		NotificationRepository: &NotificationRepository{db: db, now: now},
		LoginLogRepository:     &LoginLogRepository{db: db, now: now},
		TestimonialRepository:  &TestimonialRepository{db: db, now: now},
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return helpers.FormatDate(t)
}
