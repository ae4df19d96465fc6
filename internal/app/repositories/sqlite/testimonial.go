package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/repositories"
)

// TestimonialRepository implements repositories.TestimonialRepository
type TestimonialRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type testimonialRow struct {
	ID          int64  `db:"id"`
	StudentID   int64  `db:"student_id"`
	StudentName string `db:"student_name"`
	Rating      int    `db:"rating"`
	Comment     string `db:"comment"`
	CreatedAt   string `db:"created_at"`
}

// Create inserts a testimonial and fills ID and CreatedAt
func (r *TestimonialRepository) Create(ctx context.Context, t *models.Testimonial) error {
	now := r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO testimonials (student_id, rating, comment, created_at) VALUES (?, ?, ?, ?)",
		t.StudentID, t.Rating, t.Comment, formatTimestamp(now))
	if err != nil {
		return repositories.StoreError("create testimonial", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return repositories.StoreError("create testimonial", err)
	}
	t.ID = id
	t.CreatedAt = now
	return nil
}

// List returns the newest testimonials with the author's name
func (r *TestimonialRepository) List(ctx context.Context, limit int) ([]models.Testimonial, error) {
	var rows []testimonialRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.student_id, s.name AS student_name, t.rating, t.comment, t.created_at
		FROM testimonials t
		JOIN students s ON s.id = t.student_id
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, repositories.StoreError("list testimonials", err)
	}

	list := make([]models.Testimonial, 0, len(rows))
	for _, row := range rows {
		createdAt, err := parseTimestamp(row.CreatedAt)
		if err != nil {
			return nil, repositories.StoreError("list testimonials", err)
		}
		list = append(list, models.Testimonial{
			ID:          row.ID,
			StudentID:   row.StudentID,
			StudentName: row.StudentName,
			Rating:      row.Rating,
			Comment:     row.Comment,
			CreatedAt:   createdAt,
		})
	}
	return list, nil
}
