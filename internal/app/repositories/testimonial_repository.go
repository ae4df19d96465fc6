package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/db"
)

// PgTestimonialRepository handles database operations for testimonials
type PgTestimonialRepository struct {
	db db.DBTX
}

// NewTestimonialRepository creates a new testimonial repository
func NewTestimonialRepository(conn db.DBTX) *PgTestimonialRepository {
	return &PgTestimonialRepository{db: conn}
}

// Create inserts a testimonial and fills ID and CreatedAt
func (r *PgTestimonialRepository) Create(ctx context.Context, t *models.Testimonial) error {
	sql, args, err := squirrel.Insert("testimonials").
		Columns("student_id", "rating", "comment").
		Values(t.StudentID, t.Rating, t.Comment).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		return StoreError("create testimonial", err)
	}
	return nil
}

// List returns the newest testimonials with the author's name
func (r *PgTestimonialRepository) List(ctx context.Context, limit int) ([]models.Testimonial, error) {
	sql, args, err := squirrel.Select("t.id", "t.student_id", "s.name", "t.rating", "t.comment", "t.created_at").
		From("testimonials t").
		Join("students s ON s.id = t.student_id").
		OrderBy("t.created_at DESC", "t.id DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, StoreError("list testimonials", err)
	}
	defer rows.Close()

	list := make([]models.Testimonial, 0)
	for rows.Next() {
		var t models.Testimonial
		if err := rows.Scan(&t.ID, &t.StudentID, &t.StudentName, &t.Rating, &t.Comment, &t.CreatedAt); err != nil {
			return nil, StoreError("scan testimonial", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, StoreError("list testimonials", err)
	}
	return list, nil
}
