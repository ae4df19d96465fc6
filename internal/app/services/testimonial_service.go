package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/app/repositories"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/auth"
)

// testimonialListLimit caps the public testimonial list
const testimonialListLimit = 50

// TestimonialService handles student ratings
type TestimonialService struct {
	repo   repositories.TestimonialRepository
	logger zerolog.Logger
}

// NewTestimonialService creates a new TestimonialService
func NewTestimonialService(repo repositories.TestimonialRepository, logger zerolog.Logger) *TestimonialService {
	return &TestimonialService{
		repo:   repo,
		logger: logger.With().Str("service", "testimonials").Logger(),
	}
}

// Create stores the subject's rating
func (s *TestimonialService) Create(ctx context.Context, subject auth.Subject, req *dto.CreateTestimonialRequest) (*dto.TestimonialResponse, error) {
	if err := requireSubject(subject); err != nil {
		return nil, err
	}
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	t := &models.Testimonial{
		StudentID:   subject.StudentID,
		StudentName: subject.Name,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", subject.StudentID).Int("rating", t.Rating).Msg("Testimonial created")
	resp := toTestimonialResponse(t)
	return &resp, nil
}

// List returns the most recent testimonials
func (s *TestimonialService) List(ctx context.Context) ([]dto.TestimonialResponse, error) {
	list, err := s.repo.List(ctx, testimonialListLimit)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.TestimonialResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toTestimonialResponse(&list[i]))
	}
	return resp, nil
}

func toTestimonialResponse(t *models.Testimonial) dto.TestimonialResponse {
	return dto.TestimonialResponse{
		ID:          t.ID,
		StudentName: t.StudentName,
		Rating:      t.Rating,
		Comment:     t.Comment,
		CreatedAt:   t.CreatedAt,
	}
}
