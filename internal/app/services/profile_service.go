package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/repositories"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/filestorage"
)

// MaxPhotoSize is the largest accepted profile photo upload
const MaxPhotoSize = 5 << 20

var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ProfileService handles the student's own profile
type ProfileService struct {
	studentRepo repositories.StudentRepository
	storage     filestorage.FileStorage
	logger      zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(studentRepo repositories.StudentRepository, storage filestorage.FileStorage, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		studentRepo: studentRepo,
		storage:     storage,
		logger:      logger.With().Str("service", "profile").Logger(),
	}
}

// Get returns the student's profile
func (s *ProfileService) Get(ctx context.Context, studentID int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, studentID)
}

// UpdatePhoto stores a new profile photo and removes the previous file.
// If the database update fails the new file is removed again.
func (s *ProfileService) UpdatePhoto(ctx context.Context, studentID int64, file *multipart.FileHeader) (*models.Student, error) {
	if file == nil {
		return nil, apperrors.NewValidationError("photo is required")
	}
	if file.Size > MaxPhotoSize {
		return nil, apperrors.NewValidationError(fmt.Sprintf("photo must be at most %d MB", MaxPhotoSize>>20))
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPhotoExtensions[ext] {
		return nil, apperrors.NewValidationError("photo must be a jpg, png or webp image")
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveFileWithPath(file, fmt.Sprintf("profile-photos/%d", studentID))
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to store profile photo")
		return nil, err
	}

	if err := s.studentRepo.UpdatePhotoURL(ctx, studentID, &url); err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", url).Msg("Failed to clean up orphaned photo")
		}
		return nil, err
	}

	if student.PhotoURL != nil && *student.PhotoURL != url {
		if err := s.storage.DeleteFile(*student.PhotoURL); err != nil {
			s.logger.Warn().Err(err).Str("url", *student.PhotoURL).Msg("Failed to delete previous profile photo")
		}
	}

	student.PhotoURL = &url
	s.logger.Info().Int64("studentID", studentID).Str("url", url).Msg("Profile photo updated")
	return student, nil
}
