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

// ClientInfo describes where a login came from
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// AuthService handles signup and login
type AuthService struct {
	studentRepo   repositories.StudentRepository
	loginLogRepo  repositories.LoginLogRepository
	notifications *NotificationService
	jwtService    *auth.JWTService
	hashCost      int
	logger        zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	studentRepo repositories.StudentRepository,
	loginLogRepo repositories.LoginLogRepository,
	notifications *NotificationService,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		studentRepo:   studentRepo,
		loginLogRepo:  loginLogRepo,
		notifications: notifications,
		jwtService:    jwtService,
		hashCost:      auth.BcryptCost,
		logger:        logger.With().Str("service", "auth").Logger(),
	}
}

// SetPasswordCost overrides the bcrypt cost used for new accounts.
func (s *AuthService) SetPasswordCost(cost int) {
	s.hashCost = cost
}

// Signup creates a student account, greets it with a welcome notification
// and returns a token so the client is signed in straight away.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name cannot be empty")
	}

	hash, err := auth.HashPasswordWithCost(req.Password, s.hashCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	student := &models.Student{
		Name:         name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("studentID", student.ID).Msg("Student signed up")

	welcome := &models.Notification{
		StudentID: student.ID,
		Type:      models.NotificationTypeGeneral,
		Title:     "Welcome to StudyHub",
		Preview:   "Browse the programmes open for registration",
		Body:      "Your account is ready. Have a look at the programmes currently running and register for the ones that suit you.",
		Action: &models.NotificationAction{
			Kind:   models.ActionNavigate,
			Label:  "Browse programmes",
			Target: "/programs",
		},
	}
	if err := s.notifications.Notify(ctx, welcome); err != nil {
		s.logger.Warn().Err(err).Int64("studentID", student.ID).Msg("Welcome notification not delivered")
	}

	return s.authResponse(student)
}

// Login verifies the credentials and records the login in the audit trail.
// The token is only returned once the audit entry is stored.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest, client ClientInfo) (*dto.AuthResponse, error) {
	student, err := s.studentRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(student.PasswordHash, req.Password) {
		s.logger.Info().Int64("studentID", student.ID).Str("ip", client.IPAddress).Msg("Login rejected: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	entry := &models.LoginLogEntry{
		StudentID: student.ID,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	}
	if err := s.loginLogRepo.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).Int64("studentID", student.ID).Msg("Failed to write login log")
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Str("ip", client.IPAddress).Msg("Student logged in")
	return s.authResponse(student)
}

func (s *AuthService) authResponse(student *models.Student) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(student.ID, student.Email, student.Name)
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", student.ID).Msg("Failed to issue access token")
		return nil, err
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		Student: dto.NewStudentResponse(student),
	}, nil
}
