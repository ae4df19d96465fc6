package services

import (
	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/repositories"
	"github.com/yigit/studyhub/internal/pkg/auth"
	"github.com/yigit/studyhub/internal/pkg/filestorage"
	"github.com/yigit/studyhub/internal/pkg/metrics"
)

// Services holds every service the controllers and the scheduler use
type Services struct {
	AuthService             *AuthService
	NotificationService     *NotificationService
	ProgramService          *ProgramService
	ProgramLifecycleService *ProgramLifecycleService
	ProfileService          *ProfileService
	TestimonialService      *TestimonialService
}

// Dependencies are the shared collaborators services are built from
type Dependencies struct {
	Repos       *repositories.Repositories
	JWT         *auth.JWTService
	FileStorage filestorage.FileStorage
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// NewServices wires all services from deps
func NewServices(deps Dependencies) *Services {
	notifications := NewNotificationService(deps.Repos.NotificationRepository, deps.Metrics, deps.Logger)

	return &Services{
		AuthService: NewAuthService(
			deps.Repos.StudentRepository,
			deps.Repos.LoginLogRepository,
			notifications,
			deps.JWT,
			deps.Logger,
		),
		NotificationService:     notifications,
		ProgramService:          NewProgramService(deps.Repos.ProgramRepository, notifications, deps.Logger),
		ProgramLifecycleService: NewProgramLifecycleService(deps.Repos.ProgramRepository, deps.Logger),
		ProfileService:          NewProfileService(deps.Repos.StudentRepository, deps.FileStorage, deps.Logger),
		TestimonialService:      NewTestimonialService(deps.Repos.TestimonialRepository, deps.Logger),
	}
}
