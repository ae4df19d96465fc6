package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studyhub/internal/app/controllers"
	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/middleware"
	"github.com/yigit/studyhub/internal/pkg/validation"
)

// Controllers groups the handlers mounted under /api/v1
type Controllers struct {
	Auth         *controllers.AuthController
	Notification *controllers.NotificationController
	Program      *controllers.ProgramController
	Profile      *controllers.ProfileController
	Testimonial  *controllers.TestimonialController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}

	v1 := router.Group("/api/v1")

	v1.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, "pong"))
	})

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", c.Auth.Signup)
		auth.POST("/login", c.Auth.Login)
	}

	programs := v1.Group("/programs")
	{
		programs.GET("", c.Program.List)
		programs.GET("/:id", c.Program.Get)
	}

	v1.GET("/testimonials", c.Testimonial.List)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", c.Notification.List)
			// Static segment registered alongside /:id; gin prefers the exact match.
			notifications.PATCH("/mark-all-read", c.Notification.MarkAllRead)
			notifications.PATCH("/:id/read", c.Notification.MarkRead)
			notifications.DELETE("/:id", c.Notification.Archive)
		}

		authenticated.POST("/programs/:id/register", c.Program.Register)

		profile := authenticated.Group("/profile")
		{
			profile.GET("", c.Profile.Get)
			profile.POST("/photo", c.Profile.UpdatePhoto)
		}

		authenticated.POST("/testimonials", c.Testimonial.Create)
	}
}
