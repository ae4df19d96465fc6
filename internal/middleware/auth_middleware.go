package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextStudentID = "studentID"
	ContextEmail     = "email"
	ContextName      = "name"
	contextSubject   = "subject"
)

// AuthMiddleware verifies bearer credentials
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth rejects the request before any handler runs unless it carries a
// valid "Authorization: Bearer <token>" header. A missing or non-Bearer
// header is 401; a token that fails verification is 403.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Authentication required").
				WithDetails("Authorization header must be 'Bearer <token>'")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Invalid or expired credential").WithDetails(details)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		subject := claims.Subject()
		c.Set(contextSubject, subject)
		c.Set(ContextStudentID, subject.StudentID)
		c.Set(ContextEmail, subject.Email)
		c.Set(ContextName, subject.Name)

		c.Next()
	}
}

// SubjectFromContext returns the identity JWTAuth attached to the request.
// Routes without JWTAuth get a zero, unauthenticated Subject.
func SubjectFromContext(c *gin.Context) auth.Subject {
	if v, ok := c.Get(contextSubject); ok {
		if subject, ok := v.(auth.Subject); ok {
			return subject
		}
	}
	return auth.Subject{}
}
