package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusForbidden, dto.ErrorCodeInvalidToken},
		{"expired", apperrors.ErrTokenExpired, http.StatusForbidden, dto.ErrorCodeExpiredToken},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"validation", apperrors.NewValidationError("rating must be between 1 and 5"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"program missing", apperrors.ErrProgramNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"student missing", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"already registered", apperrors.ErrAlreadyRegistered, http.StatusConflict, dto.ErrorCodeConflict},
		{"inactive program", apperrors.ErrProgramInactive, http.StatusConflict, dto.ErrorCodeConflict},
		{"store down", fmt.Errorf("%w: list: %w", apperrors.ErrStoreUnavailable, errors.New("conn refused")), http.StatusInternalServerError, dto.ErrorCodeDatabaseError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := classifyError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, detail.Code)
		})
	}
}

func TestClassifyErrorKeepsValidationMessage(t *testing.T) {
	_, detail := classifyError(apperrors.NewValidationError("rating must be between 1 and 5"))
	assert.Equal(t, "rating must be between 1 and 5", detail.Message)
}

func TestRecoveryReturns500(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(nopLogger()))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
