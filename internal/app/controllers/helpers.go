// Package controllers handles HTTP request handling
package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studyhub/internal/app/models/dto"
)

// parseIDParam parses a positive int64 path parameter
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	idStr := ctx.Param(paramName)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be positive", paramName)
	}
	return id, nil
}

func respondInvalidID(ctx *gin.Context, what string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+what+" ID").
		WithDetails("ID must be a positive number")
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
