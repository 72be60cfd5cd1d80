package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/middleware"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// parseOptionalID parses an optional uint query parameter.
func parseOptionalID(c *gin.Context, param string) (*uint, error) {
	v := c.Query(param)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(v, 10, 32)
	if err != nil || id == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	u := uint(id)
	return &u, nil
}

// parseDate parses an optional YYYY-MM-DD value; "" yields the zero time.
func parseDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, field+" must be YYYY-MM-DD")
	}
	return t, nil
}

// MonthQuery selects one calendar month of a report.
type MonthQuery struct {
	Year  int `form:"year" binding:"required,year"`
	Month int `form:"month" binding:"required,month"`
}

func bindMonth(c *gin.Context) (MonthQuery, error) {
	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return q, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return q, nil
}

// wantsXLSX reports whether the caller asked for a spreadsheet.
func wantsXLSX(c *gin.Context) bool {
	return c.Query("format") == "xlsx"
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", middleware.RequestID(c),
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", middleware.RequestID(c),
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
