package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/turtacn/RxnFeasibility/pkg/errors"
)

// ErrorResponse is the JSON body for every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps an error to its HTTP status via the error code registry
// and renders the uniform error body.
func writeError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.HTTPStatusForCode(code)

	message := apperrors.DefaultMessageForCode(code)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
		if appErr.Detail != "" {
			message = message + ": " + appErr.Detail
		}
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    code.String(),
		Message: message,
	})
}

// writeBadRequest renders a 400 with an explicit message, for request shape
// problems that never reach the domain layer.
func writeBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    apperrors.ErrCodeBadRequest.String(),
		Message: message,
	})
}
