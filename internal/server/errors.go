package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/queuecast/internal/predict"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Stage string `json:"stage,omitempty"`
}

const codeInternal = "INTERNAL"

func statusFor(code predict.ErrorCode) int {
	switch code {
	case predict.CodeMissingField, predict.CodeInvalidFormat:
		return http.StatusBadRequest
	case predict.CodeUnknownTask, predict.CodeUnknownCategory:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err onto a status and an ErrorResponse. Only typed
// prediction errors expose their message, and only client faults include the
// cause; anything else is reported as an internal error and logged by the
// access log.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	var perr *predict.Error
	if errors.As(err, &perr) {
		status := statusFor(perr.Code)
		msg := perr.Message
		if status < http.StatusInternalServerError {
			msg = perr.Detail()
		}
		c.AbortWithStatusJSON(status, ErrorResponse{
			Error: msg,
			Code:  string(perr.Code),
			Stage: string(perr.Stage),
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error: "internal error",
		Code:  codeInternal,
	})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error: msg,
		Code:  string(predict.CodeInvalidFormat),
		Stage: string(predict.StageValidate),
	})
}
