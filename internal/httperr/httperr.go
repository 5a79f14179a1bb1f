package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// WriteBusiness maps a use-case rejection to its HTTP response. Every
// rejection carries its code so the client can show a specific
// corrective message. Non-business errors become 500s.
func WriteBusiness(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, "internal_error", "Unexpected server error.")
		return
	}

	messages := map[Kind]string{
		KindNotFound:    "Resource not found.",
		KindForbidden:   "Not authorized for this action.",
		KindInvalid:     "Invalid request data.",
		KindConflict:    "Request conflicts with current state.",
		KindUnavailable: "Resource is not available.",
	}

	switch be.Kind {
	case KindNotFound:
		NotFound(c, be.Code, messages[be.Kind])
	case KindForbidden:
		Forbidden(c, be.Code, messages[be.Kind])
	case KindInvalid:
		BadRequest(c, be.Code, messages[be.Kind])
	case KindConflict:
		Conflict(c, be.Code, messages[be.Kind])
	case KindUnavailable:
		Forbidden(c, be.Code, messages[be.Kind])
	default:
		Internal(c, be.Code, "Unexpected server error.")
	}
}
