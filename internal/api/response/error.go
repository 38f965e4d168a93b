package response

import (
	"ctchen222/tictactoe/internal/apperror"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusCode maps a domain error to the HTTP status it is reported with.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrInvalidPlayerConfig):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AppErrorResponse writes err with the status StatusCode picks. Messages of
// unexpected errors are not sent to the client.
func AppErrorResponse(c *gin.Context, err error) {
	code := StatusCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = http.StatusText(code)
	}
	ErrorResponse(c, code, message)
}
