package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every JSON body the API writes.
type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func NewResponse(success bool, code int, extras any) Response {
	return Response{
		Success: success,
		Code:    code,
		Extras:  extras,
	}
}

// SuccessResponseContent returns a JSON response with a success message and content
func SuccessResponseContent(c *gin.Context, content string) {
	c.JSON(
		http.StatusOK,
		NewResponse(
			true,
			http.StatusOK,
			gin.H{
				"content": content,
			},
		))
}

// SuccessResponse returns a JSON response with a success message with no type limitation
func SuccessResponse(c *gin.Context, extras any) {
	c.JSON(
		http.StatusOK,
		NewResponse(
			true,
			http.StatusOK,
			extras,
		))
}

// CreatedResponse is SuccessResponse with status 201.
func CreatedResponse(c *gin.Context, extras any) {
	c.JSON(
		http.StatusCreated,
		NewResponse(
			true,
			http.StatusCreated,
			extras,
		))
}

// ErrorResponse returns a JSON response with the given status code and message
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, errorBody(code, message))
}

// AbortResponse is ErrorResponse for middleware: it also stops the chain.
func AbortResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, errorBody(code, message))
}

func errorBody(code int, message string) Response {
	return NewResponse(
		false,
		code,
		gin.H{
			"message": message,
		},
	)
}
