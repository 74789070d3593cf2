package apierr

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Respond writes the error body for a typed Error.
func Respond(c *gin.Context, err Error) {
	c.JSON(err.Status, err.ToResponse(c.Request.URL.Path))
}

// RespondError converts any error into the structured error body. Unknown
// errors collapse into INTERNAL_ERROR without leaking their message.
func RespondError(c *gin.Context, err error) {
	var typed Error
	if errors.As(err, &typed) {
		Respond(c, typed)
		return
	}
	Respond(c, Internal(""))
}
