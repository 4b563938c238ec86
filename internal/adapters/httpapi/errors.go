package httpapi

import (
	"context"
	"errors"
	"net/http"

	"socialblog/internal/core/follower"
	"socialblog/internal/core/post"
	"socialblog/internal/core/user"

	"github.com/gin-gonic/gin"
)

const (
	msgForbidden = "You do not have permission to perform that action"
	msgNotFound  = "not found"
	msgTryLater  = "Please try again later"
)

// respondError maps service errors to a status and body. Errors it does not
// recognise are reported with fallback, which read paths set to 404.
func respondError(c *gin.Context, err error, fallback int) {
	var (
		postErrs     *post.ValidationError
		userErrs     *user.ValidationError
		followerErrs *follower.ValidationError
	)

	switch {
	case errors.Is(err, post.ErrForbiddenOrMissing):
		c.JSON(http.StatusForbidden, gin.H{"error": msgForbidden})
	case errors.Is(err, post.ErrNotFound), errors.Is(err, user.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	case errors.As(err, &postErrs):
		if postErrs.Err != nil {
			_ = c.Error(postErrs.Err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": postErrs.Messages})
	case errors.As(err, &userErrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": userErrs.Messages})
	case errors.As(err, &followerErrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": followerErrs.Messages})
	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username / password."})
	case errors.Is(err, post.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": msgTryLater})
	default:
		_ = c.Error(err)
		if fallback == http.StatusNotFound {
			c.JSON(fallback, gin.H{"error": msgNotFound})
			return
		}
		c.JSON(fallback, gin.H{"error": msgTryLater})
	}
}
