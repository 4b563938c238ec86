package httpapi

import (
	"net/http"

	"socialblog/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
)

type FollowerController struct{ fc FollowerUseCase }

func NewFollowerController(fc FollowerUseCase) *FollowerController {
	return &FollowerController{fc: fc}
}

func (ctl *FollowerController) FollowUser(c *gin.Context) {
	username := c.Param("username")
	if err := ctl.fc.FollowUser(c.Request.Context(), middleware.UserID(c), username); err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully followed " + username})
}

func (ctl *FollowerController) UnfollowUser(c *gin.Context) {
	username := c.Param("username")
	if err := ctl.fc.UnfollowUser(c.Request.Context(), middleware.UserID(c), username); err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully stopped following " + username})
}
