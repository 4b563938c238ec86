package httpapi

import (
	"net/http"

	"socialblog/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
)

type FeedController struct{ pc PostUseCase }

func NewFeedController(pc PostUseCase) *FeedController {
	return &FeedController{pc: pc}
}

func (ctl *FeedController) GetFeed(c *gin.Context) {
	posts, err := ctl.pc.GetFeed(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
