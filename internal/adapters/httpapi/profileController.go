package httpapi

import (
	"net/http"

	"socialblog/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
)

type ProfileController struct{ prc ProfileUseCase }

func NewProfileController(prc ProfileUseCase) *ProfileController {
	return &ProfileController{prc: prc}
}

func (ctl *ProfileController) Posts(c *gin.Context) {
	page, err := ctl.prc.Posts(c.Request.Context(), c.Param("username"), middleware.UserID(c))
	if err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (ctl *ProfileController) Followers(c *gin.Context) {
	page, err := ctl.prc.Followers(c.Request.Context(), c.Param("username"), middleware.UserID(c))
	if err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (ctl *ProfileController) Following(c *gin.Context) {
	page, err := ctl.prc.Following(c.Request.Context(), c.Param("username"), middleware.UserID(c))
	if err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, page)
}
