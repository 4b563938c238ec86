package httpapi

import (
	"net/http"

	"socialblog/internal/adapters/httpapi/middleware"
	"socialblog/internal/core/post"
	postPort "socialblog/internal/ports/post"

	"github.com/gin-gonic/gin"
)

type PostController struct{ pc PostUseCase }

func NewPostController(pc PostUseCase) *PostController { return &PostController{pc: pc} }

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req post.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	id, err := ctl.pc.CreatePost(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, postPort.CreateResponse{ID: id})
}

func (ctl *PostController) ViewSingle(c *gin.Context) {
	p, err := ctl.pc.FindSingleByID(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *PostController) UpdatePost(c *gin.Context) {
	var req post.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.pc.UpdatePost(c.Request.Context(), c.Param("id"), req, middleware.UserID(c))
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	if res.Status == post.UpdateFailure {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	if err := ctl.pc.DeletePost(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post successfully deleted"})
}

// Search never fails from the client's point of view: any error yields [].
func (ctl *PostController) Search(c *gin.Context) {
	var req struct {
		SearchTerm any `json:"searchTerm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, []*post.PostView{})
		return
	}
	posts, err := ctl.pc.Search(c.Request.Context(), req.SearchTerm)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusOK, []*post.PostView{})
		return
	}
	c.JSON(http.StatusOK, posts)
}
