package httpapi

import (
	"net/http"

	"socialblog/internal/adapters/httpapi/middleware"
	userapp "socialblog/internal/core/user/service"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	uc UserUseCase
	pc PostUseCase
}

func NewUserController(uc UserUseCase, pc PostUseCase) *UserController {
	return &UserController{uc: uc, pc: pc}
}

func (ctl *UserController) LoginUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.uc.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) RegisterUser(c *gin.Context) {
	var req userapp.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.uc.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *UserController) LogoutUser(c *gin.Context) {
	err := ctl.uc.LogoutUser(c.Request.Context(),
		c.GetString(middleware.TokenIDKey),
		c.GetInt64(middleware.TokenExpiresAtKey),
	)
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// DoesUsernameExist answers false on any lookup failure.
func (ctl *UserController) DoesUsernameExist(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, false)
		return
	}
	exists, err := ctl.uc.UsernameExists(c.Request.Context(), req.Username)
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, exists)
}

func (ctl *UserController) DoesEmailExist(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, false)
		return
	}
	exists, err := ctl.uc.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, exists)
}

// PostsByUsername lists a user's posts for API clients.
func (ctl *UserController) PostsByUsername(c *gin.Context) {
	u, err := ctl.uc.FindByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Sorry, invalid user requested"})
		return
	}
	posts, err := ctl.pc.FindByAuthorID(c.Request.Context(), u.ID)
	if err != nil {
		respondError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, posts)
}
