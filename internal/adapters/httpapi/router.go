package httpapi

import (
	"context"
	"net/http"
	"time"

	"socialblog/internal/adapters/httpapi/middleware"
	"socialblog/internal/core/post"
	profileapp "socialblog/internal/core/profile/service"
	"socialblog/internal/core/user"
	userapp "socialblog/internal/core/user/service"
	userPort "socialblog/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// UserUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type UserUseCase interface {
	RegisterUser(ctx context.Context, in userapp.RegisterInput) (*userPort.LoginResponse, error)
	LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
	LogoutUser(ctx context.Context, tokenID string, expiresAt int64) error
	VerifyToken(ctx context.Context, raw string) (*userapp.Claims, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, in post.Input, authorID string) (string, error)
	UpdatePost(ctx context.Context, postID string, in post.Input, userID string) (*post.UpdateResult, error)
	DeletePost(ctx context.Context, postID, callerID string) error
	FindSingleByID(ctx context.Context, id, visitorID string) (*post.PostView, error)
	FindByAuthorID(ctx context.Context, authorID bson.ObjectID) ([]*post.PostView, error)
	Search(ctx context.Context, term any) ([]*post.PostView, error)
	GetFeed(ctx context.Context, userID string) ([]*post.PostView, error)
}

type FollowerUseCase interface {
	FollowUser(ctx context.Context, followerID, username string) error
	UnfollowUser(ctx context.Context, followerID, username string) error
}

type ProfileUseCase interface {
	Posts(ctx context.Context, username, visitorID string) (*profileapp.PostsPage, error)
	Followers(ctx context.Context, username, visitorID string) (*profileapp.FollowersPage, error)
	Following(ctx context.Context, username, visitorID string) (*profileapp.FollowingPage, error)
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(
	logger *zap.Logger,
	requestTimeout time.Duration,
	userUC UserUseCase,
	postUC PostUseCase,
	followerUC FollowerUseCase,
	profileUC ProfileUseCase,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.RequestTimeout(requestTimeout))

	uc := NewUserController(userUC, postUC)
	pc := NewPostController(postUC)
	fc := NewFollowerController(followerUC)
	feed := NewFeedController(postUC)
	prc := NewProfileController(profileUC)

	auth := middleware.JWTAuthMiddleware(userUC)
	visitor := middleware.OptionalAuthMiddleware(userUC)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// مسیرهای ثبت‌نام و ورود بدون JWT Middleware
	r.POST("/register", uc.RegisterUser)
	r.POST("/login", uc.LoginUser)
	r.POST("/logout", auth, uc.LogoutUser)
	r.POST("/doesUsernameExist", uc.DoesUsernameExist)
	r.POST("/doesEmailExist", uc.DoesEmailExist)

	r.GET("/feed", auth, feed.GetFeed)

	r.POST("/posts", auth, pc.CreatePost)
	r.GET("/posts/:id", visitor, pc.ViewSingle)
	r.PUT("/posts/:id", auth, pc.UpdatePost)
	r.DELETE("/posts/:id", auth, pc.DeletePost)
	r.POST("/search", pc.Search)

	r.GET("/profile/:username", visitor, prc.Posts)
	r.GET("/profile/:username/followers", visitor, prc.Followers)
	r.GET("/profile/:username/following", visitor, prc.Following)

	// مسیرهای دنبال کردن با JWT Middleware
	r.POST("/addFollow/:username", auth, fc.FollowUser)
	r.POST("/removeFollow/:username", auth, fc.UnfollowUser)

	r.GET("/api/postsByAuthor/:username", uc.PostsByUsername)
	return r
}
