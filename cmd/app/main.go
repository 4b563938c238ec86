package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbadapter "socialblog/internal/adapters/database"
	"socialblog/internal/adapters/httpapi"
	redisadapter "socialblog/internal/adapters/redis"
	"socialblog/internal/adapters/sanitize"
	"socialblog/internal/config"
	"socialblog/internal/core/follower"
	followerapp "socialblog/internal/core/follower/service"
	postapp "socialblog/internal/core/post/service"
	profileapp "socialblog/internal/core/profile/service"
	"socialblog/internal/core/user"
	userapp "socialblog/internal/core/user/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load() // بارگذاری تنظیمات از .env
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("App stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// اتصال به دیتابیس
	mongoDB, err := config.ConnectMongo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeResource(logger, "MongoDB", func() error {
		c, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return mongoDB.Close(c)
	})

	policy := follower.Policy{
		AllowSelfFollow: cfg.FollowAllowSelf,
		AllowDuplicates: cfg.FollowAllowDuplicates,
	}
	if err := dbadapter.EnsureIndexes(ctx, mongoDB, policy, logger); err != nil {
		return err
	}

	// اتصال به Redis
	redisClient, err := config.NewRedis(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeResource(logger, "Redis", redisClient.Close)

	avatars := user.Gravatar{}
	userRepo := dbadapter.NewUserRepositoryMongo(mongoDB)                   // آداپتر خروجی
	postRepo := dbadapter.NewPostRepositoryMongo(mongoDB, avatars)          // آداپتر خروجی
	followerRepo := dbadapter.NewFollowerRepositoryMongo(mongoDB)           // آداپتر خروجی
	sessions := redisadapter.NewSessionRepositoryRedis(redisClient, logger) // آداپتر خروجی

	userSvc := userapp.NewUserService(userRepo, avatars, sessions, cfg.JWTSecret, cfg.JWTTTL, logger)
	postSvc := postapp.NewPostService(postRepo, followerRepo, sanitize.NewStrict(), logger)
	followerSvc := followerapp.NewFollowerService(followerRepo, userRepo, avatars, policy, logger)
	profileSvc := profileapp.NewProfileService(userRepo, avatars, postSvc, followerSvc)

	if cfg.Env != config.EnvDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	// تزریق یوزکیس به آداپتر ورودی
	r := httpapi.SetupRoutes(logger, cfg.RequestTimeout, userSvc, postSvc, followerSvc, profileSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("App is running...", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// closeResource بستن اتصالات بعد از اتمام کار سرور
func closeResource(logger *zap.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error("Error closing connection", zap.String("resource", name), zap.Error(err))
	}
}
