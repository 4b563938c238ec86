package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds every setting read from the environment at startup.
type Config struct {
	Env            string
	Port           string
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	JWTSecret      []byte
	JWTTTL         time.Duration
	RequestTimeout time.Duration

	FollowAllowSelf       bool
	FollowAllowDuplicates bool
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// .env is optional; the real environment wins when both are set.
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getenv("APP_ENV", EnvDevelopment),
		Port:          getenv("APP_PORT", "8080"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getenv("MONGO_DATABASE", "socialblog"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
	}

	var errs []error
	if cfg.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is not set"))
	}
	if cfg.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is not set"))
	}
	if len(cfg.JWTSecret) == 0 {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}

	var err error
	if cfg.RedisDB, err = atoi("REDIS_DB", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.JWTTTL, err = duration("JWT_TTL", 7*24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.RequestTimeout, err = duration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.FollowAllowSelf, err = boolean("FOLLOW_ALLOW_SELF", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.FollowAllowDuplicates, err = boolean("FOLLOW_ALLOW_DUPLICATES", false); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolean(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
