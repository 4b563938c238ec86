package user

import (
	"context"
	"time"

	"socialblog/internal/core/user"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserRepository پورت برای ذخیره‌سازی و بازیابی کاربران
type UserRepository interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*user.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// AvatarResolver derives the public avatar URL for a user. With alreadyHashed
// the stored email hash is used as is.
type AvatarResolver interface {
	AvatarFor(u *user.User, alreadyHashed bool) string
}

// TokenRevoker remembers tokens that were logged out until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// DTOها برای UseCase
type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt int64   `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
