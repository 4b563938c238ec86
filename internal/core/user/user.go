package user

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Username  string        `bson:"username"`
	Email     string        `bson:"email"`
	EmailHash string        `bson:"emailHash"`
	Password  string        `bson:"password"`
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username / password")
	ErrDuplicate          = errors.New("username or email already taken")
)

// ValidationError lists every problem found with a registration.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid registration: " + strings.Join(e.Messages, "; ")
}

// HashEmail returns the gravatar hash of an address.
func HashEmail(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// Gravatar resolves avatars against gravatar.com at a fixed size.
type Gravatar struct{}

func (Gravatar) AvatarFor(u *User, alreadyHashed bool) string {
	hash := u.EmailHash
	if !alreadyHashed || hash == "" {
		hash = HashEmail(u.Email)
	}
	return "https://gravatar.com/avatar/" + hash + "?s=128"
}
