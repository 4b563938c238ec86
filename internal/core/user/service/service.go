package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userEntity "socialblog/internal/core/user"
	userPort "socialblog/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "socialblog"

// bcrypt rejects passwords longer than this many bytes.
const maxPasswordBytes = 72

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// RegisterInput is the raw registration form.
type RegisterInput struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=50"`
}

// Claims is what a verified token says about its holder.
type Claims struct {
	UserID    string
	TokenID   string
	ExpiresAt int64
}

// UserService سرویس مدیریت کاربران
type UserService struct {
	UserRepository userPort.UserRepository
	Avatars        userPort.AvatarResolver
	Revoker        userPort.TokenRevoker

	jwtKey   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewUserService(
	repo userPort.UserRepository,
	avatars userPort.AvatarResolver,
	revoker userPort.TokenRevoker,
	jwtKey []byte,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		UserRepository: repo,
		Avatars:        avatars,
		Revoker:        revoker,
		jwtKey:         jwtKey,
		tokenTTL:       tokenTTL,
		logger:         logger,
		validate:       validator.New(),
		now:            time.Now,
	}
}

// RegisterUser ثبت‌نام کاربر جدید و صدور توکن
func (s *UserService) RegisterUser(ctx context.Context, in RegisterInput) (*userPort.LoginResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	msgs, err := s.registrationErrors(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		return nil, &userEntity.ValidationError{Messages: msgs}
	}

	// هش کردن پسورد
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		Username:  in.Username,
		Email:     in.Email,
		EmailHash: userEntity.HashEmail(in.Email),
		Password:  string(hashedPassword),
	})
	if errors.Is(err, userEntity.ErrDuplicate) {
		return nil, &userEntity.ValidationError{Messages: []string{"That username or email is already taken."}}
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("userID", u.ID.Hex()), zap.String("username", u.Username))
	return s.issue(u)
}

func (s *UserService) registrationErrors(ctx context.Context, in RegisterInput) ([]string, error) {
	var msgs []string
	usernameOK, emailOK, passwordOK := true, true, true

	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("validate registration: %w", err)
		}
		for _, fe := range fieldErrs {
			switch fe.Field() {
			case "Username":
				usernameOK = false
			case "Email":
				emailOK = false
			case "Password":
				passwordOK = false
			}
			msgs = append(msgs, registrationMessage(fe))
		}
	}

	if passwordOK && len(in.Password) > maxPasswordBytes {
		msgs = append(msgs, "Password cannot exceed 72 bytes.")
	}

	// فقط در صورت معتبر بودن فیلد، تکراری بودن بررسی می‌شود
	if usernameOK {
		taken, err := s.UserRepository.UsernameExists(ctx, in.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			msgs = append(msgs, "That username is already taken.")
		}
	}
	if emailOK {
		taken, err := s.UserRepository.EmailExists(ctx, in.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			msgs = append(msgs, "That email is already being used.")
		}
	}
	return msgs, nil
}

func registrationMessage(fe validator.FieldError) string {
	switch fe.Field() + "." + fe.Tag() {
	case "Username.required":
		return "You must provide a username."
	case "Username.alphanum":
		return "Username can only contain letters and numbers."
	case "Username.min":
		return "Username must be at least 3 characters."
	case "Username.max":
		return "Username cannot exceed 30 characters."
	case "Email.required", "Email.email":
		return "You must provide a valid email address."
	case "Password.required":
		return "You must provide a password."
	case "Password.min":
		return "Password must be at least 12 characters."
	case "Password.max":
		return "Password cannot exceed 50 characters."
	}
	return fe.Error()
}

// LoginUser ورود کاربر و صدور توکن JWT
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error) {
	// پیدا کردن کاربر با یوزرنیم
	u, err := s.UserRepository.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, userEntity.ErrNotFound) {
		return nil, userEntity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	// مقایسه پسورد هش‌شده
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Debug("Invalid password", zap.String("username", u.Username))
		return nil, userEntity.ErrInvalidCredentials
	}

	return s.issue(u)
}

// LogoutUser revokes the token until its natural expiry.
func (s *UserService) LogoutUser(ctx context.Context, tokenID string, expiresAt int64) error {
	ttl := time.Unix(expiresAt, 0).Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.Revoker.Revoke(ctx, tokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// VerifyToken parses a bearer token and rejects expired or revoked ones.
func (s *UserService) VerifyToken(ctx context.Context, raw string) (*Claims, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := bson.ObjectIDFromHex(claims.Subject); err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.Revoker.IsRevoked(ctx, claims.Id)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}

	return &Claims{UserID: claims.Subject, TokenID: claims.Id, ExpiresAt: claims.ExpiresAt}, nil
}

// FindByUsername returns the stored user or user.ErrNotFound.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*userEntity.User, error) {
	return s.UserRepository.FindByUsername(ctx, username)
}

func (s *UserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.UserRepository.UsernameExists(ctx, username)
}

func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.UserRepository.EmailExists(ctx, strings.TrimSpace(strings.ToLower(email)))
}

func (s *UserService) issue(u *userEntity.User) (*userPort.LoginResponse, error) {
	expiresAt := s.now().Add(s.tokenTTL).Unix()
	token, err := s.generateJWT(u, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: userPort.UserDTO{
			ID:       u.ID.Hex(),
			Username: u.Username,
			Avatar:   s.Avatars.AvatarFor(u, true),
		},
	}, nil
}

// generateJWT برای تولید توکن JWT
func (s *UserService) generateJWT(u *userEntity.User, expiresAt int64) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	claims := &jwt.StandardClaims{
		Id:        jti.String(),
		Subject:   u.ID.Hex(),
		Issuer:    tokenIssuer,
		IssuedAt:  s.now().Unix(),
		ExpiresAt: expiresAt,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}
