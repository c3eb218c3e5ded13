// Package auth issues and validates user identity: bcrypt-hashed passwords,
// HS256 JWTs and the gin middleware that turns a bearer token into a user ID
// on the request context.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumina-market/backend/internal/domain"
)

const tokenTTL = 7 * 24 * time.Hour

type UserStore interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (domain.User, error)
}

type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.StandardClaims
}

type Service struct {
	users  UserStore
	secret []byte
	log    *slog.Logger
}

func NewService(users UserStore, secret []byte, log *slog.Logger) *Service {
	return &Service{
		users:  users,
		secret: secret,
		log:    log,
	}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" || email == "" || len(password) < 6 {
		return domain.User{}, "", fmt.Errorf("%w: username, email and a password of at least 6 characters are required", domain.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", err
	}

	user, err := s.users.Create(ctx, domain.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	})
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and wrong password.
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (s *Service) Profile(ctx context.Context, userID primitive.ObjectID) (domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *Service) issueToken(user domain.User) (string, error) {
	claims := Claims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
