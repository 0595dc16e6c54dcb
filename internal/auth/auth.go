// Package auth implements the sign-in boundary. Its only contract with the
// ledger core is producing a stable per-user identifier (the email) that
// namespaces every collection.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/wigapos/ledger/internal/interfaces"
	"github.com/wigapos/ledger/internal/models"
)

// Service issues and verifies session tokens against a user store.
type Service struct {
	users  interfaces.UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds an auth service. secret signs HS256 tokens; ttl bounds
// their lifetime.
func NewService(users interfaces.UserStore, secret []byte, ttl time.Duration) *Service {
	return &Service{users: users, secret: secret, ttl: ttl, now: time.Now}
}

// SignUp registers a new user with a bcrypt-hashed password.
func (s *Service) SignUp(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, models.Invalid("email", "must be a valid email address")
	}
	if len(password) < 6 {
		return models.User{}, models.Invalid("password", "too short (min 6)")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	return s.users.CreateUser(ctx, models.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
}

// SignIn checks credentials and returns a signed session token. Both a
// missing user and a bad password report the same error.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrInvalidCredential
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", models.ErrInvalidCredential
	}
	claims := jwt.MapClaims{
		"sub": user.Email,
		"iat": s.now().Unix(),
		"exp": s.now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses a session token and returns the tenant identifier it
// carries.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", models.ErrInvalidCredential
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", models.ErrInvalidCredential
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", models.ErrInvalidCredential
	}
	return sub, nil
}
