package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sitepages/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService verifies admin credentials before a session is issued.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService returns a new AuthService instance.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb}
}

// Authenticate returns the user whose bcrypt hash matches password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*db.User, error) {
	name := strings.TrimSpace(username)
	if name == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user db.User
	if err := s.db.WithContext(ctx).Where("username = ?", name).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
