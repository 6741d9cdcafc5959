package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mediastore/internal/config"
	"mediastore/internal/model"
	"mediastore/internal/repository"
	"mediastore/internal/signing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// UserSessionSalt and AdminSessionSalt scope session cookies away from
	// download tokens and from each other.
	UserSessionSalt  = "user-session"
	AdminSessionSalt = "admin-session"

	UserSessionMaxAge  = 7 * 24 * time.Hour
	AdminSessionMaxAge = 12 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	VerifyUserSession(token string) (uint, error)

	AdminLogin(username, password string) (string, error)
	VerifyAdminSession(token string) error
}

type authServiceImpl struct {
	userRepo    repository.UserRepository
	userSigner  *signing.Signer
	adminSigner *signing.Signer
	admin       config.Admin
}

func NewAuthService(userRepo repository.UserRepository, secret string, admin config.Admin) AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		userSigner:  signing.NewSigner(secret, UserSessionSalt),
		adminSigner: signing.NewSigner(secret, AdminSessionSalt),
		admin:       admin,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("store user: %w", err)
	}

	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.userSigner.Issue(strconv.FormatUint(uint64(user.ID), 10))
	if err != nil {
		return "", nil, fmt.Errorf("issue session token: %w", err)
	}

	return token, user, nil
}

func (s *authServiceImpl) VerifyUserSession(token string) (uint, error) {
	subject, err := s.userSigner.Verify(token, UserSessionMaxAge)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, signing.ErrInvalidToken
	}
	return uint(id), nil
}

func (s *authServiceImpl) AdminLogin(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	return s.adminSigner.Issue(username)
}

func (s *authServiceImpl) VerifyAdminSession(token string) error {
	_, err := s.adminSigner.Verify(token, AdminSessionMaxAge)
	return err
}
