package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"moblind/internal/domain"
	"moblind/internal/logging"
	"moblind/internal/metrics"
	"moblind/internal/util"
)

// LoginPayload carries staff credentials
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the issued bearer token
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreateUserPayload describes a new staff account
type CreateUserPayload struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}

// AuthService authenticates staff accounts
type AuthService struct {
	db     *gorm.DB
	tokens *util.Tokens
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, tokens *util.Tokens, logger *zap.Logger) *AuthService {
	return &AuthService{db: db, tokens: tokens, logger: logging.OrNop(logger).Named("auth")}
}

// Login checks credentials and issues a bearer token
func (s *AuthService) Login(ctx context.Context, p *LoginPayload) (*LoginResult, error) {
	username := strings.TrimSpace(p.Username)
	log := s.logger.With(zap.String("username", username))

	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		metrics.RecordAuthAttempt(false)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Info("login failed: unknown user")
			return nil, Unauthorized("incorrect username or password")
		}
		log.Error("login failed: database error", zap.Error(err))
		return nil, Internal("failed to look up user", err)
	}

	if !util.CheckPasswordHash(p.Password, user.HashedPassword) {
		metrics.RecordAuthAttempt(false)
		log.Info("login failed: wrong password")
		return nil, Unauthorized("incorrect username or password")
	}
	if !user.IsActive {
		metrics.RecordAuthAttempt(false)
		log.Info("login failed: inactive account")
		return nil, Unauthorized("user account is inactive")
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		log.Warn("failed to update last login", zap.Error(err))
	}

	token, err := s.tokens.GenerateToken(&user)
	if err != nil {
		log.Error("login failed: token generation", zap.Error(err))
		return nil, Internal("failed to generate token", err)
	}

	metrics.RecordAuthAttempt(true)
	log.Info("login successful", zap.Uint("id", user.ID), zap.Bool("admin", user.IsAdmin))
	return &LoginResult{AccessToken: token, TokenType: "bearer"}, nil
}

// Authenticate resolves a bearer token to an active account allowed to read
// inquiries
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, Unauthorized("invalid or expired token")
	}

	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", claims.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized("user not found")
		}
		return nil, Internal("failed to get user", err)
	}
	if !user.IsActive {
		return nil, Unauthorized("user account is inactive")
	}
	if !user.CanReadInquiries() {
		return nil, Forbidden("insufficient permissions")
	}
	return &user, nil
}

// CreateUser adds a staff account. Admins are staff too.
func (s *AuthService) CreateUser(ctx context.Context, p *CreateUserPayload) (*domain.User, error) {
	username := strings.TrimSpace(p.Username)
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if username == "" || email == "" {
		return nil, BadRequest("username and email are required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ? OR email = ?", username, email).Count(&count).Error; err != nil {
		return nil, Internal("failed to check existing users", err)
	}
	if count > 0 {
		return nil, BadRequest("username or email already registered")
	}

	hashed, err := util.HashPassword(p.Password)
	if err != nil {
		return nil, BadRequest("%v", err)
	}

	user := &domain.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
		IsAdmin:        p.IsAdmin,
		IsStaff:        true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, Internal("failed to create user", err)
	}
	s.logger.Info("user created", zap.String("username", username), zap.Uint("id", user.ID), zap.Bool("admin", user.IsAdmin))
	return user, nil
}
