package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/Varun5711/devcamper/internal/auth"
	"github.com/Varun5711/devcamper/internal/logger"
	usermodel "github.com/Varun5711/devcamper/internal/models/user"
	"github.com/Varun5711/devcamper/internal/storage"
	"github.com/Varun5711/devcamper/internal/validation"
)

const (
	duplicateFieldMessage = "Duplicate field value entered"
	resetEmailSubject     = "Password reset token"
	resetPathPrefix       = "/api/v1/auth/resetpassword/"
)

type AuthConfig struct {
	ResetTokenExpire time.Duration
	// BaseURL is the public origin reset links point at.
	BaseURL string
}

// AuthService owns the credential and token lifecycle.
type AuthService struct {
	users    UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.JWTManager
	notifier Notifier
	cfg      AuthConfig
	log      *logger.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users UserRepository, hasher *auth.PasswordHasher, tokens *auth.JWTManager, notifier Notifier, cfg AuthConfig) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
		log:      logger.New("auth-service"),
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req *usermodel.CreateUserRequest) (*usermodel.AuthResponse, error) {
	role, err := validation.ValidateRegistration(req)
	if err != nil {
		return nil, ErrValidation(err.Error())
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, oops.Code(CodePersistence).With("operation", "hash password").Wrap(err)
	}

	user := &usermodel.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Role:         role,
		PasswordHash: passwordHash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrValidation(duplicateFieldMessage)
		}
		return nil, errPersistence("create user", err)
	}

	s.log.Info("Registered user %s with role %s", user.ID, user.Role)
	return s.issueToken(user)
}

// Login reports the same failure for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, req *usermodel.LoginRequest) (*usermodel.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingCredentials()
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errPersistence("get user by email", err)
	}
	if user == nil {
		// Match the cost of the wrong-password path.
		_ = s.hasher.Verify(s.fallbackHash(), req.Password)
		return nil, ErrInvalidCredentials()
	}

	if err := s.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials()
	}

	return s.issueToken(user)
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*usermodel.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errPersistence("get user by id", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated("user no longer exists")
	}
	return user, nil
}

// UpdateDetails changes name and/or email only. Absent fields keep their current value.
func (s *AuthService) UpdateDetails(ctx context.Context, userID string, req *usermodel.UpdateDetailsRequest) (*usermodel.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	name, email := user.Name, user.Email
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}

	if err := validation.ValidateName(name); err != nil {
		return nil, ErrValidation(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, ErrValidation(err.Error())
	}

	updated, err := s.users.UpdateDetails(ctx, userID, name, email)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateEmail):
			return nil, ErrValidation(duplicateFieldMessage)
		case errors.Is(err, storage.ErrUserNotFound):
			return nil, ErrUnauthenticated("user no longer exists")
		}
		return nil, errPersistence("update details", err)
	}

	return updated, nil
}

// UpdatePassword leaves the stored hash untouched unless the current password verifies.
func (s *AuthService) UpdatePassword(ctx context.Context, userID string, req *usermodel.UpdatePasswordRequest) (*usermodel.AuthResponse, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Verify(user.PasswordHash, req.CurrentPassword); err != nil {
		return nil, ErrIncorrectPassword(userID)
	}

	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		return nil, ErrValidation(err.Error())
	}

	if err := s.setPassword(ctx, user.ID, req.NewPassword); err != nil {
		return nil, err
	}

	s.log.Info("Password changed for user %s", user.ID)
	return s.issueToken(user)
}

// ForgotPassword attaches a fresh reset token to the account and mails the link.
// A newer request replaces any token still pending. When delivery fails the
// token is detached again so no unusable token lingers.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrValidation(validation.ErrEmailRequired.Error())
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return errPersistence("get user by email", err)
	}
	if user == nil {
		return ErrNoSuchUser(email)
	}

	token, err := auth.GenerateResetToken(s.cfg.ResetTokenExpire)
	if err != nil {
		return oops.Code(CodePersistence).With("operation", "generate reset token").Wrap(err)
	}

	if err := s.users.SetResetToken(ctx, user.ID, token.Hash, token.ExpiresAt); err != nil {
		return errPersistence("attach reset token", err)
	}

	resetURL := strings.TrimRight(s.cfg.BaseURL, "/") + resetPathPrefix + token.Plaintext

	if err := s.notifier.Send(ctx, user.Email, resetEmailSubject, resetEmailBody(resetURL)); err != nil {
		s.log.With("user_id", user.ID).Error("Reset email delivery failed: %v", err)

		// A fresh context so a cancelled request still gets its token detached.
		clearCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if clearErr := s.users.ClearResetToken(clearCtx, user.ID); clearErr != nil {
			s.log.With("user_id", user.ID).Error("Failed to clear reset token: %v", clearErr)
		}

		return ErrEmailDeliveryFailed(err)
	}

	s.log.Info("Reset email sent to user %s", user.ID)
	return nil
}

// ResetPassword consumes a reset token. The new hash is stored and the token
// cleared in one write, so the token can be used at most once.
func (s *AuthService) ResetPassword(ctx context.Context, plaintext string, req *usermodel.ResetPasswordRequest) (*usermodel.AuthResponse, error) {
	if plaintext == "" {
		return nil, ErrInvalidOrExpiredToken()
	}

	now := s.now()
	tokenHash := auth.HashResetToken(plaintext)

	user, err := s.users.GetUserByResetToken(ctx, tokenHash, now)
	if err != nil {
		return nil, errPersistence("get user by reset token", err)
	}
	if user == nil || !user.HasPendingReset() ||
		!auth.ResetTokenMatches(plaintext, *user.ResetTokenHash, *user.ResetTokenExpiry, now) {
		return nil, ErrInvalidOrExpiredToken()
	}

	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, ErrValidation(err.Error())
	}

	if err := s.setPassword(ctx, user.ID, req.Password); err != nil {
		return nil, err
	}

	s.log.Info("Password reset completed for user %s", user.ID)
	return s.issueToken(user)
}

// Authenticate resolves a session token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*usermodel.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthenticated(err.Error())
	}
	return s.GetProfile(ctx, claims.UserID)
}

func (s *AuthService) setPassword(ctx context.Context, userID, password string) error {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return oops.Code(CodePersistence).With("operation", "hash password").Wrap(err)
	}

	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return errPersistence("update password", err)
	}
	return nil
}

func (s *AuthService) issueToken(user *usermodel.User) (*usermodel.AuthResponse, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, oops.Code(CodePersistence).With("operation", "sign token").Wrap(err)
	}

	return &usermodel.AuthResponse{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func resetEmailBody(resetURL string) string {
	return fmt.Sprintf("You are receiving this email because you (or someone else) has requested the reset of a password. "+
		"Please make a PUT request to: \n\n %s", resetURL)
}
