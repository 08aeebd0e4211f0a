package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user with this email or username already exists")
	ErrInvalidCredentials = errors.New("invalid email/username or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// ResetTokenTTL is how long a password reset link stays valid
const ResetTokenTTL = time.Hour

// Service handles registration, login and password resets
type Service struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	bcryptCost int
	now        func() time.Time
}

// NewService creates a new authentication service
func NewService(users repository.UserRepository, resets repository.PasswordResetRepository) *Service {
	return &Service{
		users:      users,
		resets:     resets,
		bcryptCost: bcrypt.DefaultCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RegisterRequest represents native registration request
type RegisterRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=30"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     string  `json:"phone" binding:"required,min=10"`
	Password  string  `json:"password" binding:"required,min=6"`
	FirstName *string `json:"firstName" binding:"omitempty,max=50"`
	LastName  *string `json:"lastName" binding:"omitempty,max=50"`
}

// LoginRequest accepts either an email or a username as the identifier
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Register creates a user with a bcrypt password hash
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(req.Phone)
	user := &models.User{
		Username:     username,
		Email:        email,
		Phone:        &phone,
		PasswordHash: &hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Log.Info("User registered", logger.WithUserID(user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login verifies the password for an email or username. Unknown users, accounts
// without a password and wrong passwords all return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	user, err := s.users.GetUserByIdentifier(ctx, strings.TrimSpace(req.Identifier))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser loads a user by id
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUser(ctx, userID)
}

// RequestPasswordReset issues a one-hour token. It returns (nil, nil, nil) for an
// unknown email so callers can answer identically either way.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (*models.PasswordReset, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	token, err := GenerateToken()
	if err != nil {
		return nil, nil, err
	}

	reset := &models.PasswordReset{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: s.now().Add(ResetTokenTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return nil, nil, fmt.Errorf("failed to create reset token: %w", err)
	}
	return reset, user, nil
}

// ValidateResetToken reports whether the token is unused and unexpired
func (s *Service) ValidateResetToken(ctx context.Context, token string) error {
	_, err := s.resets.GetValid(ctx, token, s.now())
	if errors.Is(err, repository.ErrResetTokenInvalid) {
		return ErrInvalidResetToken
	}
	return err
}

// ResetPassword sets a new password and marks the token used
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	reset, err := s.resets.GetValid(ctx, token, s.now())
	if errors.Is(err, repository.ErrResetTokenInvalid) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, reset.UserID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.resets.MarkUsed(ctx, reset.ID); err != nil {
		// password is already updated
		logger.Log.Warn("Failed to mark reset token as used", zap.String("reset_id", reset.ID), zap.Error(err))
	}
	return nil
}

// FindOrCreateGoogleUser links a Google identity to the account with the same
// email, creating one when none exists. Missing name and image fields are filled in.
func (s *Service) FindOrCreateGoogleUser(ctx context.Context, info *GoogleUserInfo) (*models.User, error) {
	if info == nil || info.Email == "" {
		return nil, errors.New("google profile has no email")
	}

	user, err := s.users.GetUserByGoogleID(ctx, info.Sub)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = s.users.GetUserByEmail(ctx, info.Email)
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		user = &models.User{
			Username: generateUsername(info.GivenName, s.now()),
			Email:    info.Email,
		}
		applyGoogleProfile(user, info)
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		logger.Log.Info("User created from Google sign-in", logger.WithUserID(user.ID))
		return user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if applyGoogleProfile(user, info) {
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}
	return user, nil
}

// applyGoogleProfile fills only empty fields and reports whether anything changed
func applyGoogleProfile(user *models.User, info *GoogleUserInfo) bool {
	changed := false
	fill := func(dst **string, value string) {
		if value != "" && (*dst == nil || **dst == "") {
			v := value
			*dst = &v
			changed = true
		}
	}
	fill(&user.GoogleID, info.Sub)
	fill(&user.FirstName, info.GivenName)
	fill(&user.LastName, info.FamilyName)
	fill(&user.ProfileImageURL, info.Picture)
	return changed
}

func generateUsername(givenName string, now time.Time) string {
	base := strings.ToLower(strings.Join(strings.Fields(givenName), ""))
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s%d", base, now.UnixMilli())
}

func (s *Service) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
