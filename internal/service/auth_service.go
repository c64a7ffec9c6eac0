package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/northsea/kiteschool/internal/auth"
	"github.com/northsea/kiteschool/internal/model"
)

type AuthService struct {
	users  UserStore
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewAuthService(users UserStore, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

type RegisterInput struct {
	Email              string
	Password           string
	FirstName          string
	LastName           string
	Phone              string
	Role               model.UserRole
	LanguagePreference string
}

// Register creates a user account and issues a session token. A second
// registration with the same email fails with Conflict.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, "", &model.ValidationError{Field: "email", Msg: "invalid email address"}
	}
	if input.Password == "" {
		return nil, "", &model.ValidationError{Field: "password", Msg: "password is required"}
	}
	if input.Role == "" {
		input.Role = model.RoleCustomer
	}
	if !input.Role.Valid() {
		return nil, "", &model.ValidationError{Field: "role", Msg: "unknown role"}
	}
	if input.LanguagePreference == "" {
		input.LanguagePreference = "en"
	}

	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, "", fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", &model.ConflictError{Reason: "email already registered"}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		ID:                 uuid.NewString(),
		Email:              input.Email,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Phone:              input.Phone,
		Role:               input.Role,
		LanguagePreference: input.LanguagePreference,
		IsActive:           true,
		PasswordHash:       hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	return user, token, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", &model.ForbiddenError{Reason: "incorrect email or password"}
	}

	if !user.IsActive {
		return nil, "", &model.ForbiddenError{Reason: "account is inactive"}
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))

	return user, token, nil
}

// CurrentUser returns the authenticated actor's own record.
func (s *AuthService) CurrentUser(ctx context.Context, actorID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, &model.NotFoundError{Resource: "user"}
	}
	return user, nil
}
