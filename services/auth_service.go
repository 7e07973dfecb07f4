package services

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/models"
	"github.com/bhataakib02/retail-app/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput is a self-service signup.
type RegisterInput struct {
	Username string `validate:"required,max=150"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,max=72"`
}

// UserUpdate is what an admin may change on an account.
type UserUpdate struct {
	Username string `validate:"required,max=150"`
	Email    string `validate:"required,email,max=255"`
}

type AuthService struct {
	users     repository.UserRepository
	validate  *validator.Validate
	cost      int
	dummyHash []byte
	log       *zap.Logger
}

// NewAuthService creates the account service. cost is the bcrypt work factor.
func NewAuthService(users repository.UserRepository, cost int, log *zap.Logger) *AuthService {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	// compared against when the email is unknown so both failure paths cost the same
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &AuthService{
		users:     users,
		validate:  newValidator(),
		cost:      cost,
		dummyHash: dummy,
		log:       log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user account with role "user".
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperrors.ErrInternalServer.Wrap(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		s.log.Error("Failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.ErrDatabaseQuery.WithMessage("Registration failed").Wrap(err)
	}

	s.log.Info("User registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Authenticate checks credentials. Unknown email and wrong password both
// yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}
	return users, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

// UpdateUser changes username and email only.
func (s *AuthService) UpdateUser(ctx context.Context, id uint, in UserUpdate) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return validationError(err)
	}

	if err := s.users.Update(ctx, id, in.Username, in.Email); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrEmailTaken
		}
		return notFoundOr(err, "User not found")
	}
	return nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOr(err, "User not found")
	}
	s.log.Info("User deleted", zap.Uint("user_id", id))
	return nil
}

// notFoundOr maps gorm's not-found to a 404 and everything else to a query error.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound.WithMessage(msg)
	}
	return apperrors.ErrDatabaseQuery.Wrap(err)
}
