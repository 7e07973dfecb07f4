package services

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestAuthService(repo *MockUserRepository) *AuthService {
	return NewAuthService(repo, bcrypt.MinCost, zap.NewNop())
}

func TestRegisterThenAuthenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestAuthService(mockRepo)
	ctx := context.Background()

	var stored *models.User
	mockRepo.On("FindByEmail", ctx, "a@x.io").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.User)
			stored.ID = 1
		}).
		Return(nil).Once()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.io", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "pw1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("pw1")))

	mockRepo.On("FindByEmail", ctx, "a@x.io").Return(stored, nil)

	got, err := svc.Authenticate(ctx, "a@x.io", "pw1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.ID)
	assert.Equal(t, models.RoleUser, got.Role)

	_, err = svc.Authenticate(ctx, "a@x.io", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	mockRepo.AssertExpectations(t)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByEmail", ctx, "a@x.io").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool { return u.Email == "a@x.io" })).Return(nil).Once()

	_, err := svc.Register(ctx, RegisterInput{Username: " alice ", Email: "  A@X.io ", Password: "pw1"})
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByEmail", ctx, "a@x.io").Return(&models.User{ID: 1, Email: "a@x.io"}, nil).Once()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.io", Password: "pw1"})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_UniqueViolationRace(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByEmail", ctx, "a@x.io").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("Create", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey).Once()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.io", Password: "pw1"})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestRegister_OtherIntegrityErrorIsGeneric(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByEmail", ctx, "a@x.io").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("check constraint violated")).Once()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.io", Password: "pw1"})
	assert.ErrorIs(t, err, apperrors.ErrDatabaseQuery)
	assert.Equal(t, "Registration failed", apperrors.From(err).Message)
}

func TestRegister_ValidationWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing username", RegisterInput{Email: "a@x.io", Password: "pw"}},
		{"bad email", RegisterInput{Username: "alice", Email: "not-an-email", Password: "pw"}},
		{"missing password", RegisterInput{Username: "alice", Email: "a@x.io"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			svc := newTestAuthService(mockRepo)

			_, err := svc.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthenticate_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByEmail", ctx, "ghost@x.io").Return(nil, gorm.ErrRecordNotFound).Once()

	_, err := svc.Authenticate(ctx, "ghost@x.io", "pw")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthenticate_DatabaseDown(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByEmail", ctx, "a@x.io").Return(nil, errors.New("connection refused")).Once()

	_, err := svc.Authenticate(ctx, "a@x.io", "pw")
	assert.ErrorIs(t, err, apperrors.ErrDatabaseQuery)
}

func TestUpdateUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Update", ctx, uint(2), "bob", "bob@x.io").Return(nil).Once()
	mockRepo.On("Update", ctx, uint(3), "carl", "carl@x.io").Return(gorm.ErrRecordNotFound).Once()

	require.NoError(t, svc.UpdateUser(ctx, 2, UserUpdate{Username: "bob", Email: "bob@x.io"}))

	err := svc.UpdateUser(ctx, 3, UserUpdate{Username: "carl", Email: "carl@x.io"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = svc.UpdateUser(ctx, 2, UserUpdate{Username: "bob", Email: "nope"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, uint(9)).Return(gorm.ErrRecordNotFound).Once()

	err := svc.DeleteUser(ctx, 9)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "User not found", apperrors.From(err).Message)
}
