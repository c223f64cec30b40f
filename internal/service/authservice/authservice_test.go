package authservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/startrader/backend/internal/domain"
	"github.com/startrader/backend/pkg/auth"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *auth.MockHashServiceInterface, *auth.MockJWTServiceInterface) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockRepo(ctrl)
	mockHashService := auth.NewMockHashServiceInterface(ctrl)
	mockJWTService := auth.NewMockJWTServiceInterface(ctrl)
	svc := New(mockRepo, mockHashService, mockJWTService)

	return svc, mockRepo, mockHashService, mockJWTService
}

func TestService_Register(t *testing.T) {
	svc, repo, hashService, _ := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		fullName  string
		email     string
		password  string
		mockSetup func()
		wantErr   error
	}{
		{
			name:     "Successfully registers user",
			fullName: "John Doe",
			email:    "john@example.com",
			password: "password123",
			mockSetup: func() {
				repo.EXPECT().FindByEmail(ctx, "john@example.com").Return(nil, nil)
				hashService.EXPECT().HashPassword("password123").Return("hashed", nil)
				repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
					func(_ context.Context, user *domain.User) (*domain.User, error) {
						assert.Equal(t, "hashed", user.PasswordHash)
						assert.Equal(t, RoleUser, user.Role)
						assert.Equal(t, StatusActive, user.Status)
						assert.Equal(t, 0.0, user.Balance)
						user.ID = 1
						return user, nil
					})
			},
			wantErr: nil,
		},
		{
			name:     "Email already registered",
			fullName: "John Doe",
			email:    "john@example.com",
			password: "password123",
			mockSetup: func() {
				repo.EXPECT().FindByEmail(ctx, "john@example.com").Return(&domain.User{ID: 1, Email: "john@example.com"}, nil)
			},
			wantErr: ErrEmailTaken,
		},
		{
			name:     "Hashing error",
			fullName: "John Doe",
			email:    "john@example.com",
			password: "password123",
			mockSetup: func() {
				repo.EXPECT().FindByEmail(ctx, "john@example.com").Return(nil, nil)
				hashService.EXPECT().HashPassword("password123").Return("", errors.New("hashing error"))
			},
			wantErr: errors.New("hashing error"),
		},
		{
			name:     "Repository error",
			fullName: "John Doe",
			email:    "john@example.com",
			password: "password123",
			mockSetup: func() {
				repo.EXPECT().FindByEmail(ctx, "john@example.com").Return(nil, nil)
				hashService.EXPECT().HashPassword("password123").Return("hashed", nil)
				repo.EXPECT().Create(ctx, gomock.Any()).Return(nil, errors.New("database error"))
			},
			wantErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			user, err := svc.Register(ctx, tt.fullName, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, 1, user.ID)
			}
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	svc, repo, hashService, _ := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		email     string
		password  string
		mockSetup func()
		wantErr   error
	}{
		{
			name:     "Successfully authenticates",
			email:    "john@example.com",
			password: "password123",
			mockSetup: func() {
				repo.EXPECT().FindByEmail(ctx, "john@example.com").Return(&domain.User{ID: 1, PasswordHash: "hashed"}, nil)
				hashService.EXPECT().ComparePassword("hashed", "password123").Return(true)
			},
			wantErr: nil,
		},
		{
			name:     "Unknown email",
			email:    "missing@example.com",
			password: "password123",
			mockSetup: func() {
				repo.EXPECT().FindByEmail(ctx, "missing@example.com").Return(nil, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "Wrong password",
			email:    "john@example.com",
			password: "wrong",
			mockSetup: func() {
				repo.EXPECT().FindByEmail(ctx, "john@example.com").Return(&domain.User{ID: 1, PasswordHash: "hashed"}, nil)
				hashService.EXPECT().ComparePassword("hashed", "wrong").Return(false)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "Repository error",
			email:    "john@example.com",
			password: "password123",
			mockSetup: func() {
				repo.EXPECT().FindByEmail(ctx, "john@example.com").Return(nil, errors.New("database error"))
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			user, err := svc.Authenticate(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
			}
		})
	}
}

func TestService_GenerateToken(t *testing.T) {
	svc, _, _, jwtService := NewMock(t)

	tests := []struct {
		name      string
		userID    int
		role      string
		mockSetup func()
		expectErr bool
		token     string
	}{
		{
			name:   "Successfully generates token",
			userID: 1,
			role:   RoleUser,
			mockSetup: func() {
				jwtService.EXPECT().GenerateJWT(1, RoleUser, gomock.AssignableToTypeOf(time.Time{})).Return("token", nil)
			},
			token: "token",
		},
		{
			name:   "Signing error",
			userID: 1,
			role:   RoleAdmin,
			mockSetup: func() {
				jwtService.EXPECT().GenerateJWT(1, RoleAdmin, gomock.AssignableToTypeOf(time.Time{})).Return("", errors.New("signing error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			token, err := svc.GenerateToken(tt.userID, tt.role)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.token, token)
			}
		})
	}
}

func TestService_GetUser(t *testing.T) {
	svc, repo, _, _ := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    int
		mockSetup func()
		wantErr   error
	}{
		{
			name:   "Returns user",
			userID: 1,
			mockSetup: func() {
				repo.EXPECT().FindByID(ctx, 1).Return(&domain.User{ID: 1}, nil)
			},
		},
		{
			name:   "Non-existing user",
			userID: 99,
			mockSetup: func() {
				repo.EXPECT().FindByID(ctx, 99).Return(nil, nil)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:   "Repository error",
			userID: 1,
			mockSetup: func() {
				repo.EXPECT().FindByID(ctx, 1).Return(nil, errors.New("database error"))
			},
			wantErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			user, err := svc.GetUser(ctx, tt.userID)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
			}
		})
	}
}

func TestService_GetUsers(t *testing.T) {
	svc, repo, _, _ := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		count     int
	}{
		{
			name: "Returns users",
			mockSetup: func() {
				repo.EXPECT().FindAll(ctx).Return([]domain.User{{ID: 1}, {ID: 2}}, nil)
			},
			count: 2,
		},
		{
			name: "Repository error",
			mockSetup: func() {
				repo.EXPECT().FindAll(ctx).Return(nil, errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			users, err := svc.GetUsers(ctx)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, users, tt.count)
			}
		})
	}
}

func TestService_DeleteUser(t *testing.T) {
	svc, repo, _, _ := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    int
		mockSetup func()
		wantErr   error
	}{
		{
			name:   "Successfully deletes user",
			userID: 1,
			mockSetup: func() {
				repo.EXPECT().Delete(ctx, 1).Return(true, nil)
			},
		},
		{
			name:   "Non-existing user",
			userID: 99,
			mockSetup: func() {
				repo.EXPECT().Delete(ctx, 99).Return(false, nil)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:   "Repository error",
			userID: 1,
			mockSetup: func() {
				repo.EXPECT().Delete(ctx, 1).Return(false, errors.New("database error"))
			},
			wantErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := svc.DeleteUser(ctx, tt.userID)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
