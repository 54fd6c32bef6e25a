package http_test

import (
	"context"

	"inkq/internal/auth/domain/model"
	"inkq/internal/auth/usecase"

	"github.com/stretchr/testify/mock"
)

// mockAuthUsecase is a shared mock type for the AuthUsecaseInterface
type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) SignUp(ctx context.Context, req usecase.SignUpRequest, client model.ClientInfo) (*model.User, string, error) {
	args := m.Called(ctx, req, client)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *mockAuthUsecase) SignIn(ctx context.Context, req usecase.SignInRequest, client model.ClientInfo) (*model.User, string, error) {
	args := m.Called(ctx, req, client)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *mockAuthUsecase) ResolveToken(ctx context.Context, token string) (usecase.Resolution, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(usecase.Resolution), args.Error(1)
}

func (m *mockAuthUsecase) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockAuthUsecase) RevokeUserSessions(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockAuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
