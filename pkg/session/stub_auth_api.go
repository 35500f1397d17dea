package session

import (
	"context"

	"github.com/finview/finview/pkg/user"
)

// StubAuthAPI is a scriptable AuthAPI for tests.
type StubAuthAPI struct {
	RegisterResponse AuthResponse
	RegisterErr      error
	LoginResponse    AuthResponse
	LoginErr         error
	LogoutErr        error
	RefreshResponse  AuthResponse
	RefreshErr       error
	UserResponse     user.User
	UserErr          error
	AccountsResponse []user.ActiveAccount
	AccountsErr      error
	SwitchResponse   AuthResponse
	SwitchErr        error

	LogoutCalls int
	SwitchedTo  []string
}

func (s *StubAuthAPI) Register(ctx context.Context, email, password, name string) (AuthResponse, error) {
	return s.RegisterResponse, s.RegisterErr
}

func (s *StubAuthAPI) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	return s.LoginResponse, s.LoginErr
}

func (s *StubAuthAPI) Logout(ctx context.Context) error {
	s.LogoutCalls++
	return s.LogoutErr
}

func (s *StubAuthAPI) RefreshToken(ctx context.Context, refreshToken string) (AuthResponse, error) {
	return s.RefreshResponse, s.RefreshErr
}

func (s *StubAuthAPI) GetUser(ctx context.Context) (user.User, error) {
	return s.UserResponse, s.UserErr
}

func (s *StubAuthAPI) GetActiveAccounts(ctx context.Context) ([]user.ActiveAccount, error) {
	return s.AccountsResponse, s.AccountsErr
}

func (s *StubAuthAPI) SwitchAccount(ctx context.Context, accountID string) (AuthResponse, error) {
	s.SwitchedTo = append(s.SwitchedTo, accountID)
	return s.SwitchResponse, s.SwitchErr
}
