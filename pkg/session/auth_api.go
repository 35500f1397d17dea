package session

import (
	"context"
	"fmt"

	"github.com/finview/finview/pkg/api"
	"github.com/finview/finview/pkg/user"
)

// AuthResponse is what the service returns from the token-issuing endpoints.
type AuthResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

// AuthAPI wraps the authentication endpoints of the service.
type AuthAPI interface {
	Register(ctx context.Context, email, password, name string) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context, refreshToken string) (AuthResponse, error)
	GetUser(ctx context.Context) (user.User, error)
	GetActiveAccounts(ctx context.Context) ([]user.ActiveAccount, error)
	SwitchAccount(ctx context.Context, accountID string) (AuthResponse, error)
}

type AuthAPIImpl struct {
	client *api.Client
}

func NewAuthAPI(client *api.Client) *AuthAPIImpl {
	return &AuthAPIImpl{client: client}
}

func (a *AuthAPIImpl) Register(ctx context.Context, email, password, name string) (AuthResponse, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var resp AuthResponse
	if err := a.client.Post(ctx, "/auth/register/", body, &resp); err != nil {
		return AuthResponse{}, fmt.Errorf("registration request failed: %w", err)
	}
	return resp, nil
}

func (a *AuthAPIImpl) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := a.client.Post(ctx, "/auth/login/", body, &resp); err != nil {
		return AuthResponse{}, fmt.Errorf("login request failed: %w", err)
	}
	return resp, nil
}

func (a *AuthAPIImpl) Logout(ctx context.Context) error {
	return a.client.Post(ctx, "/auth/logout/", nil, nil)
}

// RefreshToken exchanges a refresh token for a new access token. The sign-in
// flows never persist a refresh token, so nothing calls this today.
func (a *AuthAPIImpl) RefreshToken(ctx context.Context, refreshToken string) (AuthResponse, error) {
	body := map[string]string{"refresh": refreshToken}
	var resp AuthResponse
	if err := a.client.Post(ctx, "/auth/token/refresh/", body, &resp); err != nil {
		return AuthResponse{}, fmt.Errorf("token refresh failed: %w", err)
	}
	return resp, nil
}

func (a *AuthAPIImpl) GetUser(ctx context.Context) (user.User, error) {
	var u user.User
	if err := a.client.Get(ctx, "/auth/user/", nil, &u); err != nil {
		return user.User{}, fmt.Errorf("failed to fetch current user: %w", err)
	}
	return u, nil
}

func (a *AuthAPIImpl) GetActiveAccounts(ctx context.Context) ([]user.ActiveAccount, error) {
	var accounts []user.ActiveAccount
	if err := a.client.Get(ctx, "/auth/active-accounts/", nil, &accounts); err != nil {
		return nil, fmt.Errorf("failed to fetch linked accounts: %w", err)
	}
	return accounts, nil
}

func (a *AuthAPIImpl) SwitchAccount(ctx context.Context, accountID string) (AuthResponse, error) {
	body := map[string]string{"account_id": accountID}
	var resp AuthResponse
	if err := a.client.Post(ctx, "/auth/switch-account/", body, &resp); err != nil {
		return AuthResponse{}, fmt.Errorf("account switch request failed: %w", err)
	}
	return resp, nil
}
