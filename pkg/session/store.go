package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/finview/finview/internal/eventbus"
	"github.com/finview/finview/pkg/api"
	"github.com/finview/finview/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// ErrNoTokenReceived means a token-issuing endpoint answered without a token.
var ErrNoTokenReceived = errors.New("no token received")

// Store holds the authentication state of the process: the signed-in user,
// the list of linked accounts, and whether the initial probe has finished.
// It is constructed once and passed explicitly to whoever needs it.
//
// The persisted token and the current user move together: after every
// operation either both are present (authenticated) or both are absent. Only
// the loading flag distinguishes "not yet known" from "known unauthenticated".
type Store struct {
	authAPI     AuthAPI
	client      *api.Client
	bus         *eventbus.Bus
	mediaOrigin string

	mu             sync.RWMutex
	currentUser    *user.User
	authenticated  bool
	activeAccounts []user.ActiveAccount
	loading        bool
}

func NewStore(authAPI AuthAPI, client *api.Client, bus *eventbus.Bus, mediaOrigin string) *Store {
	return &Store{
		authAPI:     authAPI,
		client:      client,
		bus:         bus,
		mediaOrigin: mediaOrigin,
		loading:     true,
	}
}

// CurrentUser returns a copy of the signed-in user, if any.
func (s *Store) CurrentUser() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return user.User{}, false
	}
	return *s.currentUser, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Store) ActiveAccounts() []user.ActiveAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]user.ActiveAccount, len(s.activeAccounts))
	copy(accounts, s.activeAccounts)
	return accounts
}

// Loading reports whether the initial authentication probe is still running.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// CheckAuth runs once at startup. When a token is persisted it probes the
// service for the current user and the linked accounts; any failure discards
// the token and leaves the session unauthenticated. The loading flag is
// cleared on completion either way.
func (s *Store) CheckAuth(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if !s.client.HasToken() {
		return
	}

	u, err := s.authAPI.GetUser(ctx)
	if err != nil {
		log.Errorf("Authentication check failed: %v", err)
		s.discardSession()
		return
	}
	accounts, err := s.authAPI.GetActiveAccounts(ctx)
	if err != nil {
		log.Errorf("Authentication check failed: %v", err)
		s.discardSession()
		return
	}

	u = user.NormalizeAvatarURL(u, s.mediaOrigin)
	s.mu.Lock()
	s.currentUser = &u
	s.authenticated = true
	s.activeAccounts = accounts
	s.mu.Unlock()
}

// Login exchanges credentials for a token. A rejection is reported through a
// failure notification and otherwise swallowed: the session simply stays
// unauthenticated and the caller checks IsAuthenticated before proceeding.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.authAPI.Login(ctx, email, password)
	if err == nil && resp.Token == "" {
		err = fmt.Errorf("login failed: %w", ErrNoTokenReceived)
	}
	if err == nil {
		err = s.client.SetToken(&oauth2.Token{AccessToken: resp.Token})
	}

	var u user.User
	if err == nil {
		u, err = s.authAPI.GetUser(ctx)
	}

	if err != nil {
		log.Errorf("Login failed: %v", err)
		s.notifyFailure(ctx, "Login Failed", "Invalid email or password. Please try again.")
		return nil
	}

	u = user.NormalizeAvatarURL(u, s.mediaOrigin)
	s.mu.Lock()
	s.currentUser = &u
	s.authenticated = true
	s.mu.Unlock()

	s.notifySuccess(ctx, "Login Successful", fmt.Sprintf("Welcome back, %s!", u.Name))
	return nil
}

// Register creates an account and signs it in. Unlike Login, a rejection is
// both reported through a notification and returned to the caller.
func (s *Store) Register(ctx context.Context, email, password, name string) error {
	resp, err := s.authAPI.Register(ctx, email, password, name)
	if err == nil && resp.Token == "" {
		err = fmt.Errorf("registration failed: %w", ErrNoTokenReceived)
	}
	if err == nil {
		err = s.client.SetToken(&oauth2.Token{AccessToken: resp.Token})
	}
	if err != nil {
		log.Errorf("Registration failed: %v", err)
		s.notifyFailure(ctx, "Registration Failed", "Could not create your account. Please try again.")
		return err
	}

	u := user.NormalizeAvatarURL(resp.User, s.mediaOrigin)
	s.mu.Lock()
	s.currentUser = &u
	s.authenticated = true
	s.activeAccounts = []user.ActiveAccount{
		{
			ID:       resp.User.ID,
			Email:    resp.User.Email,
			Name:     resp.User.Name,
			Avatar:   resp.User.Avatar,
			IsActive: true,
		},
	}
	s.mu.Unlock()

	s.notifySuccess(ctx, "Registration Successful", "Your account has been created successfully!")
	return nil
}

// Logout tells the service best-effort and then resets the session no matter
// what the service answered.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.authAPI.Logout(ctx); err != nil {
		log.Errorf("Logout failed: %v", err)
	}

	s.discardSession()
	s.notifySuccess(ctx, "Logout Successful", "You have been logged out successfully.")
	return nil
}

// SwitchAccount exchanges the target account id for a new token and refreshes
// the current user. The activeAccounts list keeps its previous isActive
// markers until the next full probe.
func (s *Store) SwitchAccount(ctx context.Context, accountID string) error {
	resp, err := s.authAPI.SwitchAccount(ctx, accountID)
	if err == nil && resp.Token == "" {
		err = fmt.Errorf("account switch failed: %w", ErrNoTokenReceived)
	}
	if err == nil {
		err = s.client.SetToken(&oauth2.Token{AccessToken: resp.Token})
	}

	var u user.User
	if err == nil {
		u, err = s.authAPI.GetUser(ctx)
	}

	if err != nil {
		log.Errorf("Account switch failed: %v", err)
		s.notifyFailure(ctx, "Account Switch Failed", "Could not switch accounts. Please try again.")
		return nil
	}

	u = user.NormalizeAvatarURL(u, s.mediaOrigin)
	s.mu.Lock()
	s.currentUser = &u
	s.authenticated = true
	s.mu.Unlock()

	s.notifySuccess(ctx, "Account Switched", fmt.Sprintf("You are now using %s's account.", u.Name))
	return nil
}

// SetCurrentUser replaces the current user record. Used by the settings
// flows after a successful profile or preference update.
func (s *Store) SetCurrentUser(u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUser = &u
}

// UpdateCurrentUser applies a function of the previous record, the updater
// form of SetCurrentUser. The updater receives nil when no user is signed in
// and its result replaces the record (nil clears it).
func (s *Store) UpdateCurrentUser(update func(prev *user.User) *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var prev *user.User
	if s.currentUser != nil {
		copied := *s.currentUser
		prev = &copied
	}
	s.currentUser = update(prev)
}

// discardSession clears the persisted token and resets all session state.
func (s *Store) discardSession() {
	if err := s.client.ClearToken(); err != nil {
		log.Errorf("failed to clear token: %v", err)
	}
	s.mu.Lock()
	s.currentUser = nil
	s.authenticated = false
	s.activeAccounts = nil
	s.mu.Unlock()
}

func (s *Store) notifySuccess(ctx context.Context, title, description string) {
	s.notify(ctx, eventbus.NotificationSuccess, title, description)
}

func (s *Store) notifyFailure(ctx context.Context, title, description string) {
	s.notify(ctx, eventbus.NotificationFailure, title, description)
}

func (s *Store) notify(ctx context.Context, variant eventbus.NotificationVariant, title, description string) {
	event := eventbus.NewEvent(ctx, eventbus.NotificationEvent, eventbus.Notification{
		Variant:     variant,
		Title:       title,
		Description: description,
	})
	if err := s.bus.Publish(event); err != nil {
		log.Errorf("failed to publish notification: %v", err)
	}
}
