package user

import (
	"context"
	"fmt"
	"io"

	"github.com/finview/finview/internal/eventbus"
	"github.com/finview/finview/pkg/api"
	log "github.com/sirupsen/logrus"
)

// Service covers the account-settings flows: profile, password, and
// preference updates. Failures are reported to the user via notification and
// returned to the caller, which decides whether to keep the previous state.
type Service interface {
	UpdateUser(ctx context.Context, u User) (User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error)
	ChangePassword(ctx context.Context, current, updated string) error
	UpdatePreferences(ctx context.Context, prefs Preferences) (User, error)
}

// ProfileUpdate is the multipart payload of the profile endpoint. Avatar is
// optional; when nil only the text fields are sent.
type ProfileUpdate struct {
	Name       string
	Email      string
	Avatar     io.Reader
	AvatarName string
}

type ServiceImpl struct {
	client      *api.Client
	bus         *eventbus.Bus
	mediaOrigin string
}

func NewService(client *api.Client, bus *eventbus.Bus, mediaOrigin string) *ServiceImpl {
	return &ServiceImpl{client: client, bus: bus, mediaOrigin: mediaOrigin}
}

func (s *ServiceImpl) UpdateUser(ctx context.Context, u User) (User, error) {
	var updated User
	if err := s.client.Put(ctx, "/auth/user/", u, &updated); err != nil {
		s.notifyFailure(ctx, "Update Failed", "Could not update your account. Please try again.")
		return User{}, fmt.Errorf("failed to update user: %w", err)
	}
	updated = NormalizeAvatarURL(updated, s.mediaOrigin)
	s.notifySuccess(ctx, "Account Updated", "Your account has been updated.")
	return updated, nil
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error) {
	fields := map[string]string{}
	if update.Name != "" {
		fields["name"] = update.Name
	}
	if update.Email != "" {
		fields["email"] = update.Email
	}

	var updated User
	err := s.client.PutMultipart(ctx, "/auth/profile/update/", fields, "avatar", update.AvatarName, update.Avatar, &updated)
	if err != nil {
		s.notifyFailure(ctx, "Profile Update Failed", "Could not update your profile. Please try again.")
		return User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	updated = NormalizeAvatarURL(updated, s.mediaOrigin)
	s.notifySuccess(ctx, "Profile Updated", "Your profile has been updated.")
	return updated, nil
}

func (s *ServiceImpl) ChangePassword(ctx context.Context, current, updated string) error {
	body := map[string]string{
		"current_password": current,
		"new_password":     updated,
	}
	if err := s.client.Post(ctx, "/auth/password/change/", body, nil); err != nil {
		s.notifyFailure(ctx, "Password Change Failed", "Could not change your password. Please try again.")
		return fmt.Errorf("failed to change password: %w", err)
	}
	s.notifySuccess(ctx, "Password Changed", "Your password has been changed.")
	return nil
}

func (s *ServiceImpl) UpdatePreferences(ctx context.Context, prefs Preferences) (User, error) {
	body := map[string]Preferences{"preferences": prefs}
	var updated User
	if err := s.client.Put(ctx, "/auth/preferences/update/", body, &updated); err != nil {
		s.notifyFailure(ctx, "Preferences Update Failed", "Could not save your preferences. Please try again.")
		return User{}, fmt.Errorf("failed to update preferences: %w", err)
	}
	updated = NormalizeAvatarURL(updated, s.mediaOrigin)
	s.notifySuccess(ctx, "Preferences Saved", "Your preferences have been saved.")
	return updated, nil
}

func (s *ServiceImpl) notifySuccess(ctx context.Context, title, description string) {
	s.notify(ctx, eventbus.NotificationSuccess, title, description)
}

func (s *ServiceImpl) notifyFailure(ctx context.Context, title, description string) {
	s.notify(ctx, eventbus.NotificationFailure, title, description)
}

func (s *ServiceImpl) notify(ctx context.Context, variant eventbus.NotificationVariant, title, description string) {
	event := eventbus.NewEvent(ctx, eventbus.NotificationEvent, eventbus.Notification{
		Variant:     variant,
		Title:       title,
		Description: description,
	})
	if err := s.bus.Publish(event); err != nil {
		log.Errorf("failed to publish notification: %v", err)
	}
}
