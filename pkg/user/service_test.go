package user

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/finview/finview/internal/eventbus"
	"github.com/finview/finview/internal/storage"
	"github.com/finview/finview/internal/testutil"
	"github.com/finview/finview/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testMediaOrigin = "http://0.0.0.0:8000"

func setupUserTest(t *testing.T) (*ServiceImpl, *testutil.FakeFinanceServer, *testutil.NotificationRecorder) {
	server := testutil.NewFakeFinanceServer()
	t.Cleanup(server.Close)

	bus := eventbus.New()
	notifications := testutil.RecordNotifications(bus)

	creds := storage.NewCredentialsStore(filepath.Join(t.TempDir(), "credentials.json"))
	client := api.NewClient(server.URL, 5*time.Second, creds, bus)
	server.SetValidToken("tok")
	require.NoError(t, client.SetToken(&oauth2.Token{AccessToken: "tok"}))

	return NewService(client, bus, testMediaOrigin), server, notifications
}

func TestServiceImpl_UpdateUser(t *testing.T) {
	t.Run("updates the account and normalizes the returned avatar", func(t *testing.T) {
		service, server, notifications := setupUserTest(t)
		server.Handle(http.MethodPut, "/auth/user/", http.StatusOK, map[string]any{
			"id": "u1", "email": "new@x.com", "name": "New Name", "avatar": "/media/u1.png",
		})

		updated, err := service.UpdateUser(context.Background(), User{ID: "u1", Email: "new@x.com", Name: "New Name"})
		require.NoError(t, err)
		assert.Equal(t, "New Name", updated.Name)
		assert.Equal(t, testMediaOrigin+"/media/u1.png", updated.Avatar)

		last, ok := notifications.Last()
		require.True(t, ok)
		assert.Equal(t, eventbus.NotificationSuccess, last.Variant)
		assert.Equal(t, "Account Updated", last.Title)
	})

	t.Run("a failure notifies and is returned to the caller", func(t *testing.T) {
		service, server, notifications := setupUserTest(t)
		server.Handle(http.MethodPut, "/auth/user/", http.StatusInternalServerError, map[string]string{"error": "boom"})

		_, err := service.UpdateUser(context.Background(), User{ID: "u1"})
		require.Error(t, err)

		last, ok := notifications.Last()
		require.True(t, ok)
		assert.Equal(t, eventbus.NotificationFailure, last.Variant)
		assert.Equal(t, "Update Failed", last.Title)
	})
}

func TestServiceImpl_UpdateProfile(t *testing.T) {
	t.Run("sends the fields and the avatar file as multipart", func(t *testing.T) {
		service, server, notifications := setupUserTest(t)

		var gotName, gotEmail, gotFile, gotFileName string
		server.HandleFunc(http.MethodPut, "/auth/profile/update/", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			gotName = r.FormValue("name")
			gotEmail = r.FormValue("email")
			if file, header, err := r.FormFile("avatar"); err == nil {
				data, _ := io.ReadAll(file)
				file.Close()
				gotFile = string(data)
				gotFileName = header.Filename
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"id": "u1", "email": gotEmail, "name": gotName, "avatar": "/media/u1/me.png",
			})
		})

		updated, err := service.UpdateProfile(context.Background(), ProfileUpdate{
			Name:       "New Name",
			Email:      "new@x.com",
			Avatar:     strings.NewReader("png-bytes"),
			AvatarName: "me.png",
		})
		require.NoError(t, err)

		assert.Equal(t, "New Name", gotName)
		assert.Equal(t, "new@x.com", gotEmail)
		assert.Equal(t, "png-bytes", gotFile)
		assert.Equal(t, "me.png", gotFileName)
		assert.Equal(t, testMediaOrigin+"/media/u1/me.png", updated.Avatar)

		last, ok := notifications.Last()
		require.True(t, ok)
		assert.Equal(t, eventbus.NotificationSuccess, last.Variant)
		assert.Equal(t, "Profile Updated", last.Title)
	})

	t.Run("omits the file part when no avatar is given", func(t *testing.T) {
		service, server, _ := setupUserTest(t)

		fileSent := false
		server.HandleFunc(http.MethodPut, "/auth/profile/update/", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if _, _, err := r.FormFile("avatar"); err == nil {
				fileSent = true
			}
			writeUser(w, r.FormValue("name"))
		})

		_, err := service.UpdateProfile(context.Background(), ProfileUpdate{Name: "Only Name"})
		require.NoError(t, err)
		assert.False(t, fileSent)
	})

	t.Run("a failure notifies and is returned to the caller", func(t *testing.T) {
		service, server, notifications := setupUserTest(t)
		server.Handle(http.MethodPut, "/auth/profile/update/", http.StatusInternalServerError, map[string]string{"error": "boom"})

		_, err := service.UpdateProfile(context.Background(), ProfileUpdate{Name: "New Name"})
		require.Error(t, err)

		last, ok := notifications.Last()
		require.True(t, ok)
		assert.Equal(t, "Profile Update Failed", last.Title)
	})
}

func TestServiceImpl_ChangePassword(t *testing.T) {
	t.Run("sends both passwords", func(t *testing.T) {
		service, server, notifications := setupUserTest(t)

		var body map[string]string
		server.HandleFunc(http.MethodPost, "/auth/password/change/", func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusOK)
		})

		require.NoError(t, service.ChangePassword(context.Background(), "old-pw", "new-pw"))
		assert.Equal(t, "old-pw", body["current_password"])
		assert.Equal(t, "new-pw", body["new_password"])

		last, ok := notifications.Last()
		require.True(t, ok)
		assert.Equal(t, "Password Changed", last.Title)
	})

	t.Run("a rejected password notifies and is returned", func(t *testing.T) {
		service, server, notifications := setupUserTest(t)
		server.Handle(http.MethodPost, "/auth/password/change/", http.StatusBadRequest, map[string]string{"error": "Wrong password."})

		err := service.ChangePassword(context.Background(), "wrong", "new-pw")
		require.Error(t, err)

		last, ok := notifications.Last()
		require.True(t, ok)
		assert.Equal(t, eventbus.NotificationFailure, last.Variant)
		assert.Equal(t, "Password Change Failed", last.Title)
	})
}

func TestServiceImpl_UpdatePreferences(t *testing.T) {
	t.Run("wraps the preferences and normalizes the returned user", func(t *testing.T) {
		service, server, notifications := setupUserTest(t)

		var body map[string]Preferences
		server.HandleFunc(http.MethodPut, "/auth/preferences/update/", func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&body)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"id": "u1", "name": "Jo", "avatar": "/media/jo.png",
				"preferences": map[string]any{"currency": "EUR"},
			})
		})

		updated, err := service.UpdatePreferences(context.Background(), Preferences{
			Currency:      "EUR",
			Notifications: &Notifications{BudgetAlerts: true},
		})
		require.NoError(t, err)

		require.Contains(t, body, "preferences")
		assert.Equal(t, "EUR", body["preferences"].Currency)
		require.NotNil(t, body["preferences"].Notifications)
		assert.True(t, body["preferences"].Notifications.BudgetAlerts)

		assert.Equal(t, testMediaOrigin+"/media/jo.png", updated.Avatar)
		require.NotNil(t, updated.Preferences)
		assert.Equal(t, "EUR", updated.Preferences.Currency)

		last, ok := notifications.Last()
		require.True(t, ok)
		assert.Equal(t, "Preferences Saved", last.Title)
	})

	t.Run("a failure notifies and is returned", func(t *testing.T) {
		service, server, notifications := setupUserTest(t)
		server.Handle(http.MethodPut, "/auth/preferences/update/", http.StatusInternalServerError, map[string]string{"error": "boom"})

		_, err := service.UpdatePreferences(context.Background(), Preferences{Currency: "EUR"})
		require.Error(t, err)

		last, ok := notifications.Last()
		require.True(t, ok)
		assert.Equal(t, "Preferences Update Failed", last.Title)
	})
}

func writeUser(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"id": "u1", "name": name})
}
