package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lockguard-backend/config"
	"lockguard-backend/internal/api"
	"lockguard-backend/internal/model"
	"lockguard-backend/internal/notification"
	"lockguard-backend/internal/store"
)

type capturingSender struct {
	messages []notification.Message
	tokens   []string
}

func (s *capturingSender) Send(_ context.Context, token string, msg notification.Message) error {
	s.tokens = append(s.tokens, token)
	s.messages = append(s.messages, msg)
	return nil
}

// TestDeviceLifecycle walks a device through its entire life: claimed by a
// user, favorited, pulled into a group, locked, triggering a push on
// activation, and finally orphaned again when the group goes away.
func TestDeviceLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// --- Test Setup ---

	// 1. Setup an in-memory SQLite database for testing.
	testDB, err := gorm.Open(sqlite.Open("file:lifecycle?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to the in-memory database: %v", err)
	}
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	// Run database migrations.
	err = testDB.AutoMigrate(
		&model.User{}, &model.PushToken{}, &model.FavoriteItem{},
		&model.Device{}, &model.Group{}, &model.Event{},
	)
	require.NoError(t, err)

	// 2. Wire the router against the test database and a capturing sender.
	s := store.NewGormStore(testDB)
	sender := &capturingSender{}
	dispatcher := notification.NewDispatcher(sender, 1000, 100)
	authCfg := &config.AuthConfig{
		JWTSecret:       "lifecycle-secret",
		LoginTokenTTL:   time.Hour,
		RefreshTokenTTL: 15 * time.Minute,
	}
	router := api.NewRouter(s, dispatcher, authCfg)

	call := func(method, path, token string, body any) *httptest.ResponseRecorder {
		t.Helper()
		var payload *bytes.Reader
		if body != nil {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			payload = bytes.NewReader(b)
		} else {
			payload = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, path, payload)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}
	decode := func(w *httptest.ResponseRecorder) map[string]any {
		t.Helper()
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	// --- Lifecycle ---

	// 3. Register a user and log in.
	w := call(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decode(w)["token"].(string)
	require.NotEmpty(t, token)

	// 4. Provision a device and claim it.
	w = call(http.MethodPost, "/api/devices/admin/create", "", gin.H{
		"name": "Front Door", "serialNumber": "X1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created, _ := decode(w)["device"].(map[string]any)
	deviceID, _ := created["id"].(string)
	require.NotEmpty(t, deviceID)

	w = call(http.MethodPost, "/api/devices/assign", token, gin.H{"serialNumber": "X1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(http.MethodPost, "/api/auth/save-push-token", token, gin.H{
		"pushToken": "ExponentPushToken[alice]",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 5. The group-less device is favorite-eligible.
	w = call(http.MethodPatch, "/api/auth/favorite-main", token, gin.H{
		"kind": "Device", "itemId": deviceID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 6. Create a group and pull the device in. Joining a group strips the
	// device from every favorite slot and puts it under the group's lock.
	w = call(http.MethodPost, "/api/groups/create", token, gin.H{"name": "Home"})
	require.Equal(t, http.StatusCreated, w.Code)
	groupID, _ := decode(w)["id"].(string)
	require.NotEmpty(t, groupID)

	w = call(http.MethodPost, "/api/groups/"+groupID+"/add-device", token, gin.H{"deviceId": deviceID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(w)
	assert.Nil(t, profile["favoriteMain"], "group members cannot stay favorites")

	var member model.Device
	require.NoError(t, testDB.First(&member, "id = ?", deviceID).Error)
	require.NotNil(t, member.GroupID)
	assert.Equal(t, groupID, *member.GroupID)
	assert.False(t, member.LockActive, "the group is unlocked, so is its new member")

	// 7. Lock the group; the member device arms with it.
	w = call(http.MethodPost, "/api/groups/"+groupID+"/lock", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(w)["devicesUpdated"])

	require.NoError(t, testDB.First(&member, "id = ?", deviceID).Error)
	assert.True(t, member.LockActive)

	// 8. The armed device reports an activation: exactly one push per stored
	// token, phrased as a zone alert, and the event is marked notified.
	w = call(http.MethodPost, "/api/events/create", "", gin.H{"serialNumber": "X1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, sender.tokens, 1)
	assert.Equal(t, "ExponentPushToken[alice]", sender.tokens[0])
	assert.Equal(t, "Zone alert", sender.messages[0].Title)
	assert.Contains(t, sender.messages[0].Body, "Home")

	event, _ := decode(w)["event"].(map[string]any)
	require.NotNil(t, event)
	assert.Equal(t, true, event["notified"])
	assert.Equal(t, true, event["fromGroup"])

	// 9. Deleting the group releases the device and disarms it.
	w = call(http.MethodDelete, "/api/groups/"+groupID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, testDB.First(&member, "id = ?", deviceID).Error)
	assert.Nil(t, member.GroupID)
	assert.False(t, member.LockActive)

	// A disarmed device stays quiet on activation.
	w = call(http.MethodPost, "/api/events/create", "", gin.H{"serialNumber": "X1"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, sender.tokens, 1, "no new push for an unlocked device")

	// 10. Tearing the account down releases the hardware for the next owner.
	user, err := s.UserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	w = call(http.MethodDelete, "/api/auth/admin/delete/"+user.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, testDB.First(&member, "id = ?", deviceID).Error)
	assert.Nil(t, member.UserID)

	var events int64
	require.NoError(t, testDB.Model(&model.Event{}).Where("device_id = ?", deviceID).Count(&events).Error)
	assert.Equal(t, int64(2), events, "event history survives the owner")
}
