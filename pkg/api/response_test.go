package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promoterbot/config"
	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
	"promoterbot/storage"
	"promoterbot/storage/memory"
)

const testChatID int64 = 42

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, storage.IStorage, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := memory.New(logger.NewNop())
	client := New(config.Config{APIBaseURL: srv.URL, APIKey: "test-key"}, store, logger.NewNop())
	return client, store, srv
}

func seedSession(t *testing.T, store storage.IStorage) {
	t.Helper()
	ctx := context.Background()
	require.True(t, store.Session().SetAuth(ctx, testChatID, &models.AuthData{Token: "tok", PromoterID: "p1"}))
	require.True(t, store.Session().SetLocation(ctx, testChatID, &models.LocationData{ActivityLocID: "loc1"}))
}

func TestInterceptInvalidTokenTearsDownSession(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The backend reports the fault with a 200.
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":false,"message":"Unauthorized: Invalid token."}`))
	})
	seedSession(t, store)

	var faultChat int64
	client.OnSessionFault(func(ctx context.Context, chatID int64) { faultChat = chatID })

	_, err := client.SendOTP(context.Background(), testChatID, "9876543210")
	assert.ErrorIs(t, err, ErrInvalidToken)

	ctx := context.Background()
	assert.Nil(t, store.Session().GetAuth(ctx, testChatID))
	assert.Nil(t, store.Session().GetLocation(ctx, testChatID))
	assert.Equal(t, testChatID, faultChat)
}

func TestInterceptInvalidSessionTearsDownSession(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Unauthorized: Invalid session"}`))
	})
	seedSession(t, store)

	fired := false
	client.OnSessionFault(func(ctx context.Context, chatID int64) { fired = true })

	_, err := client.SendOTP(context.Background(), testChatID, "9876543210")
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.True(t, fired)
	assert.Nil(t, store.Session().GetAuth(context.Background(), testChatID))
}

func TestInterceptNonFaultErrorKeepsSession(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"Invalid OTP"}`))
	})
	seedSession(t, store)

	fired := false
	client.OnSessionFault(func(ctx context.Context, chatID int64) { fired = true })

	_, err := client.VerifyOTP(context.Background(), testChatID, "9876543210", "000000")
	require.Error(t, err)
	assert.Equal(t, "Invalid OTP", err.Error())
	assert.False(t, fired)
	assert.NotNil(t, store.Session().GetAuth(context.Background(), testChatID))
}

func TestInterceptGenericFallbacks(t *testing.T) {
	t.Run("failure without message", func(t *testing.T) {
		client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := client.SendOTP(context.Background(), testChatID, "9876543210")
		require.Error(t, err)
		assert.Equal(t, "Something went wrong. Please try again.", err.Error())
	})

	t.Run("failure with unparseable body", func(t *testing.T) {
		client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>upstream timeout</html>"))
		})
		_, err := client.SendOTP(context.Background(), testChatID, "9876543210")
		require.Error(t, err)
		assert.Equal(t, "Something went wrong. Please try again.", err.Error())
	})

	t.Run("success with empty body", func(t *testing.T) {
		client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		env, err := client.SendOTP(context.Background(), testChatID, "9876543210")
		require.NoError(t, err)
		assert.NotNil(t, env)
	})
}

func TestInterceptSuccessPassthrough(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"message":"OTP verified","token":"tok123","promoter":{"id":"p1","vendorId":"v1","projectIds":["pr1"]}}`))
	})

	env, err := client.VerifyOTP(context.Background(), testChatID, "9876543210", "123456")
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, "tok123", env.Token)
	require.NotNil(t, env.Promoter)
	assert.Equal(t, "p1", env.Promoter.ID)
}
