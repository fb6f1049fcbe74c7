package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
	"promoterbot/storage/memory"
)

func TestClassify(t *testing.T) {
	auth := &models.AuthData{Token: "abc"}
	loc := &models.LocationData{ActivityLocID: "loc1"}

	cases := []struct {
		name string
		auth *models.AuthData
		loc  *models.LocationData
		want models.SessionState
	}{
		{"both nil", nil, nil, models.Unauthenticated},
		{"location without auth", nil, loc, models.Unauthenticated},
		{"empty token", &models.AuthData{}, loc, models.Unauthenticated},
		{"auth only", auth, nil, models.AuthenticatedNoLocation},
		{"auth with empty location", auth, &models.LocationData{}, models.AuthenticatedNoLocation},
		{"auth and location", auth, loc, models.AuthenticatedWithLocation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.auth, tc.loc))
		})
	}
}

func TestLoginStoresVerificationResult(t *testing.T) {
	ctx := context.Background()
	stg := memory.New(logger.NewNop())
	svc := NewSessionService(stg, logger.NewNop())

	promoter := &models.Promoter{ID: "p1", VendorID: "v1", ProjectIDs: []string{"pr1", "pr2"}}
	auth, err := svc.Login(ctx, 42, "abc", promoter)
	require.NoError(t, err)

	assert.Equal(t, "abc", auth.Token)
	assert.Equal(t, "p1", auth.PromoterID)
	assert.Equal(t, "v1", auth.VendorID)
	assert.Equal(t, "pr1", auth.ProjectID, "first project becomes the session project")

	state, stored, _ := svc.Resolve(ctx, 42)
	assert.Equal(t, models.AuthenticatedNoLocation, state)
	require.NotNil(t, stored)
	assert.Equal(t, "p1", stored.PromoterID)
}

func TestLoginRejectsMissingToken(t *testing.T) {
	svc := NewSessionService(memory.New(logger.NewNop()), logger.NewNop())

	_, err := svc.Login(context.Background(), 42, "", &models.Promoter{ID: "p1"})
	assert.Error(t, err)

	state, _, _ := svc.Resolve(context.Background(), 42)
	assert.Equal(t, models.Unauthenticated, state)
}

func TestSelectLocationIsSticky(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(memory.New(logger.NewNop()), logger.NewNop())

	_, err := svc.Login(ctx, 42, "abc", &models.Promoter{ID: "p1"})
	require.NoError(t, err)

	first := &models.LocationData{ActivityLocID: "loc1", ActivityLocName: "Green Meadows"}
	require.NoError(t, svc.SelectLocation(ctx, 42, first))

	// Re-selecting the same location is a no-op, a different one is refused.
	assert.NoError(t, svc.SelectLocation(ctx, 42, first))
	assert.Error(t, svc.SelectLocation(ctx, 42, &models.LocationData{ActivityLocID: "loc2"}))

	state, _, loc := svc.Resolve(ctx, 42)
	assert.Equal(t, models.AuthenticatedWithLocation, state)
	assert.Equal(t, "loc1", loc.ActivityLocID)

	require.True(t, svc.ResetLocation(ctx, 42))
	require.NoError(t, svc.SelectLocation(ctx, 42, &models.LocationData{ActivityLocID: "loc2"}))
}

func TestLogoutClearsBothDocuments(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(memory.New(logger.NewNop()), logger.NewNop())

	_, err := svc.Login(ctx, 42, "abc", &models.Promoter{ID: "p1"})
	require.NoError(t, err)
	require.NoError(t, svc.SelectLocation(ctx, 42, &models.LocationData{ActivityLocID: "loc1"}))

	assert.True(t, svc.Logout(ctx, 42))

	state, auth, loc := svc.Resolve(ctx, 42)
	assert.Equal(t, models.Unauthenticated, state)
	assert.Nil(t, auth)
	assert.Nil(t, loc)
}
