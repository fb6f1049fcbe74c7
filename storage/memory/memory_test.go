package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
)

func TestSessionDocumentsRoundtrip(t *testing.T) {
	ctx := context.Background()
	sess := New(logger.NewNop()).Session()

	auth := &models.AuthData{Token: "tok", PromoterID: "p1", VendorID: "v1", ProjectID: "pr1"}
	loc := &models.LocationData{ActivityLocID: "loc1", ActivityLocName: "Green Meadows", ActivityID: "a1"}

	require.True(t, sess.SetAuth(ctx, 42, auth))
	require.True(t, sess.SetLocation(ctx, 42, loc))

	gotAuth := sess.GetAuth(ctx, 42)
	require.NotNil(t, gotAuth)
	assert.Equal(t, *auth, *gotAuth)

	gotLoc := sess.GetLocation(ctx, 42)
	require.NotNil(t, gotLoc)
	assert.Equal(t, *loc, *gotLoc)
}

func TestDocumentsAreScopedPerChat(t *testing.T) {
	ctx := context.Background()
	sess := New(logger.NewNop()).Session()

	require.True(t, sess.SetAuth(ctx, 1, &models.AuthData{Token: "one"}))
	require.True(t, sess.SetAuth(ctx, 2, &models.AuthData{Token: "two"}))

	assert.Equal(t, "one", sess.GetAuth(ctx, 1).Token)
	assert.Equal(t, "two", sess.GetAuth(ctx, 2).Token)
	assert.Nil(t, sess.GetAuth(ctx, 3))
}

func TestMissingDocumentsReturnNil(t *testing.T) {
	ctx := context.Background()
	sess := New(logger.NewNop()).Session()

	assert.Nil(t, sess.GetAuth(ctx, 42))
	assert.Nil(t, sess.GetLocation(ctx, 42))
}

func TestClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	sess := New(logger.NewNop()).Session()

	require.True(t, sess.SetAuth(ctx, 42, &models.AuthData{Token: "tok"}))
	assert.True(t, sess.ClearAuth(ctx, 42))
	assert.True(t, sess.ClearAuth(ctx, 42), "clearing an absent document still succeeds")
	assert.Nil(t, sess.GetAuth(ctx, 42))

	assert.True(t, sess.ClearLocation(ctx, 42))
}
