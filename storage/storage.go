package storage

import (
	"context"

	"promoterbot/pkg/models"
)

// Document keys for the two persisted session blobs. Each is stored as one
// JSON-encoded value per chat.
const (
	DocAuth     = "authData"
	DocLocation = "locData"
)

type IStorage interface {
	Session() ISessionStorage
	Close()
}

// ISessionStorage is the persisted session store. None of its methods
// return errors: reads degrade to nil on any underlying failure (absence is
// a valid state), writes and clears report success as a bool. Failures are
// logged inside the implementation.
type ISessionStorage interface {
	GetAuth(ctx context.Context, chatID int64) *models.AuthData
	GetLocation(ctx context.Context, chatID int64) *models.LocationData
	SetAuth(ctx context.Context, chatID int64, data *models.AuthData) bool
	SetLocation(ctx context.Context, chatID int64, data *models.LocationData) bool
	ClearAuth(ctx context.Context, chatID int64) bool
	ClearLocation(ctx context.Context, chatID int64) bool
}
