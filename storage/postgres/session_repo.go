package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
	"promoterbot/storage"
)

type sessionRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewSessionRepo(db *pgxpool.Pool, log logger.ILogger) storage.ISessionStorage {
	return &sessionRepo{db: db, log: log}
}

func (r *sessionRepo) get(ctx context.Context, chatID int64, doc string) []byte {
	var data []byte
	query := `SELECT data FROM sessions WHERE chat_id = $1 AND doc = $2`
	err := r.db.QueryRow(ctx, query, chatID, doc).Scan(&data)
	if err != nil {
		if err != pgx.ErrNoRows {
			r.log.Error("failed to read session document", logger.Error(err), logger.String("doc", doc))
		}
		return nil
	}
	return data
}

func (r *sessionRepo) set(ctx context.Context, chatID int64, doc string, value interface{}) bool {
	data, err := json.Marshal(value)
	if err != nil {
		r.log.Error("failed to encode session document", logger.Error(err), logger.String("doc", doc))
		return false
	}
	query := `
		INSERT INTO sessions (chat_id, doc, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id, doc) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, chatID, doc, data); err != nil {
		r.log.Error("failed to store session document", logger.Error(err), logger.String("doc", doc))
		return false
	}
	return true
}

func (r *sessionRepo) clear(ctx context.Context, chatID int64, doc string) bool {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE chat_id = $1 AND doc = $2`, chatID, doc); err != nil {
		r.log.Error("failed to clear session document", logger.Error(err), logger.String("doc", doc))
		return false
	}
	return true
}

func (r *sessionRepo) GetAuth(ctx context.Context, chatID int64) *models.AuthData {
	raw := r.get(ctx, chatID, storage.DocAuth)
	if raw == nil {
		return nil
	}
	var auth models.AuthData
	if err := json.Unmarshal(raw, &auth); err != nil {
		r.log.Error("failed to decode auth data", logger.Error(err))
		return nil
	}
	return &auth
}

func (r *sessionRepo) GetLocation(ctx context.Context, chatID int64) *models.LocationData {
	raw := r.get(ctx, chatID, storage.DocLocation)
	if raw == nil {
		return nil
	}
	var loc models.LocationData
	if err := json.Unmarshal(raw, &loc); err != nil {
		r.log.Error("failed to decode location data", logger.Error(err))
		return nil
	}
	return &loc
}

func (r *sessionRepo) SetAuth(ctx context.Context, chatID int64, data *models.AuthData) bool {
	return r.set(ctx, chatID, storage.DocAuth, data)
}

func (r *sessionRepo) SetLocation(ctx context.Context, chatID int64, data *models.LocationData) bool {
	return r.set(ctx, chatID, storage.DocLocation, data)
}

func (r *sessionRepo) ClearAuth(ctx context.Context, chatID int64) bool {
	return r.clear(ctx, chatID, storage.DocAuth)
}

func (r *sessionRepo) ClearLocation(ctx context.Context, chatID int64) bool {
	return r.clear(ctx, chatID, storage.DocLocation)
}
