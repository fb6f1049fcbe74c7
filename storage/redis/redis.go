package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"promoterbot/config"
	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
	"promoterbot/storage"
)

type Store struct {
	client *redis.Client
	log    logger.ILogger
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect Redis", logger.Error(err))
		return nil, err
	}

	log.Info("Redis connected")

	return &Store{client: client, log: log}, nil
}

func (s *Store) Close() {
	_ = s.client.Close()
}

func (s *Store) Session() storage.ISessionStorage {
	return &sessionRepo{client: s.client, log: s.log}
}

type sessionRepo struct {
	client *redis.Client
	log    logger.ILogger
}

func key(chatID int64, doc string) string {
	return fmt.Sprintf("session:%d:%s", chatID, doc)
}

func (r *sessionRepo) get(ctx context.Context, chatID int64, doc string) []byte {
	data, err := r.client.Get(ctx, key(chatID, doc)).Bytes()
	if err != nil {
		if err != redis.Nil {
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
	if err := r.client.Set(ctx, key(chatID, doc), data, 0).Err(); err != nil {
		r.log.Error("failed to store session document", logger.Error(err), logger.String("doc", doc))
		return false
	}
	return true
}

func (r *sessionRepo) clear(ctx context.Context, chatID int64, doc string) bool {
	if err := r.client.Del(ctx, key(chatID, doc)).Err(); err != nil {
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
