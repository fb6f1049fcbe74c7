// Package memory keeps session documents in process memory. It backs tests
// and local runs where neither Postgres nor Redis is available.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
	"promoterbot/storage"
)

type Store struct {
	mu   sync.RWMutex
	docs map[docKey][]byte
	log  logger.ILogger
}

type docKey struct {
	chatID int64
	doc    string
}

func New(log logger.ILogger) storage.IStorage {
	return &Store{
		docs: make(map[docKey][]byte),
		log:  log,
	}
}

func (s *Store) Close() {}

func (s *Store) Session() storage.ISessionStorage { return s }

func (s *Store) get(chatID int64, doc string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[docKey{chatID, doc}]
}

func (s *Store) set(chatID int64, doc string, value interface{}) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error("failed to encode session document", logger.Error(err), logger.String("doc", doc))
		return false
	}
	s.mu.Lock()
	s.docs[docKey{chatID, doc}] = data
	s.mu.Unlock()
	return true
}

func (s *Store) clear(chatID int64, doc string) bool {
	s.mu.Lock()
	delete(s.docs, docKey{chatID, doc})
	s.mu.Unlock()
	return true
}

func (s *Store) GetAuth(ctx context.Context, chatID int64) *models.AuthData {
	raw := s.get(chatID, storage.DocAuth)
	if raw == nil {
		return nil
	}
	var auth models.AuthData
	if err := json.Unmarshal(raw, &auth); err != nil {
		s.log.Error("failed to decode auth data", logger.Error(err))
		return nil
	}
	return &auth
}

func (s *Store) GetLocation(ctx context.Context, chatID int64) *models.LocationData {
	raw := s.get(chatID, storage.DocLocation)
	if raw == nil {
		return nil
	}
	var loc models.LocationData
	if err := json.Unmarshal(raw, &loc); err != nil {
		s.log.Error("failed to decode location data", logger.Error(err))
		return nil
	}
	return &loc
}

func (s *Store) SetAuth(ctx context.Context, chatID int64, data *models.AuthData) bool {
	return s.set(chatID, storage.DocAuth, data)
}

func (s *Store) SetLocation(ctx context.Context, chatID int64, data *models.LocationData) bool {
	return s.set(chatID, storage.DocLocation, data)
}

func (s *Store) ClearAuth(ctx context.Context, chatID int64) bool {
	return s.clear(chatID, storage.DocAuth)
}

func (s *Store) ClearLocation(ctx context.Context, chatID int64) bool {
	return s.clear(chatID, storage.DocLocation)
}
