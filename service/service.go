package service

import (
	"promoterbot/pkg/logger"
	"promoterbot/storage"
)

type IServiceManager interface {
	Session() SessionService
}

type service struct {
	sessionService SessionService
}

func New(stg storage.IStorage, log logger.ILogger) IServiceManager {
	return &service{
		sessionService: NewSessionService(stg, log),
	}
}

func (s *service) Session() SessionService {
	return s.sessionService
}
