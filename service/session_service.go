package service

import (
	"context"

	"github.com/pkg/errors"

	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
	"promoterbot/storage"
)

// Classify derives the session state from the two persisted documents.
// Pure and total: nil documents are valid inputs.
func Classify(auth *models.AuthData, loc *models.LocationData) models.SessionState {
	if auth == nil || auth.Token == "" {
		return models.Unauthenticated
	}
	if loc == nil || loc.ActivityLocID == "" {
		return models.AuthenticatedNoLocation
	}
	return models.AuthenticatedWithLocation
}

type SessionService interface {
	Resolve(ctx context.Context, chatID int64) (models.SessionState, *models.AuthData, *models.LocationData)
	Login(ctx context.Context, chatID int64, token string, promoter *models.Promoter) (*models.AuthData, error)
	SelectLocation(ctx context.Context, chatID int64, loc *models.LocationData) error
	Logout(ctx context.Context, chatID int64) bool
	ResetLocation(ctx context.Context, chatID int64) bool
}

type sessionService struct {
	stg storage.ISessionStorage
	log logger.ILogger
}

func NewSessionService(stg storage.IStorage, log logger.ILogger) SessionService {
	return &sessionService{
		stg: stg.Session(),
		log: log,
	}
}

func (s *sessionService) Resolve(ctx context.Context, chatID int64) (models.SessionState, *models.AuthData, *models.LocationData) {
	auth := s.stg.GetAuth(ctx, chatID)
	loc := s.stg.GetLocation(ctx, chatID)
	return Classify(auth, loc), auth, loc
}

// Login stores the identity document built from an OTP verification
// response. The promoter's first project becomes the session project.
func (s *sessionService) Login(ctx context.Context, chatID int64, token string, promoter *models.Promoter) (*models.AuthData, error) {
	if token == "" {
		return nil, errors.New("verification response is missing a token")
	}

	auth := &models.AuthData{Token: token}
	if promoter != nil {
		auth.PromoterID = promoter.ID
		auth.VendorID = promoter.VendorID
		if len(promoter.ProjectIDs) > 0 {
			auth.ProjectID = promoter.ProjectIDs[0]
		}
	}

	if !s.stg.SetAuth(ctx, chatID, auth) {
		return nil, errors.New("failed to save login data")
	}
	s.log.Info("promoter logged in", logger.Int64("chat_id", chatID), logger.String("promoter_id", auth.PromoterID))
	return auth, nil
}

// SelectLocation stores the chosen activity location. A location, once
// confirmed, cannot be replaced without an explicit reset.
func (s *sessionService) SelectLocation(ctx context.Context, chatID int64, loc *models.LocationData) error {
	if loc == nil || loc.ActivityLocID == "" {
		return errors.New("no activity location selected")
	}
	if existing := s.stg.GetLocation(ctx, chatID); existing != nil && existing.ActivityLocID != "" && existing.ActivityLocID != loc.ActivityLocID {
		return errors.New("an activity location is already selected, reset settings first")
	}
	if !s.stg.SetLocation(ctx, chatID, loc) {
		return errors.New("failed to save your selection")
	}
	s.log.Info("activity location selected", logger.Int64("chat_id", chatID), logger.String("activity_loc_id", loc.ActivityLocID))
	return nil
}

func (s *sessionService) Logout(ctx context.Context, chatID int64) bool {
	okAuth := s.stg.ClearAuth(ctx, chatID)
	okLoc := s.stg.ClearLocation(ctx, chatID)
	s.log.Info("promoter logged out", logger.Int64("chat_id", chatID))
	return okAuth && okLoc
}

func (s *sessionService) ResetLocation(ctx context.Context, chatID int64) bool {
	return s.stg.ClearLocation(ctx, chatID)
}
