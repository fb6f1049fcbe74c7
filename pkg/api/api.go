package api

import (
	"context"
	"encoding/json"
	"io"

	"promoterbot/pkg/models"
)

// Envelope is the common response shape of the backend. Endpoint-specific
// payloads arrive under Data and are decoded by the typed methods.
type Envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Token      string             `json:"token"`
	Promoter   *models.Promoter   `json:"promoter"`
	Pagination *models.Pagination `json:"pagination"`
}

// ImagePart is one file of a multipart upload.
type ImagePart struct {
	FileName string
	Reader   io.Reader
}

type CreateOrderRequest struct {
	Name  string
	Phone string

	PromoterID    string
	ProjectID     string
	ActivityLocID string
	VendorID      string
	ActivityID    string

	OrderImage   ImagePart
	ProfileImage *ImagePart
}

type UploadImagesRequest struct {
	ActivityLocID string
	Images        []ImagePart
}

type SocietyQuery struct {
	Limit     int
	Page      int
	Search    string
	ProjectID string
	CityID    string
}

type DashboardQuery struct {
	ActivityLocID string
	PromoterID    string
	TodaysPage    int
	TotalPage     int
	TodaysLimit   int
	TotalLimit    int
}

// IClient is the remote backend. Every call goes through the response
// interceptor; chatID identifies whose session documents a fault must tear
// down.
type IClient interface {
	SendOTP(ctx context.Context, chatID int64, phone string) (*Envelope, error)
	VerifyOTP(ctx context.Context, chatID int64, phone, otp string) (*Envelope, error)
	CreateOrderEntry(ctx context.Context, chatID int64, req CreateOrderRequest) (*Envelope, error)
	UploadImages(ctx context.Context, chatID int64, req UploadImagesRequest) (*Envelope, error)
	GetSocieties(ctx context.Context, chatID int64, q SocietyQuery) ([]models.Society, error)
	GetDashboard(ctx context.Context, chatID int64, q DashboardQuery) (*models.DashboardData, error)
}
