package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"promoterbot/config"
	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
	"promoterbot/storage"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	store   storage.IStorage
	log     logger.ILogger

	onSessionFault func(ctx context.Context, chatID int64)
}

func New(cfg config.Config, store storage.IStorage, log logger.ILogger) *Client {
	return &Client{
		baseURL: cfg.APIBaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{},
		store:   store,
		log:     log,
	}
}

// OnSessionFault registers the hook fired after a session-fault teardown,
// once both documents are cleared. The bot uses it to push the chat back to
// the login entry point.
func (c *Client) OnSessionFault(fn func(ctx context.Context, chatID int64)) {
	c.onSessionFault = fn
}

// do sends one request with the standard headers and runs the response
// through the interceptor. contentType is empty for GET and multipart
// requests that carry their own.
func (c *Client) do(ctx context.Context, chatID int64, method, path string, body *bytes.Buffer, contentType string) (*Envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body.Bytes())
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth := c.store.Session().GetAuth(ctx, chatID); auth != nil && auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	return c.intercept(ctx, chatID, resp)
}

func (c *Client) postJSON(ctx context.Context, chatID int64, path string, payload interface{}) (*Envelope, error) {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(payload); err != nil {
		return nil, errors.Wrap(err, "failed to encode request body")
	}
	return c.do(ctx, chatID, http.MethodPost, path, body, "application/json")
}

func (c *Client) SendOTP(ctx context.Context, chatID int64, phone string) (*Envelope, error) {
	return c.postJSON(ctx, chatID, "/auth/send-otp", map[string]string{"phone": phone})
}

func (c *Client) VerifyOTP(ctx context.Context, chatID int64, phone, otp string) (*Envelope, error) {
	return c.postJSON(ctx, chatID, "/auth/verify-otp", map[string]string{"phone": phone, "otp": otp})
}

func (c *Client) CreateOrderEntry(ctx context.Context, chatID int64, req CreateOrderRequest) (*Envelope, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := map[string]string{
		"promoterId":    req.PromoterID,
		"projectId":     req.ProjectID,
		"activityLocId": req.ActivityLocID,
		"vendorId":      req.VendorID,
		"activityId":    req.ActivityID,
	}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, errors.Wrap(err, "failed to write form field")
		}
	}

	if err := writeImage(w, "orderImage", req.OrderImage); err != nil {
		return nil, err
	}
	if req.ProfileImage != nil {
		if err := writeImage(w, "profileImage", *req.ProfileImage); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize multipart body")
	}

	return c.do(ctx, chatID, http.MethodPost, "/order", body, w.FormDataContentType())
}

func (c *Client) UploadImages(ctx context.Context, chatID int64, req UploadImagesRequest) (*Envelope, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, img := range req.Images {
		if err := writeImage(w, "images", img); err != nil {
			return nil, err
		}
	}
	if err := w.WriteField("activityLocId", req.ActivityLocID); err != nil {
		return nil, errors.Wrap(err, "failed to write form field")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize multipart body")
	}

	return c.do(ctx, chatID, http.MethodPost, "/app/uploadImages", body, w.FormDataContentType())
}

func (c *Client) GetSocieties(ctx context.Context, chatID int64, q SocietyQuery) ([]models.Society, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("search", q.Search)
	params.Set("projectId", q.ProjectID)
	params.Set("cityId", q.CityID)

	env, err := c.do(ctx, chatID, http.MethodGet, "/app/getAllActivityLocations?"+params.Encode(), nil, "")
	if err != nil {
		return nil, err
	}

	var societies []models.Society
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &societies); err != nil {
			return nil, errors.Wrap(err, "failed to decode societies")
		}
	}
	return societies, nil
}

func (c *Client) GetDashboard(ctx context.Context, chatID int64, q DashboardQuery) (*models.DashboardData, error) {
	params := url.Values{}
	params.Set("activityLocId", q.ActivityLocID)
	params.Set("promoterId", q.PromoterID)
	params.Set("todaysPage", strconv.Itoa(q.TodaysPage))
	params.Set("totalPage", strconv.Itoa(q.TotalPage))
	params.Set("todaysLimit", strconv.Itoa(q.TodaysLimit))
	params.Set("totalLimit", strconv.Itoa(q.TotalLimit))

	env, err := c.do(ctx, chatID, http.MethodGet, "/app/getDashboardData?"+params.Encode(), nil, "")
	if err != nil {
		return nil, err
	}

	var dashboard models.DashboardData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &dashboard); err != nil {
			return nil, errors.Wrap(err, "failed to decode dashboard data")
		}
	}
	return &dashboard, nil
}

func writeImage(w *multipart.Writer, field string, img ImagePart) error {
	part, err := w.CreateFormFile(field, img.FileName)
	if err != nil {
		return errors.Wrap(err, "failed to create form file")
	}
	if _, err := io.Copy(part, img.Reader); err != nil {
		return errors.Wrap(err, "failed to copy image data")
	}
	return nil
}
