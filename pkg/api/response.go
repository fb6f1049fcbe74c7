package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"promoterbot/pkg/logger"
)

// The backend signals session faults through the message field, not the
// status code. Some deployments append a trailing period, so comparison
// trims one.
const (
	sentinelInvalidToken   = "Unauthorized: Invalid token"
	sentinelInvalidSession = "Unauthorized: Invalid session"

	genericErrorMessage = "Something went wrong. Please try again."
)

var (
	ErrInvalidToken   = errors.New("your login is no longer valid, please sign in again")
	ErrInvalidSession = errors.New("your session has expired, please sign in again")
)

// intercept wraps every response: body is read as text, then JSON. A
// session-fault sentinel clears both persisted documents and fires the
// fault hook before the error is surfaced. An empty body is an absent
// payload, not an error.
func (c *Client) intercept(ctx context.Context, chatID int64, resp *http.Response) (*Envelope, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	env := &Envelope{}
	text := strings.TrimSpace(string(body))
	if text != "" {
		if err := json.Unmarshal([]byte(text), env); err != nil {
			c.log.Error("failed to decode response body", logger.Error(err), logger.Int("status", resp.StatusCode))
			if !isSuccess(resp.StatusCode) {
				return nil, errors.New(genericErrorMessage)
			}
			return nil, errors.Wrap(err, "failed to decode response body")
		}
	}

	switch strings.TrimSuffix(env.Message, ".") {
	case sentinelInvalidToken:
		c.teardown(ctx, chatID)
		return nil, ErrInvalidToken
	case sentinelInvalidSession:
		c.teardown(ctx, chatID)
		return nil, ErrInvalidSession
	}

	if !isSuccess(resp.StatusCode) {
		if env.Message != "" {
			return nil, errors.New(env.Message)
		}
		return nil, errors.New(genericErrorMessage)
	}

	return env, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func (c *Client) teardown(ctx context.Context, chatID int64) {
	c.log.Warning("session fault, clearing stored session", logger.Int64("chat_id", chatID))
	sess := c.store.Session()
	sess.ClearAuth(ctx, chatID)
	sess.ClearLocation(ctx, chatID)
	if c.onSessionFault != nil {
		c.onSessionFault(ctx, chatID)
	}
}
