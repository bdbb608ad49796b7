// Package push delivers notifications through the Expo push service.
package push

import (
	"context"
	"fmt"
	"strings"
	"time"

	"classhawk-scraper/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// chunkSize is Expo's maximum messages per request.
const chunkSize = 100

// ExpoClient sends push messages in transport-sized chunks. Per-message
// receipts are logged but not interpreted; delivery is best-effort.
type ExpoClient struct {
	url    string
	http   *resty.Client
	logger *zap.SugaredLogger
}

// NewExpoClient creates a client against the given push endpoint
func NewExpoClient(url string, logger *zap.SugaredLogger) *ExpoClient {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")

	return &ExpoClient{url: url, http: client, logger: logger}
}

// ValidToken reports whether the token looks like an Expo push token
func (c *ExpoClient) ValidToken(token string) bool {
	return (strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")) &&
		strings.HasSuffix(token, "]")
}

// Send posts the messages in chunks of at most 100. The first transport
// error aborts remaining chunks and is returned to the caller.
func (c *ExpoClient) Send(ctx context.Context, messages []models.PushMessage) error {
	for start := 0; start < len(messages); start += chunkSize {
		end := start + chunkSize
		if end > len(messages) {
			end = len(messages)
		}
		chunk := messages[start:end]

		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(chunk).
			Post(c.url)
		if err != nil {
			return fmt.Errorf("push chunk %d-%d failed: %w", start, end, err)
		}
		if resp.IsError() {
			return fmt.Errorf("push chunk %d-%d rejected: %s", start, end, resp.Status())
		}

		c.logger.Debugf("Pushed chunk of %d notifications", len(chunk))
	}
	return nil
}
