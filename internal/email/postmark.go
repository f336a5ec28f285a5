package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mrz1836/postmark"
)

const postmarkStream = "outbound"

// APIError is returned when Postmark rejects a message (invalid address,
// bad token, rate limit...).
type APIError struct {
	ErrorCode int
	Message   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("postmark rejected message (code %d): %s", e.ErrorCode, e.Message)
}

// PostmarkClient adapts the Postmark SDK client to Sender.
type PostmarkClient struct {
	client *postmark.Client
}

// NewPostmarkClient points the SDK at baseURL, so a mail sink can stand in
// for the real API. httpClient carries the tracing transport.
func NewPostmarkClient(baseURL, token string, httpClient *http.Client) *PostmarkClient {
	client := postmark.NewClient(token, "")
	client.BaseURL = strings.TrimRight(baseURL, "/")
	if httpClient != nil {
		client.HTTPClient = httpClient
	}
	return &PostmarkClient{client: client}
}

func (c *PostmarkClient) Send(ctx context.Context, msg Message) error {
	res, err := c.client.SendEmail(ctx, postmark.Email{
		From:          msg.From,
		To:            strings.Join(msg.To, ","),
		Subject:       msg.Subject,
		HTMLBody:      msg.HTMLBody,
		Tag:           msg.Tag,
		MessageStream: postmarkStream,
	})

	var rejected postmark.APIError
	if errors.As(err, &rejected) {
		return &APIError{ErrorCode: int(rejected.ErrorCode), Message: rejected.Message}
	}
	if res.ErrorCode != 0 {
		return &APIError{ErrorCode: int(res.ErrorCode), Message: res.Message}
	}
	if err != nil {
		return fmt.Errorf("send to postmark: %w", err)
	}

	return nil
}
