package push

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
	fcm "google.golang.org/api/fcm/v1"
	"google.golang.org/api/option"
)

// Client sends push notifications through Firebase Cloud Messaging.
// Sends are rate limited so a large dispatch cycle cannot burst past
// the project quota.
type Client struct {
	service   *fcm.Service
	parent    string
	limiter   *rate.Limiter
	projectID string
}

// NewClient creates an FCM client from a Service Account JSON file.
// ratePerSecond caps outbound sends; zero or negative uses 20/s.
func NewClient(ctx context.Context, projectID, credentialsPath string, ratePerSecond float64) (*Client, error) {
	if projectID == "" {
		return nil, errors.New("fcm project id is required")
	}
	if ratePerSecond <= 0 {
		ratePerSecond = 20
	}

	opts := []option.ClientOption{}
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	service, err := fcm.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fcm service: %w", err)
	}

	return &Client{
		service:   service,
		parent:    "projects/" + projectID,
		limiter:   rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		projectID: projectID,
	}, nil
}

// Deliver sends the notification to every token. Tokens fail
// independently; the returned error joins the per-token failures and is
// nil only when every send succeeded.
func (c *Client) Deliver(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	var errs []error
	for _, token := range tokens {
		if err := c.limiter.Wait(ctx); err != nil {
			errs = append(errs, err)
			break
		}
		if err := c.send(ctx, token, title, body, data); err != nil {
			errs = append(errs, fmt.Errorf("token %s…: %w", truncateToken(token), err))
		}
	}
	return errors.Join(errs...)
}

func (c *Client) send(ctx context.Context, token, title, body string, data map[string]string) error {
	req := &fcm.SendMessageRequest{
		Message: &fcm.Message{
			Token: token,
			Notification: &fcm.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		},
	}

	_, err := c.service.Projects.Messages.Send(c.parent, req).Context(ctx).Do()
	return err
}

// truncateToken keeps logs free of full device tokens.
func truncateToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
