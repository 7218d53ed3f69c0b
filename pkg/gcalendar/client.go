package gcalendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar API service.
type Client struct {
	service *calendar.Service
}

// NewClientFromCredentialsFile creates a Calendar client from a Service Account JSON file path.
func NewClientFromCredentialsFile(ctx context.Context, credentialsPath string) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return NewClientFromCredentialsJSON(ctx, data)
}

// NewClientFromCredentialsJSON creates a Calendar client from raw Service Account JSON bytes.
func NewClientFromCredentialsJSON(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	// Try service account first
	config, err := google.JWTConfigFromJSON(credentialsJSON, calendar.CalendarScope)
	if err == nil {
		// Service Account path
		tokenSource := config.TokenSource(ctx)
		svc, svcErr := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
		if svcErr != nil {
			return nil, fmt.Errorf("failed to create calendar service: %w", svcErr)
		}
		return &Client{service: svc}, nil
	}

	// Fallback: try OAuth2 installed app credentials
	var oauthCreds struct {
		Installed struct {
			ClientID     string   `json:"client_id"`
			ClientSecret string   `json:"client_secret"`
			RedirectURIs []string `json:"redirect_uris"`
		} `json:"installed"`
	}
	if jsonErr := json.Unmarshal(credentialsJSON, &oauthCreds); jsonErr != nil {
		return nil, fmt.Errorf("unsupported credentials format: %w", err)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     oauthCreds.Installed.ClientID,
		ClientSecret: oauthCreds.Installed.ClientSecret,
		Scopes:       []string{calendar.CalendarScope},
		Endpoint:     google.Endpoint,
	}

	// For OAuth2 Desktop app: use a static token if token.json exists
	tokenData, tokenErr := os.ReadFile("token.json")
	if tokenErr != nil {
		return nil, fmt.Errorf("google credentials are OAuth Desktop type but no token.json found: use Service Account instead")
	}

	var tok oauth2.Token
	if jsonErr := json.Unmarshal(tokenData, &tok); jsonErr != nil {
		return nil, fmt.Errorf("failed to parse token.json: %w", jsonErr)
	}

	tokenSource := oauthConfig.TokenSource(ctx, &tok)
	svc, svcErr := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
	if svcErr != nil {
		return nil, fmt.Errorf("failed to create calendar service from OAuth token: %w", svcErr)
	}

	return &Client{service: svc}, nil
}

// NewClientFromHTTP creates a Calendar client from a pre-configured HTTP client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Client{service: svc}, nil
}

// FreeBusy queries the calendar's busy periods in [from, to].
func (c *Client) FreeBusy(ctx context.Context, calendarID string, from, to time.Time) ([]BusyPeriod, error) {
	if calendarID == "" {
		calendarID = "primary"
	}

	req := &calendar.FreeBusyRequest{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}

	resp, err := c.service.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, nil
	}

	var periods []BusyPeriod
	for _, p := range cal.Busy {
		start, startErr := time.Parse(time.RFC3339, p.Start)
		end, endErr := time.Parse(time.RFC3339, p.End)
		if startErr != nil || endErr != nil {
			// A malformed period from the API is skipped, not fatal.
			continue
		}
		periods = append(periods, BusyPeriod{Start: start, End: end})
	}
	return periods, nil
}

// PatchEvent updates an existing event in place, used when the user
// reschedules a conflicting event.
func (c *Client) PatchEvent(ctx context.Context, req PatchEventRequest) (*Event, error) {
	if req.EventID == "" {
		return nil, fmt.Errorf("event id is required")
	}

	patch := &calendar.Event{}
	if req.Summary != "" {
		patch.Summary = req.Summary
	}
	if !req.StartTime.IsZero() {
		patch.Start = &calendar.EventDateTime{
			DateTime: req.StartTime.Format(time.RFC3339),
			TimeZone: req.Timezone,
		}
	}
	if !req.EndTime.IsZero() {
		patch.End = &calendar.EventDateTime{
			DateTime: req.EndTime.Format(time.RFC3339),
			TimeZone: req.Timezone,
		}
	}

	calendarID := req.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	updated, err := c.service.Events.Patch(calendarID, req.EventID, patch).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to patch calendar event: %w", err)
	}

	out := &Event{
		ID:       updated.Id,
		Summary:  updated.Summary,
		HtmlLink: updated.HtmlLink,
	}
	if updated.Start != nil && updated.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, updated.Start.DateTime); err == nil {
			out.StartTime = t
		}
	}
	if updated.End != nil && updated.End.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, updated.End.DateTime); err == nil {
			out.EndTime = t
		}
	}
	return out, nil
}
