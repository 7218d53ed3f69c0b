package gcalendar_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"study-scheduler/pkg/gcalendar"
)

type rewriteTransport struct {
	Transport http.RoundTripper
	Host      string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = t.Host
	return t.Transport.RoundTrip(req)
}

func localClient(t *testing.T, ts *httptest.Server) *gcalendar.Client {
	t.Helper()
	tsClient := ts.Client()
	tsClient.Transport = &rewriteTransport{
		Transport: tsClient.Transport,
		Host:      strings.TrimPrefix(ts.URL, "http://"),
	}
	client, err := gcalendar.NewClientFromHTTP(context.Background(), tsClient)
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	return client
}

func TestCalendarClient(t *testing.T) {
	// Constructing fake credentials for local parsing flows
	mockCreds := `{
		"installed": {
			"client_id": "test-client-id.apps.googleusercontent.com",
			"project_id": "test-project",
			"auth_uri": "https://accounts.google.com/o/oauth2/auth",
			"token_uri": "https://oauth2.googleapis.com/token",
			"client_secret": "test-secret",
			"redirect_uris": ["http://localhost"]
		}
	}`

	t.Run("Initialize with broken JWT/OAuth config", func(t *testing.T) {
		_, err := gcalendar.NewClientFromCredentialsJSON(context.Background(), []byte(`{"broken":true}`))
		if err == nil {
			t.Errorf("expected decoding failure")
		}
	})

	t.Run("Initialize from installed app config", func(t *testing.T) {
		// Native oauth load requires token.json
		os.WriteFile("token.json", []byte(`{"access_token": "dummy", "token_type": "Bearer", "expiry": "2030-01-01T00:00:00Z"}`), 0644)
		defer os.Remove("token.json")

		_, err := gcalendar.NewClientFromCredentialsJSON(context.Background(), []byte(mockCreds))
		if err != nil {
			t.Fatalf("expected parsing to succeed: %v", err)
		}
	})

	t.Run("Initialize from installed app config bad token", func(t *testing.T) {
		os.WriteFile("token.json", []byte(`{"broken": true`), 0644)
		defer os.Remove("token.json")

		_, err := gcalendar.NewClientFromCredentialsJSON(context.Background(), []byte(mockCreds))
		if err == nil {
			t.Fatalf("expected parsing to fail on bad token")
		}
	})

	t.Run("Initialize from File", func(t *testing.T) {
		tmpFile, _ := os.CreateTemp("", "creds.json")
		defer os.Remove(tmpFile.Name())
		tmpFile.WriteString(`{"broken":true}`)
		tmpFile.Close()

		_, err := gcalendar.NewClientFromCredentialsFile(context.Background(), tmpFile.Name())
		if err == nil {
			t.Errorf("expected failure loading broken file")
		}

		_, err = gcalendar.NewClientFromCredentialsFile(context.Background(), "non-existent-file-path-12345.json")
		if err == nil {
			t.Errorf("expected reading file error")
		}
	})

	t.Run("FreeBusy E2E", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/calendar/v3/freeBusy" && r.Method == http.MethodPost {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{
					"calendars": {
						"primary": {
							"busy": [
								{ "start": "2026-03-10T09:00:00Z", "end": "2026-03-10T10:00:00Z" },
								{ "start": "not-a-time", "end": "2026-03-10T12:00:00Z" },
								{ "start": "2026-03-10T14:00:00Z", "end": "2026-03-10T15:30:00Z" }
							]
						}
					}
				}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		client := localClient(t, ts)
		periods, err := client.FreeBusy(context.Background(), "primary",
			time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("freebusy failed: %v", err)
		}
		// The malformed period is skipped, the valid two survive.
		if len(periods) != 2 {
			t.Fatalf("expected 2 busy periods, got %d", len(periods))
		}
		want := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		if !periods[0].Start.Equal(want) {
			t.Errorf("unexpected first period start: %s", periods[0].Start)
		}
	})

	t.Run("FreeBusy Error E2E", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		client := localClient(t, ts)
		_, err := client.FreeBusy(context.Background(), "primary", time.Now(), time.Now().Add(time.Hour))
		if err == nil {
			t.Fatalf("expected api error")
		}
	})

	t.Run("Patch Event E2E", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/calendar/v3/calendars/primary/events/event-123" && r.Method == http.MethodPatch {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{
					"id": "event-123",
					"summary": "Moved Event",
					"htmlLink": "https://calendar.google.com/event-uri",
					"start": { "dateTime": "2026-03-11T09:00:00Z" },
					"end": { "dateTime": "2026-03-11T10:00:00Z" }
				}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		client := localClient(t, ts)
		event, err := client.PatchEvent(context.Background(), gcalendar.PatchEventRequest{
			CalendarID: "primary",
			EventID:    "event-123",
			Summary:    "Moved Event",
			StartTime:  time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
			EndTime:    time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("failed to patch event: %v", err)
		}
		if event.Summary != "Moved Event" {
			t.Errorf("unexpected summary: %s", event.Summary)
		}
		if event.HtmlLink != "https://calendar.google.com/event-uri" {
			t.Errorf("unexpected link: %s", event.HtmlLink)
		}
	})

	t.Run("Patch Event requires an id", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		client := localClient(t, ts)
		_, err := client.PatchEvent(context.Background(), gcalendar.PatchEventRequest{CalendarID: "primary"})
		if err == nil {
			t.Fatalf("expected missing id error")
		}
	})
}
