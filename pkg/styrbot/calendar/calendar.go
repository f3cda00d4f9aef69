// Package calendar implements the Google Calendar provider for styrbot:
// meeting event creation, calendar listing for the access check, and
// creating and sharing new calendars. Authentication uses a service account
// via golang.org/x/oauth2.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
)

const (
	baseURL = "https://www.googleapis.com/calendar/v3"

	scopeCalendar = "https://www.googleapis.com/auth/calendar"
	scopeEvents   = "https://www.googleapis.com/auth/calendar.events"

	// timezone for all created events and calendars.
	timezone = "Europe/Stockholm"

	// eventDuration is the fixed length of board meeting events.
	eventDuration = time.Hour
)

// Calendar identifies one calendar the service account can see.
type Calendar struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

// EventInput describes the meeting event to create.
type EventInput struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
}

// Service is an authenticated Calendar client.
type Service struct {
	http   *http.Client
	logger *slog.Logger
}

// NewService builds a Service from a service-account credentials file.
func NewService(ctx context.Context, credentialsPath string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading google credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, scopeCalendar, scopeEvents)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}
	return &Service{http: conf.Client(ctx), logger: logger}, nil
}

// AddEvent creates a one-hour event on the given calendar and returns its
// htmlLink.
func (s *Service) AddEvent(ctx context.Context, calendarID string, in EventInput) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.Local
	}
	start := in.Start.In(loc)
	end := start.Add(eventDuration)

	event := map[string]any{
		"summary":     in.Title,
		"description": in.Description,
		"location":    in.Location,
		"start": map[string]string{
			"dateTime": start.Format(time.RFC3339),
			"timeZone": timezone,
		},
		"end": map[string]string{
			"dateTime": end.Format(time.RFC3339),
			"timeZone": timezone,
		},
		"reminders": map[string]any{"useDefault": true},
	}

	var out struct {
		HTMLLink string `json:"htmlLink"`
	}
	u := fmt.Sprintf("%s/calendars/%s/events?sendUpdates=none", baseURL, url.PathEscape(calendarID))
	if err := s.post(ctx, u, event, &out); err != nil {
		return "", fmt.Errorf("inserting calendar event: %w", err)
	}

	s.logger.Info("calendar event created", "calendar_id", calendarID, "title", in.Title, "start", start.Format(time.RFC3339))
	return out.HTMLLink, nil
}

// ListCalendars returns the calendars visible to the service account.
// Used by the calendar-access check command.
func (s *Service) ListCalendars(ctx context.Context) ([]Calendar, error) {
	var out struct {
		Items []Calendar `json:"items"`
	}
	if err := s.get(ctx, baseURL+"/users/me/calendarList", &out); err != nil {
		return nil, fmt.Errorf("listing calendars: %w", err)
	}
	return out.Items, nil
}

// CreateAndShare creates a new calendar and grants the given e-mail owner
// access. Returns the created calendar.
func (s *Service) CreateAndShare(ctx context.Context, name, shareWithEmail string) (*Calendar, error) {
	body := map[string]string{
		"summary":     name,
		"description": "Kalender skapad av Elevkårens mötessystem",
		"timeZone":    timezone,
	}
	var created Calendar
	if err := s.post(ctx, baseURL+"/calendars", body, &created); err != nil {
		return nil, fmt.Errorf("creating calendar: %w", err)
	}

	acl := map[string]any{
		"role": "owner",
		"scope": map[string]string{
			"type":  "user",
			"value": shareWithEmail,
		},
	}
	u := fmt.Sprintf("%s/calendars/%s/acl", baseURL, url.PathEscape(created.ID))
	if err := s.post(ctx, u, acl, nil); err != nil {
		return nil, fmt.Errorf("sharing calendar %s: %w", created.ID, err)
	}

	s.logger.Info("calendar created and shared", "calendar_id", created.ID, "shared_with", shareWithEmail)
	return &created, nil
}

func (s *Service) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return s.doJSON(req, out)
}

func (s *Service) post(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.doJSON(req, out)
}

func (s *Service) doJSON(req *http.Request, out any) error {
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
