package meetings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"
)

// ErrNotFound is returned when a meeting ID does not exist in the store.
var ErrNotFound = errors.New("meeting not found")

// Syncer pushes a meeting to an external calendar. Best effort: a failure
// never fails meeting creation.
type Syncer interface {
	Sync(ctx context.Context, m *Meeting) (link string, err error)
}

// SyncStatus tags the outcome of the optional post-create calendar sync.
type SyncStatus int

const (
	// SyncSkipped means no sync was requested or no syncer is configured.
	SyncSkipped SyncStatus = iota
	// SyncOK means the event was created; Link is set.
	SyncOK
	// SyncFailed means the sync was attempted and failed; Reason is set.
	SyncFailed
)

// SyncResult is the calendar-sync outcome, kept separate from the meeting
// creation itself.
type SyncResult struct {
	Status SyncStatus
	Link   string
	Reason string
}

// CreateInput carries the fields for a new meeting.
type CreateInput struct {
	Title       string
	Description string
	Date        string // YYYY-MM-DD, validated by the caller
	Time        string // HH:MM, empty means DefaultTime
	Location    string // empty means DefaultLocation
	Organizer   string
	Attendees   []string
	ChannelID   string

	// AddToCalendar requests the best-effort external sync.
	AddToCalendar bool
}

// Store owns the meeting collection and its persisted representation.
// Loaded once at open; the in-memory slice is the source of truth until the
// process exits. Every mutation rewrites the whole file.
type Store struct {
	mu       sync.Mutex
	path     string
	meetings []*Meeting

	syncer          Syncer
	defaultAttendee string
	lastID          int64

	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSyncer attaches the external calendar syncer.
func WithSyncer(s Syncer) Option {
	return func(st *Store) { st.syncer = s }
}

// WithDefaultAttendee sets the contact appended to every meeting's
// attendee list.
func WithDefaultAttendee(email string) Option {
	return func(st *Store) { st.defaultAttendee = email }
}

// Open loads the store from path. An absent file yields an empty store.
func Open(path string, logger *slog.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	st := &Store{path: path, logger: logger}
	for _, opt := range opts {
		opt(st)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading meetings file: %w", err)
	}
	if err := json.Unmarshal(data, &st.meetings); err != nil {
		return nil, fmt.Errorf("parsing meetings file: %w", err)
	}
	logger.Info("meetings loaded", "count", len(st.meetings), "path", path)
	return st, nil
}

// Create allocates an ID, applies defaults, appends, persists, and then
// optionally requests the external calendar sync. The sync outcome is
// reported separately and never affects creation.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Meeting, SyncResult) {
	s.mu.Lock()
	m := &Meeting{
		ID:          s.nextID(),
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
		Location:    in.Location,
		Organizer:   in.Organizer,
		Attendees:   s.normalizeAttendees(in.Attendees),
		ChannelID:   in.ChannelID,
		CreatedAt:   time.Now(),
	}
	if m.Time == "" {
		m.Time = DefaultTime
	}
	if m.Location == "" {
		m.Location = DefaultLocation
	}

	s.meetings = append(s.meetings, m)
	s.persist()
	s.mu.Unlock()

	s.logger.Info("meeting created", "id", m.ID, "title", m.Title, "date", m.Date, "time", m.Time)

	sync := SyncResult{Status: SyncSkipped}
	if in.AddToCalendar && s.syncer != nil {
		link, err := s.syncer.Sync(ctx, m)
		if err != nil {
			s.logger.Warn("calendar sync failed", "id", m.ID, "error", err)
			sync = SyncResult{Status: SyncFailed, Reason: err.Error()}
		} else {
			s.mu.Lock()
			m.CalendarLink = link
			s.persist()
			s.mu.Unlock()
			sync = SyncResult{Status: SyncOK, Link: link}
		}
	}
	return m, sync
}

// Get returns the meeting with the given ID.
func (s *Store) Get(id string) (*Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.meetings {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

// ListUpcoming returns meetings whose date+time is strictly in the future,
// sorted ascending by start time.
func (s *Store) ListUpcoming() []*Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var result []*Meeting
	for _, m := range s.meetings {
		start, err := m.StartTime()
		if err != nil {
			s.logger.Warn("meeting has unparseable date/time", "id", m.ID, "date", m.Date, "time", m.Time)
			continue
		}
		if start.After(now) {
			result = append(result, m)
		}
	}
	slices.SortFunc(result, func(a, b *Meeting) int {
		sa, _ := a.StartTime()
		sb, _ := b.StartTime()
		return sa.Compare(sb)
	})
	return result
}

// ListNeedingReminders returns meetings with no reminder sent whose start
// is still ahead and whose date falls within the next windowDays. The
// window boundary compares dates only, ignoring time of day; the
// has-it-passed check uses the full date+time.
func (s *Store) ListNeedingReminders(windowDays int) []*Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	threshold := now.AddDate(0, 0, windowDays)

	var result []*Meeting
	for _, m := range s.meetings {
		if m.ReminderSent {
			continue
		}
		start, err := m.StartTime()
		if err != nil {
			continue
		}
		date, err := m.DateOnly()
		if err != nil {
			continue
		}
		if start.After(now) && !date.After(threshold) {
			result = append(result, m)
		}
	}
	return result
}

// MarkReminderSent flips the reminder flag and persists. A missing ID is a
// no-op, not an error; the flag never goes back to false.
func (s *Store) MarkReminderSent(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.meetings {
		if m.ID == id {
			if !m.ReminderSent {
				m.ReminderSent = true
				s.persist()
			}
			return
		}
	}
}

// Delete removes a meeting by ID and reports whether a record was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.meetings)
	s.meetings = slices.DeleteFunc(s.meetings, func(m *Meeting) bool {
		return m.ID == id
	})
	if len(s.meetings) == before {
		return false
	}
	s.persist()
	s.logger.Info("meeting deleted", "id", id)
	return true
}

// Patch holds the updatable meeting fields; nil pointers leave the field
// untouched.
type Patch struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	Location    *string
	Attendees   []string
}

// Update merges the patch into the meeting, stamps UpdatedAt, and persists.
func (s *Store) Update(id string, p Patch) (*Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.meetings {
		if m.ID != id {
			continue
		}
		if p.Title != nil {
			m.Title = *p.Title
		}
		if p.Description != nil {
			m.Description = *p.Description
		}
		if p.Date != nil {
			m.Date = *p.Date
		}
		if p.Time != nil {
			m.Time = *p.Time
		}
		if p.Location != nil {
			m.Location = *p.Location
		}
		if p.Attendees != nil {
			m.Attendees = s.normalizeAttendees(p.Attendees)
		}
		now := time.Now()
		m.UpdatedAt = &now
		s.persist()
		return m, nil
	}
	return nil, ErrNotFound
}

// Len returns the number of stored meetings.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.meetings)
}

// All returns the stored meetings in persisted order.
func (s *Store) All() []*Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.meetings)
}

// nextID derives a unique millisecond-timestamp ID. Creations within the
// same millisecond bump the counter so IDs stay unique and ordered.
// Caller holds the lock.
func (s *Store) nextID() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// normalizeAttendees removes duplicates, preserves order, and appends the
// default attendee when configured. Caller holds the lock.
func (s *Store) normalizeAttendees(in []string) []string {
	seen := make(map[string]bool, len(in)+1)
	out := make([]string, 0, len(in)+1)
	for _, a := range in {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	if s.defaultAttendee != "" && !seen[s.defaultAttendee] {
		out = append(out, s.defaultAttendee)
	}
	return out
}

// persist rewrites the whole file. A write failure is logged and the
// in-memory state kept, so the running process stays consistent until the
// next write succeeds or a restart. Caller holds the lock.
func (s *Store) persist() {
	data, err := json.MarshalIndent(s.meetings, "", "  ")
	if err != nil {
		s.logger.Error("encoding meetings failed", "error", err)
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		s.logger.Error("persisting meetings failed", "path", s.path, "error", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Error("persisting meetings failed", "path", s.path, "error", err)
	}
}
