// Package meetings owns the durable collection of scheduled board meetings:
// creation with defaults and optional calendar sync, the upcoming and
// reminder-window queries, and the reminder-sent flag. The collection is a
// flat JSON file rewritten wholesale on every mutation.
package meetings

import (
	"fmt"
	"strings"
	"time"
)

// Defaults applied at creation time.
const (
	DefaultTime     = "18:00"
	DefaultLocation = "Online"
)

// Meeting is one scheduled board meeting.
type Meeting struct {
	// ID is assigned at creation and never changes. Millisecond-timestamp
	// derived, so later meetings sort after earlier ones.
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Date is the calendar date, YYYY-MM-DD.
	Date string `json:"date"`

	// Time is the local clock time, HH:MM.
	Time string `json:"time"`

	Location  string   `json:"location"`
	Organizer string   `json:"organizer"`
	Attendees []string `json:"attendees"`

	// ChannelID is the chat channel the meeting was created from;
	// reminders are posted back there.
	ChannelID string `json:"channel_id"`

	// ReminderSent transitions false to true exactly once.
	ReminderSent bool `json:"reminder_sent"`

	// CalendarLink is set after a successful external calendar sync.
	CalendarLink string `json:"calendar_link,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// StartTime combines Date and Time in the local timezone.
func (m *Meeting) StartTime() (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", m.Date+" "+m.Time, time.Local)
}

// DateOnly is the meeting date at local midnight, the granularity used by
// the reminder-window query.
func (m *Meeting) DateOnly() (time.Time, error) {
	return time.ParseInLocation("2006-01-02", m.Date, time.Local)
}

// DisplayDate renders the date as DD/MM/YYYY for chat messages.
func (m *Meeting) DisplayDate() string {
	parts := strings.SplitN(m.Date, "-", 3)
	if len(parts) != 3 {
		return m.Date
	}
	return fmt.Sprintf("%s/%s/%s", parts[2], parts[1], parts[0])
}

// ReminderMessage composes the reminder posted to the meeting's channel.
func (m *Meeting) ReminderMessage() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## 📅 Påminnelse: %s\n\n", m.Title)
	fmt.Fprintf(&sb, "**Datum:** %s\n", m.DisplayDate())
	fmt.Fprintf(&sb, "**Tid:** %s\n", m.Time)
	fmt.Fprintf(&sb, "**Plats:** %s\n\n", m.Location)
	if m.Description != "" {
		fmt.Fprintf(&sb, "**Beskrivning:** %s\n\n", m.Description)
	}
	sb.WriteString("Detta är en påminnelse om ett kommande styrelsemöte. Vänligen bekräfta din närvaro.")
	return sb.String()
}
