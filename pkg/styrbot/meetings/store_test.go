package meetings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "meetings.json"), nil, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return st
}

// dateFromNow returns a YYYY-MM-DD string the given number of days ahead.
func dateFromNow(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestCreateAppliesDefaults(t *testing.T) {
	st := newTestStore(t)

	m, sync := st.Create(context.Background(), CreateInput{
		Title: "Årsmöte",
		Date:  "2030-09-01",
	})

	if m.Time != "18:00" {
		t.Errorf("default time = %q, want 18:00", m.Time)
	}
	if m.Location != "Online" {
		t.Errorf("default location = %q, want Online", m.Location)
	}
	if m.ID == "" {
		t.Error("meeting ID not assigned")
	}
	if m.ReminderSent {
		t.Error("new meeting must start with reminder_sent=false")
	}
	if sync.Status != SyncSkipped {
		t.Errorf("sync status = %v, want SyncSkipped without syncer", sync.Status)
	}
}

func TestCreateDeduplicatesAndAppendsDefaultAttendee(t *testing.T) {
	st := newTestStore(t, WithDefaultAttendee("kassor@example.se"))

	m, _ := st.Create(context.Background(), CreateInput{
		Title:     "Styrelsemöte",
		Date:      "2030-06-15",
		Attendees: []string{"a@example.se", "b@example.se", "a@example.se"},
	})

	want := []string{"a@example.se", "b@example.se", "kassor@example.se"}
	if len(m.Attendees) != len(want) {
		t.Fatalf("attendees = %v, want %v", m.Attendees, want)
	}
	for i := range want {
		if m.Attendees[i] != want[i] {
			t.Errorf("attendees[%d] = %q, want %q", i, m.Attendees[i], want[i])
		}
	}
}

func TestIDsAreUniqueAndOrdered(t *testing.T) {
	st := newTestStore(t)
	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 50; i++ {
		m, _ := st.Create(context.Background(), CreateInput{Title: "M", Date: "2030-01-01"})
		if seen[m.ID] {
			t.Fatalf("duplicate ID %q", m.ID)
		}
		seen[m.ID] = true
		if prev != "" && len(m.ID) == len(prev) && m.ID <= prev {
			t.Fatalf("IDs not increasing: %q after %q", m.ID, prev)
		}
		prev = m.ID
	}
}

func TestListUpcomingContainsOnlyFutureMeetings(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	past, _ := st.Create(ctx, CreateInput{Title: "Gammalt", Date: "2001-01-01"})
	later, _ := st.Create(ctx, CreateInput{Title: "Senare", Date: dateFromNow(20)})
	sooner, _ := st.Create(ctx, CreateInput{Title: "Snart", Date: dateFromNow(5)})

	upcoming := st.ListUpcoming()
	if len(upcoming) != 2 {
		t.Fatalf("len(upcoming) = %d, want 2", len(upcoming))
	}
	for _, m := range upcoming {
		if m.ID == past.ID {
			t.Error("past meeting included in upcoming")
		}
	}
	if upcoming[0].ID != sooner.ID || upcoming[1].ID != later.ID {
		t.Errorf("upcoming not sorted ascending: got %s, %s", upcoming[0].Title, upcoming[1].Title)
	}
}

func TestListNeedingReminders(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	within, _ := st.Create(ctx, CreateInput{Title: "Inom fönstret", Date: dateFromNow(3)})
	st.Create(ctx, CreateInput{Title: "Utanför fönstret", Date: dateFromNow(30)})
	st.Create(ctx, CreateInput{Title: "Passerat", Date: "2001-01-01"})
	sent, _ := st.Create(ctx, CreateInput{Title: "Redan påmint", Date: dateFromNow(2)})
	st.MarkReminderSent(sent.ID)

	due := st.ListNeedingReminders(7)
	if len(due) != 1 {
		t.Fatalf("len(due) = %d, want 1 (got %+v)", len(due), due)
	}
	if due[0].ID != within.ID {
		t.Errorf("due meeting = %q, want %q", due[0].Title, within.Title)
	}
	for _, m := range due {
		if m.ReminderSent {
			t.Error("due list contains a meeting with reminder_sent=true")
		}
		if start, _ := m.StartTime(); !start.After(time.Now()) {
			t.Error("due list contains a meeting in the past")
		}
	}
}

func TestMarkReminderSentIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	m, _ := st.Create(context.Background(), CreateInput{Title: "M", Date: dateFromNow(3)})

	st.MarkReminderSent(m.ID)
	st.MarkReminderSent(m.ID)

	got, err := st.Get(m.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.ReminderSent {
		t.Error("reminder_sent = false after MarkReminderSent")
	}

	// Absent IDs are a no-op, not a panic or error.
	st.MarkReminderSent("does-not-exist")
}

func TestDelete(t *testing.T) {
	st := newTestStore(t)
	m, _ := st.Create(context.Background(), CreateInput{Title: "M", Date: "2030-01-01"})

	if !st.Delete(m.ID) {
		t.Error("Delete returned false for existing meeting")
	}
	if st.Delete(m.ID) {
		t.Error("Delete returned true for already-removed meeting")
	}
	if st.Len() != 0 {
		t.Errorf("Len = %d after delete, want 0", st.Len())
	}
}

func TestUpdate(t *testing.T) {
	st := newTestStore(t)
	m, _ := st.Create(context.Background(), CreateInput{Title: "Gammal titel", Date: "2030-01-01"})

	title := "Ny titel"
	loc := "Aulan"
	updated, err := st.Update(m.ID, Patch{Title: &title, Location: &loc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || updated.Location != loc {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.UpdatedAt == nil {
		t.Error("UpdatedAt not stamped")
	}
	if updated.Date != "2030-01-01" {
		t.Errorf("untouched field changed: date = %q", updated.Date)
	}

	if _, err := st.Update("missing", Patch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update on missing ID: err = %v, want ErrNotFound", err)
	}
}

func TestSyncResultSurfacedSeparately(t *testing.T) {
	okSync := syncerFunc(func(ctx context.Context, m *Meeting) (string, error) {
		return "https://calendar.example/event", nil
	})
	st := newTestStore(t, WithSyncer(okSync))
	m, sync := st.Create(context.Background(), CreateInput{Title: "M", Date: "2030-01-01", AddToCalendar: true})
	if sync.Status != SyncOK || sync.Link == "" {
		t.Errorf("sync = %+v, want SyncOK with link", sync)
	}
	if m.CalendarLink != sync.Link {
		t.Errorf("calendar link not recorded on meeting: %q", m.CalendarLink)
	}

	failSync := syncerFunc(func(ctx context.Context, m *Meeting) (string, error) {
		return "", errors.New("forbidden")
	})
	st2 := newTestStore(t, WithSyncer(failSync))
	m2, sync2 := st2.Create(context.Background(), CreateInput{Title: "M", Date: "2030-01-01", AddToCalendar: true})
	if sync2.Status != SyncFailed || sync2.Reason == "" {
		t.Errorf("sync = %+v, want SyncFailed with reason", sync2)
	}
	// The meeting itself is still created.
	if _, err := st2.Get(m2.ID); err != nil {
		t.Errorf("meeting missing after failed sync: %v", err)
	}
}

type syncerFunc func(ctx context.Context, m *Meeting) (string, error)

func (f syncerFunc) Sync(ctx context.Context, m *Meeting) (string, error) { return f(ctx, m) }

func TestPersistRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meetings.json")

	st, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()
	st.Create(ctx, CreateInput{Title: "Första", Date: "2030-01-01", Attendees: []string{"a@example.se"}})
	st.Create(ctx, CreateInput{Title: "Andra", Date: "2030-02-01", Location: "Aulan"})

	reloaded, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	orig := st.All()
	got := reloaded.All()
	if len(got) != len(orig) {
		t.Fatalf("reloaded %d meetings, want %d", len(got), len(orig))
	}
	for i := range orig {
		if got[i].ID != orig[i].ID || got[i].Title != orig[i].Title ||
			got[i].Date != orig[i].Date || got[i].Time != orig[i].Time ||
			got[i].Location != orig[i].Location {
			t.Errorf("record %d differs after reload:\n got %+v\nwant %+v", i, got[i], orig[i])
		}
	}
}
