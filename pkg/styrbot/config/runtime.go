// Package config – runtime.go manages the small JSON file that holds
// overrides set from chat at runtime. Today that is a single value: the
// calendar ID chosen by the create-calendar command. The file is rewritten
// wholesale on every change and loaded once at startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// runtimeState is the persisted shape of the override file.
type runtimeState struct {
	CalendarID string `json:"calendarId,omitempty"`
}

// RuntimeStore owns the runtime override file.
type RuntimeStore struct {
	mu    sync.Mutex
	path  string
	state runtimeState
}

// OpenRuntime loads the override file at path. An absent file yields an
// empty store, not an error.
func OpenRuntime(path string) (*RuntimeStore, error) {
	rs := &RuntimeStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return rs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &rs.state); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rs, nil
}

// CalendarID returns the overridden calendar ID, or empty when unset.
func (rs *RuntimeStore) CalendarID() string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.state.CalendarID
}

// SetCalendarID records a new calendar ID and persists the file.
func (rs *RuntimeStore) SetCalendarID(id string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.state.CalendarID = id
	return rs.persist()
}

// persist rewrites the whole file. Caller holds the lock.
func (rs *RuntimeStore) persist() error {
	data, err := json.MarshalIndent(rs.state, "", "  ")
	if err != nil {
		return err
	}
	tmp := rs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, rs.path)
}
