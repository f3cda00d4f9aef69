package bot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Introductions tracks the channels the bot has already introduced itself
// in. The set is persisted as a JSON array so introductions survive
// restarts.
type Introductions struct {
	mu     sync.Mutex
	path   string
	order  []string
	seen   map[string]bool
	logger *slog.Logger
}

// OpenIntroductions loads the tracker from path. An absent file yields an
// empty set.
func OpenIntroductions(path string, logger *slog.Logger) (*Introductions, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Introductions{path: path, seen: make(map[string]bool), logger: logger}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading introduced channels: %w", err)
	}
	var channels []string
	if err := json.Unmarshal(data, &channels); err != nil {
		return nil, fmt.Errorf("parsing introduced channels: %w", err)
	}
	for _, ch := range channels {
		if !t.seen[ch] {
			t.seen[ch] = true
			t.order = append(t.order, ch)
		}
	}
	return t, nil
}

// Has reports whether the channel was introduced already.
func (t *Introductions) Has(channelID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seen[channelID]
}

// Mark records the channel as introduced and persists. Marking an already
// known channel is a no-op.
func (t *Introductions) Mark(channelID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seen[channelID] {
		return
	}
	t.seen[channelID] = true
	t.order = append(t.order, channelID)
	t.persist()
}

// persist rewrites the file; failures are logged, the in-memory set stays.
// Caller holds the lock.
func (t *Introductions) persist() {
	data, err := json.MarshalIndent(t.order, "", "  ")
	if err != nil {
		t.logger.Error("encoding introduced channels failed", "error", err)
		return
	}
	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		t.logger.Error("persisting introduced channels failed", "path", t.path, "error", err)
		return
	}
	if err := os.Rename(tmp, t.path); err != nil {
		t.logger.Error("persisting introduced channels failed", "path", t.path, "error", err)
	}
}
