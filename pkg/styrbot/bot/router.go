// Package bot – router.go defines the ordered natural-language trigger
// table. The first matching trigger wins; order is part of the contract
// and covered by tests.
package bot

import (
	"context"
	"strings"
)

// Trigger pairs a matcher with its handler. Match receives the lowercased
// mention-stripped message. Handle has method-expression shape so the
// table can reference handlers directly.
type Trigger struct {
	Name   string
	Match  func(lower string) bool
	Handle func(b *Bot, ctx context.Context, in *Incoming) error
}

// triggerTable returns the triggers in evaluation order.
func triggerTable() []Trigger {
	return []Trigger{
		{
			Name: "drive-search",
			Match: func(lower string) bool {
				return strings.HasPrefix(lower, "sök ") ||
					strings.HasPrefix(lower, "leta ") ||
					strings.HasPrefix(lower, "hitta ")
			},
			Handle: (*Bot).handleSearch,
		},
		{
			Name: "summarize-document",
			Match: func(lower string) bool {
				return strings.Contains(lower, "sammanfatta dokument") ||
					summarizeURLPattern.MatchString(lower)
			},
			Handle: (*Bot).handleSummarize,
		},
		{
			Name: "create-document",
			Match: func(lower string) bool {
				return strings.HasPrefix(lower, "skapa dokument") ||
					strings.HasPrefix(lower, "generera dokument")
			},
			Handle: (*Bot).handleCreateDocument,
		},
		{
			Name:   "create-meeting",
			Match:  prefixMatcher("/skapa-möte"),
			Handle: (*Bot).handleCreateMeeting,
		},
		{
			Name: "list-meetings",
			Match: func(lower string) bool {
				return strings.HasPrefix(lower, "/visa-möten") || strings.HasPrefix(lower, "/visa-moten")
			},
			Handle: (*Bot).handleListMeetings,
		},
		{
			Name:   "remind-meeting",
			Match:  prefixMatcher("/påminn-möte"),
			Handle: (*Bot).handleRemindMeeting,
		},
		{
			Name:   "delete-meeting",
			Match:  prefixMatcher("/ta-bort-möte"),
			Handle: (*Bot).handleDeleteMeeting,
		},
		{
			Name:   "test-calendar",
			Match:  prefixMatcher("/testa-kalender"),
			Handle: (*Bot).handleTestCalendar,
		},
		{
			Name:   "create-calendar",
			Match:  prefixMatcher("/skapa-kalender"),
			Handle: (*Bot).handleCreateCalendar,
		},
	}
}

func prefixMatcher(prefix string) func(string) bool {
	return func(lower string) bool { return strings.HasPrefix(lower, prefix) }
}

// argAfter returns the trimmed text following the given command prefix.
// The prefixes only contain characters whose upper- and lowercase UTF-8
// encodings have equal length, so slicing the original string by the byte
// length of the prefix is safe.
func argAfter(clean, prefix string) string {
	if len(clean) <= len(prefix) {
		return ""
	}
	return strings.TrimSpace(clean[len(prefix):])
}
