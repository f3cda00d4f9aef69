// Package bot – commands.go defines the slash-command registry. A command
// is either a canned template posted verbatim or an action run against the
// bot's services.
package bot

import (
	"context"
	"strings"
)

// Command is a registry entry: either a Template or an Action.
type Command interface {
	isCommand()
}

// Template is a fixed reply posted as-is.
type Template string

func (Template) isCommand() {}

// Action is a handler invoked with the incoming message.
type Action func(ctx context.Context, b *Bot, in *Incoming) error

func (Action) isCommand() {}

// commandTable builds the registry. Lookup is by the first whitespace
// token, lowercased, with trailing punctuation stripped.
func commandTable() map[string]Command {
	return map[string]Command{
		"/dagordning": Template(templateAgenda),
		"/protokoll":  Template(templateMinutes),
		"/budget":     Template(templateBudget),
		"/checklista": Template(templateChecklist),
		"/hjälp":      Template(helpText),
		"/visa-moten": Action(func(ctx context.Context, b *Bot, in *Incoming) error {
			return b.handleListMeetings(ctx, in)
		}),
		"/visa-möten": Action(func(ctx context.Context, b *Bot, in *Incoming) error {
			return b.handleListMeetings(ctx, in)
		}),
	}
}

// commandToken normalizes the first token of a message for registry
// lookup.
func commandToken(clean string) string {
	fields := strings.Fields(clean)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(strings.ToLower(fields[0]), ".,!?:;")
}
