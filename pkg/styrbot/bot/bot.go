// Package bot wires the Mattermost event stream to the command registry,
// the natural-language triggers, and the generative fallback.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hjalmarsson/styrbot/pkg/styrbot/calendar"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/config"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/drive"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/mattermost"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/meetings"
)

// Chat is the slice of the Mattermost client the bot posts through.
type Chat interface {
	CreatePost(ctx context.Context, post *mattermost.Post) (*mattermost.Post, error)
	GetUser(ctx context.Context, userID string) (*mattermost.User, error)
}

// Generator produces free-form replies and document content.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Drive covers the document operations the bot needs. Nil when the Google
// integration is not configured.
type Drive interface {
	Search(ctx context.Context, query string) ([]drive.File, error)
	FolderName(ctx context.Context) string
	FileMeta(ctx context.Context, fileID string) (*drive.File, error)
	DocumentText(ctx context.Context, documentID string) (string, error)
	CreateDocument(ctx context.Context, title, markdown string) (*drive.File, error)
}

// Calendar covers the calendar management operations. Nil when the Google
// integration is not configured.
type Calendar interface {
	ListCalendars(ctx context.Context) ([]calendar.Calendar, error)
	CreateAndShare(ctx context.Context, name, email string) (*calendar.Calendar, error)
}

// Incoming is one message addressed to the bot. Clean is the message text
// with the bot mention stripped.
type Incoming struct {
	Post  *mattermost.Post
	Clean string
}

// Options carries the bot's collaborators.
type Options struct {
	Chat      Chat
	Generator Generator
	Drive     Drive
	Calendar  Calendar
	Store     *meetings.Store
	Intros    *Introductions
	Runtime   *config.RuntimeStore
	BotID     string
	Logger    *slog.Logger
}

// Bot routes incoming messages. Routing order: channel introduction, slash
// command registry, natural-language triggers, generative fallback.
type Bot struct {
	chat     Chat
	gen      Generator
	drive    Drive
	calendar Calendar
	store    *meetings.Store
	intros   *Introductions
	runtime  *config.RuntimeStore

	botID    string
	commands map[string]Command
	triggers []Trigger
	logger   *slog.Logger
}

// New assembles a Bot.
func New(opts Options) *Bot {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		chat:     opts.Chat,
		gen:      opts.Generator,
		drive:    opts.Drive,
		calendar: opts.Calendar,
		store:    opts.Store,
		intros:   opts.Intros,
		runtime:  opts.Runtime,
		botID:    opts.BotID,
		commands: commandTable(),
		triggers: triggerTable(),
		logger:   logger,
	}
}

// HandleEvent filters the raw event stream down to messages addressed to
// the bot and routes them. Non-post events, the bot's own posts, and
// public-channel posts without a mention are dropped.
func (b *Bot) HandleEvent(ctx context.Context, ev *mattermost.Event) {
	if ev.Event != mattermost.EventPosted {
		return
	}
	post, err := ev.DecodePost()
	if err != nil {
		b.logger.Warn("undecodable post event", "error", err)
		return
	}
	if post.UserID == b.botID {
		return
	}

	mention := "@" + b.botID
	if !ev.IsDirect() && !strings.Contains(post.Message, mention) {
		return
	}

	clean := strings.TrimSpace(strings.ReplaceAll(post.Message, mention, ""))
	b.Route(ctx, &Incoming{Post: post, Clean: clean})
}

// Route runs the message through the routing pipeline.
func (b *Bot) Route(ctx context.Context, in *Incoming) {
	if !b.intros.Has(in.Post.ChannelID) {
		b.intros.Mark(in.Post.ChannelID)
		b.introduce(ctx, in)
		if IsGreetingOnly(in.Clean) {
			return
		}
	}

	if strings.HasPrefix(in.Clean, "/") {
		if cmd, ok := b.commands[commandToken(in.Clean)]; ok {
			b.dispatch(ctx, in, cmd)
			return
		}
	}

	lower := strings.ToLower(in.Clean)
	for _, tr := range b.triggers {
		if !tr.Match(lower) {
			continue
		}
		if err := tr.Handle(b, ctx, in); err != nil {
			b.logger.Error("handler failed", "trigger", tr.Name, "error", err)
			b.reply(ctx, in.Post, msgApology)
		}
		return
	}

	b.fallback(ctx, in)
}

// dispatch runs one registry command.
func (b *Bot) dispatch(ctx context.Context, in *Incoming, cmd Command) {
	switch c := cmd.(type) {
	case Template:
		b.reply(ctx, in.Post, string(c))
	case Action:
		if err := c(ctx, b, in); err != nil {
			b.logger.Error("command failed", "command", commandToken(in.Clean), "error", err)
			b.reply(ctx, in.Post, msgApology)
		}
	}
}

// introduce posts the channel introduction, personalized when the sender's
// profile can be fetched.
func (b *Bot) introduce(ctx context.Context, in *Incoming) {
	user, err := b.chat.GetUser(ctx, in.Post.UserID)
	if err != nil {
		b.logger.Warn("fetching user for introduction failed", "user_id", in.Post.UserID, "error", err)
		b.post(ctx, in.Post.ChannelID, introGeneric)
		return
	}
	b.post(ctx, in.Post.ChannelID, fmt.Sprintf(introPersonalized, user.DisplayName()))
}

// fallback asks the generative backend and posts its answer.
func (b *Bot) fallback(ctx context.Context, in *Incoming) {
	answer, err := b.gen.Generate(ctx, in.Clean)
	if err != nil {
		b.logger.Error("generation failed", "error", err)
		b.reply(ctx, in.Post, msgApology)
		return
	}
	b.reply(ctx, in.Post, answer)
}

// reply posts into the thread of the triggering message.
func (b *Bot) reply(ctx context.Context, post *mattermost.Post, message string) {
	root := post.RootID
	if root == "" {
		root = post.ID
	}
	_, err := b.chat.CreatePost(ctx, &mattermost.Post{
		ChannelID: post.ChannelID,
		RootID:    root,
		Message:   message,
	})
	if err != nil {
		b.logger.Error("posting reply failed", "channel_id", post.ChannelID, "error", err)
	}
}

// post sends a top-level channel message (no thread).
func (b *Bot) post(ctx context.Context, channelID, message string) {
	_, err := b.chat.CreatePost(ctx, &mattermost.Post{ChannelID: channelID, Message: message})
	if err != nil {
		b.logger.Error("posting message failed", "channel_id", channelID, "error", err)
	}
}

// Notify implements the reminder sweeper's delivery interface.
func (b *Bot) Notify(ctx context.Context, channelID, message string) error {
	_, err := b.chat.CreatePost(ctx, &mattermost.Post{ChannelID: channelID, Message: message})
	return err
}
