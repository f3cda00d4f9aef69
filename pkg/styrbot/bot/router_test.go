package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hjalmarsson/styrbot/pkg/styrbot/mattermost"
	"github.com/hjalmarsson/styrbot/pkg/styrbot/meetings"
)

type fakeChat struct {
	posts   []*mattermost.Post
	userErr error
}

func (f *fakeChat) CreatePost(ctx context.Context, p *mattermost.Post) (*mattermost.Post, error) {
	out := *p
	out.ID = fmt.Sprintf("post-%d", len(f.posts)+1)
	f.posts = append(f.posts, &out)
	return &out, nil
}

func (f *fakeChat) GetUser(ctx context.Context, userID string) (*mattermost.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return &mattermost.User{ID: userID, Username: "anna", FirstName: "Anna"}, nil
}

type fakeGen struct {
	calls int
	reply string
	err   error
}

func (f *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestBot(t *testing.T, chat *fakeChat, gen *fakeGen) *Bot {
	t.Helper()
	dir := t.TempDir()
	store, err := meetings.Open(filepath.Join(dir, "meetings.json"), nil)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	intros, err := OpenIntroductions(filepath.Join(dir, "introduced_channels.json"), nil)
	if err != nil {
		t.Fatalf("opening introductions: %v", err)
	}
	return New(Options{
		Chat:      chat,
		Generator: gen,
		Store:     store,
		Intros:    intros,
		BotID:     "bot-user",
	})
}

func incoming(channel, message string) *Incoming {
	return &Incoming{
		Post:  &mattermost.Post{ID: "origin", UserID: "user-1", ChannelID: channel, Message: message},
		Clean: message,
	}
}

func TestHelpCommandNeverReachesGenerator(t *testing.T) {
	chat := &fakeChat{}
	gen := &fakeGen{reply: "should not be used"}
	b := newTestBot(t, chat, gen)
	b.intros.Mark("chan-a")

	b.Route(context.Background(), incoming("chan-a", "/hjälp"))

	if gen.calls != 0 {
		t.Errorf("generator called %d times for a registry command", gen.calls)
	}
	if len(chat.posts) != 1 || chat.posts[0].Message != helpText {
		t.Fatalf("expected exactly the help text, got %d posts", len(chat.posts))
	}
}

func TestCommandTokenIsCaseAndPunctuationInsensitive(t *testing.T) {
	chat := &fakeChat{}
	b := newTestBot(t, chat, &fakeGen{})
	b.intros.Mark("chan-a")

	b.Route(context.Background(), incoming("chan-a", "/HJÄLP!"))

	if len(chat.posts) != 1 || chat.posts[0].Message != helpText {
		t.Fatalf("uppercase command not recognized, got %d posts", len(chat.posts))
	}
}

func TestIntroductionHappensOncePerChannel(t *testing.T) {
	chat := &fakeChat{}
	b := newTestBot(t, chat, &fakeGen{})

	b.Route(context.Background(), incoming("chan-a", "/dagordning"))
	if len(chat.posts) != 2 {
		t.Fatalf("first message: got %d posts, want introduction + template", len(chat.posts))
	}
	if !strings.Contains(chat.posts[0].Message, "Anna") {
		t.Errorf("introduction not personalized: %q", chat.posts[0].Message)
	}
	if chat.posts[1].Message != templateAgenda {
		t.Error("template not posted after introduction")
	}

	b.Route(context.Background(), incoming("chan-a", "/dagordning"))
	if len(chat.posts) != 3 {
		t.Errorf("second message: got %d posts total, introduction must not repeat", len(chat.posts))
	}

	// A different channel gets its own introduction.
	b.Route(context.Background(), incoming("chan-b", "/dagordning"))
	if len(chat.posts) != 5 {
		t.Errorf("new channel: got %d posts total, want introduction + template", len(chat.posts))
	}
}

func TestIntroductionFallsBackWhenProfileFetchFails(t *testing.T) {
	chat := &fakeChat{userErr: errors.New("forbidden")}
	b := newTestBot(t, chat, &fakeGen{})

	b.Route(context.Background(), incoming("chan-a", "hej"))

	if len(chat.posts) != 1 || chat.posts[0].Message != introGeneric {
		t.Fatalf("expected the generic introduction, got %d posts", len(chat.posts))
	}
}

func TestGreetingOnlyStopsAfterIntroduction(t *testing.T) {
	chat := &fakeChat{}
	gen := &fakeGen{reply: "Hej själv!"}
	b := newTestBot(t, chat, gen)

	b.Route(context.Background(), incoming("chan-a", "Hej!"))
	if len(chat.posts) != 1 {
		t.Fatalf("greeting in new channel: got %d posts, want introduction only", len(chat.posts))
	}
	if gen.calls != 0 {
		t.Error("generator called for a bare greeting")
	}

	// The same greeting in an introduced channel goes to the generator.
	b.Route(context.Background(), incoming("chan-a", "Hej!"))
	if gen.calls != 1 {
		t.Errorf("generator calls = %d after second greeting, want 1", gen.calls)
	}
}

func TestFallbackRepliesInThread(t *testing.T) {
	chat := &fakeChat{}
	gen := &fakeGen{reply: "Kassören ansvarar för ekonomin."}
	b := newTestBot(t, chat, gen)
	b.intros.Mark("chan-a")

	b.Route(context.Background(), incoming("chan-a", "vad gör en kassör?"))

	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
	reply := chat.posts[len(chat.posts)-1]
	if reply.Message != gen.reply {
		t.Errorf("reply = %q", reply.Message)
	}
	if reply.RootID != "origin" {
		t.Errorf("reply root = %q, want the triggering post ID", reply.RootID)
	}
}

func TestFallbackApologizesOnGenerationFailure(t *testing.T) {
	chat := &fakeChat{}
	gen := &fakeGen{err: errors.New("quota exceeded")}
	b := newTestBot(t, chat, gen)
	b.intros.Mark("chan-a")

	b.Route(context.Background(), incoming("chan-a", "vad gör en kassör?"))

	reply := chat.posts[len(chat.posts)-1]
	if reply.Message != msgApology {
		t.Errorf("reply = %q, want the apology", reply.Message)
	}
}

func TestCreateMeetingTrigger(t *testing.T) {
	chat := &fakeChat{}
	b := newTestBot(t, chat, &fakeGen{})
	b.intros.Mark("chan-a")

	b.Route(context.Background(), incoming("chan-a", "/skapa-möte Styrelsemöte 2031-06-15 18:30 Konferensrummet @anna@example.se"))

	if b.store.Len() != 1 {
		t.Fatalf("store has %d meetings, want 1", b.store.Len())
	}
	m := b.store.All()[0]
	if m.Title != "Styrelsemöte" || m.Date != "2031-06-15" || m.Time != "18:30" || m.Location != "Konferensrummet" {
		t.Errorf("stored meeting = %+v", m)
	}
	if m.Organizer != "user-1" || m.ChannelID != "chan-a" {
		t.Errorf("organizer/channel not taken from the post: %+v", m)
	}
	if len(m.Attendees) != 1 || m.Attendees[0] != "anna@example.se" {
		t.Errorf("attendees = %v", m.Attendees)
	}

	reply := chat.posts[len(chat.posts)-1]
	if !strings.Contains(reply.Message, "Möte skapat") || !strings.Contains(reply.Message, m.ID) {
		t.Errorf("confirmation missing details:\n%s", reply.Message)
	}
}

func TestCreateMeetingWithoutDateIsRejected(t *testing.T) {
	chat := &fakeChat{}
	b := newTestBot(t, chat, &fakeGen{})
	b.intros.Mark("chan-a")

	b.Route(context.Background(), incoming("chan-a", "/skapa-möte Styrelsemöte imorgon"))

	if b.store.Len() != 0 {
		t.Errorf("store has %d meetings, want 0", b.store.Len())
	}
	if reply := chat.posts[len(chat.posts)-1]; reply.Message != msgInvalidDate {
		t.Errorf("reply = %q, want the invalid-date hint", reply.Message)
	}
}

func TestListDeleteAndRemindMeetings(t *testing.T) {
	chat := &fakeChat{}
	b := newTestBot(t, chat, &fakeGen{})
	b.intros.Mark("chan-a")
	ctx := context.Background()

	b.Route(ctx, incoming("chan-a", "/visa-möten"))
	if reply := chat.posts[len(chat.posts)-1]; !strings.Contains(reply.Message, "Inga kommande möten") {
		t.Errorf("empty list reply = %q", reply.Message)
	}

	b.Route(ctx, incoming("chan-a", "/skapa-möte Vårmöte 2031-05-01 17:00 Aulan"))
	m := b.store.All()[0]

	b.Route(ctx, incoming("chan-a", "/visa-möten"))
	if reply := chat.posts[len(chat.posts)-1]; !strings.Contains(reply.Message, "Vårmöte") {
		t.Errorf("listing missing the meeting:\n%s", reply.Message)
	}

	b.Route(ctx, incoming("chan-a", "/påminn-möte "+m.ID))
	// Reminder goes to the meeting channel, confirmation to the thread.
	if n := len(chat.posts); n < 2 ||
		!strings.Contains(chat.posts[n-2].Message, "Påminnelse") ||
		!strings.Contains(chat.posts[n-1].Message, "Påminnelse skickad") {
		t.Error("manual reminder did not post reminder + confirmation")
	}

	b.Route(ctx, incoming("chan-a", "/ta-bort-möte "+m.ID))
	if b.store.Len() != 0 {
		t.Error("meeting not deleted")
	}
	b.Route(ctx, incoming("chan-a", "/ta-bort-möte "+m.ID))
	if reply := chat.posts[len(chat.posts)-1]; !strings.Contains(reply.Message, "Kunde inte hitta") {
		t.Errorf("deleting a missing meeting: reply = %q", reply.Message)
	}
}

func TestGoogleFeaturesAnswerWhenUnconfigured(t *testing.T) {
	chat := &fakeChat{}
	gen := &fakeGen{reply: "generated"}
	b := newTestBot(t, chat, gen)
	b.intros.Mark("chan-a")
	ctx := context.Background()

	for _, msg := range []string{"sök efter budget", "/testa-kalender", "skapa dokument Plan"} {
		b.Route(ctx, incoming("chan-a", msg))
		if reply := chat.posts[len(chat.posts)-1]; reply.Message != msgGoogleNotConfigured {
			t.Errorf("%q: reply = %q, want unconfigured notice", msg, reply.Message)
		}
	}
	if gen.calls != 0 {
		t.Error("google-feature messages must not fall through to the generator")
	}
}

func TestBareSearchSynonymsRouteToSearch(t *testing.T) {
	chat := &fakeChat{}
	gen := &fakeGen{reply: "generated"}
	b := newTestBot(t, chat, gen)
	b.intros.Mark("chan-a")
	ctx := context.Background()

	for _, msg := range []string{"sök budget", "leta protokoll", "hitta stadgarna"} {
		b.Route(ctx, incoming("chan-a", msg))
		if reply := chat.posts[len(chat.posts)-1]; reply.Message != msgGoogleNotConfigured {
			t.Errorf("%q: reply = %q, want the search handler's reply", msg, reply.Message)
		}
	}
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, search messages must not fall through", gen.calls)
	}
}

func TestSummarizeURLMatchesAnywhereInMessage(t *testing.T) {
	chat := &fakeChat{}
	gen := &fakeGen{reply: "generated"}
	b := newTestBot(t, chat, gen)
	b.intros.Mark("chan-a")

	b.Route(context.Background(), incoming("chan-a",
		"kan du sammanfatta https://docs.google.com/document/d/abc123DEF456"))

	if reply := chat.posts[len(chat.posts)-1]; reply.Message != msgGoogleNotConfigured {
		t.Errorf("reply = %q, want the summarize handler's reply", reply.Message)
	}
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, the URL form must route to summarize", gen.calls)
	}
}

func postedEvent(t *testing.T, post *mattermost.Post, channelType string) *mattermost.Event {
	t.Helper()
	raw, err := json.Marshal(post)
	if err != nil {
		t.Fatalf("marshal post: %v", err)
	}
	ev := &mattermost.Event{Event: mattermost.EventPosted}
	ev.Data.Post = string(raw)
	ev.Data.ChannelType = channelType
	return ev
}

func TestHandleEventFiltering(t *testing.T) {
	chat := &fakeChat{}
	gen := &fakeGen{reply: "svar"}
	b := newTestBot(t, chat, gen)
	b.intros.Mark("chan-a")
	ctx := context.Background()

	// The bot's own posts are ignored.
	b.HandleEvent(ctx, postedEvent(t, &mattermost.Post{UserID: "bot-user", ChannelID: "chan-a", Message: "hej"}, "O"))
	// Public-channel posts without a mention are ignored.
	b.HandleEvent(ctx, postedEvent(t, &mattermost.Post{UserID: "user-1", ChannelID: "chan-a", Message: "hur går det?"}, "O"))
	if len(chat.posts) != 0 || gen.calls != 0 {
		t.Fatal("filtered events produced activity")
	}

	// A mention routes, with the mention stripped before parsing.
	b.HandleEvent(ctx, postedEvent(t, &mattermost.Post{ID: "p1", UserID: "user-1", ChannelID: "chan-a", Message: "@bot-user /hjälp"}, "O"))
	if len(chat.posts) != 1 || chat.posts[0].Message != helpText {
		t.Fatalf("mentioned command not handled, got %d posts", len(chat.posts))
	}

	// Direct messages need no mention.
	b.intros.Mark("dm-1")
	b.HandleEvent(ctx, postedEvent(t, &mattermost.Post{ID: "p2", UserID: "user-1", ChannelID: "dm-1", Message: "vad gör en kassör?"}, "D"))
	if gen.calls != 1 {
		t.Errorf("DM did not reach the generator, calls = %d", gen.calls)
	}
}
