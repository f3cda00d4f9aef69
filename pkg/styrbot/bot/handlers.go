// Package bot – handlers.go implements the natural-language trigger
// handlers. Provider failures are answered with a Swedish error message in
// the thread and logged; they never crash the event loop.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/hjalmarsson/styrbot/pkg/styrbot/meetings"
)

// maxSearchResults caps the hit list shown in chat.
const maxSearchResults = 10

func (b *Bot) handleSearch(ctx context.Context, in *Incoming) error {
	if b.drive == nil {
		b.reply(ctx, in.Post, msgGoogleNotConfigured)
		return nil
	}
	query := ParseSearchQuery(in.Clean)
	if query == "" {
		b.reply(ctx, in.Post, `Ange ett sökord. Exempel: "sök efter budget"`)
		return nil
	}

	folder := b.drive.FolderName(ctx)
	b.reply(ctx, in.Post, fmt.Sprintf("Söker efter %q i styrelsemappen %q...", query, folder))

	results, err := b.drive.Search(ctx, query)
	if err != nil {
		b.logger.Error("drive search failed", "query", query, "error", err)
		b.reply(ctx, in.Post, msgSearchFailed)
		return nil
	}
	if len(results) == 0 {
		b.reply(ctx, in.Post, fmt.Sprintf("Inga dokument hittades för %q i mappen %q.", query, folder))
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Sökresultat för %q\n\n", query)
	shown := results
	if len(shown) > maxSearchResults {
		shown = shown[:maxSearchResults]
	}
	for _, f := range shown {
		fmt.Fprintf(&sb, "- [%s](%s)", f.Name, f.WebViewLink)
		if f.Description != "" {
			fmt.Fprintf(&sb, " – %s", f.Description)
		}
		sb.WriteString("\n")
	}
	if len(results) > maxSearchResults {
		fmt.Fprintf(&sb, "\n_Visar %d av %d resultat._\n", maxSearchResults, len(results))
	}
	b.reply(ctx, in.Post, sb.String())
	return nil
}

func (b *Bot) handleSummarize(ctx context.Context, in *Incoming) error {
	if b.drive == nil {
		b.reply(ctx, in.Post, msgGoogleNotConfigured)
		return nil
	}
	docID, query := ExtractDocumentRef(in.Clean)
	if docID == "" && query == "" {
		b.reply(ctx, in.Post, msgSummarizeUsage)
		return nil
	}

	if docID == "" {
		b.reply(ctx, in.Post, fmt.Sprintf("Söker efter dokument med namn %q...", query))
		results, err := b.drive.Search(ctx, query)
		if err != nil {
			b.logger.Error("drive search failed", "query", query, "error", err)
			b.reply(ctx, in.Post, msgSummarizeFailed)
			return nil
		}
		for _, f := range results {
			if f.IsDocument() {
				docID = f.ID
				break
			}
		}
		if docID == "" {
			b.reply(ctx, in.Post, fmt.Sprintf("Hittade inget Google Docs-dokument som matchar %q.", query))
			return nil
		}
	}

	b.reply(ctx, in.Post, "Hämtar och sammanfattar dokumentet...")

	meta, err := b.drive.FileMeta(ctx, docID)
	if err != nil {
		b.logger.Error("fetching document metadata failed", "doc_id", docID, "error", err)
		b.reply(ctx, in.Post, msgSummarizeFailed)
		return nil
	}
	if !meta.IsDocument() {
		b.reply(ctx, in.Post, "Filen är inte ett Google Docs-dokument och kan inte sammanfattas.")
		return nil
	}

	text, err := b.drive.DocumentText(ctx, docID)
	if err != nil {
		b.logger.Error("fetching document text failed", "doc_id", docID, "error", err)
		b.reply(ctx, in.Post, msgSummarizeFailed)
		return nil
	}

	summary, err := b.gen.Generate(ctx, fmt.Sprintf(summaryPrompt, meta.Name, text))
	if err != nil {
		return fmt.Errorf("summarizing document: %w", err)
	}
	b.reply(ctx, in.Post, fmt.Sprintf("## Sammanfattning av %q\n\n%s", meta.Name, summary))
	return nil
}

func (b *Bot) handleCreateDocument(ctx context.Context, in *Incoming) error {
	if b.drive == nil {
		b.reply(ctx, in.Post, msgGoogleNotConfigured)
		return nil
	}
	lower := strings.ToLower(in.Clean)
	var rest string
	for _, prefix := range []string{"skapa dokument", "generera dokument"} {
		if strings.HasPrefix(lower, prefix) {
			rest = argAfter(in.Clean, prefix)
			break
		}
	}
	if rest == "" {
		b.reply(ctx, in.Post, msgCreateDocUsage)
		return nil
	}

	title, instructions := ParseDocumentRequest(rest)
	b.reply(ctx, in.Post, fmt.Sprintf("Skapar dokument med titeln %q... Detta kan ta en stund.", title))

	content, err := b.gen.Generate(ctx, fmt.Sprintf(documentPrompt, title, instructions))
	if err != nil {
		return fmt.Errorf("generating document content: %w", err)
	}
	f, err := b.drive.CreateDocument(ctx, title, content)
	if err != nil {
		b.logger.Error("creating document failed", "title", title, "error", err)
		b.reply(ctx, in.Post, "Ett fel uppstod när dokumentet skulle skapas. Kontrollera loggarna för mer information.")
		return nil
	}
	b.reply(ctx, in.Post, fmt.Sprintf("✅ Dokumentet är klart: [%s](%s)", f.Name, f.WebViewLink))
	return nil
}

func (b *Bot) handleCreateMeeting(ctx context.Context, in *Incoming) error {
	details := argAfter(in.Clean, "/skapa-möte")
	if details == "" {
		b.reply(ctx, in.Post, msgCreateMeetingUsage)
		return nil
	}
	req, err := ParseMeetingCommand(details)
	if err != nil {
		b.reply(ctx, in.Post, msgInvalidDate)
		return nil
	}

	m, sync := b.store.Create(ctx, meetings.CreateInput{
		Title:         req.Title,
		Date:          req.Date,
		Time:          req.Time,
		Location:      req.Location,
		Organizer:     in.Post.UserID,
		Attendees:     req.Attendees,
		ChannelID:     in.Post.ChannelID,
		AddToCalendar: true,
	})

	var sb strings.Builder
	sb.WriteString("## ✅ Möte skapat\n\n")
	fmt.Fprintf(&sb, "**%s**\n", m.Title)
	fmt.Fprintf(&sb, "📅 Datum: %s\n", m.DisplayDate())
	fmt.Fprintf(&sb, "🕑 Tid: %s\n", m.Time)
	fmt.Fprintf(&sb, "📍 Plats: %s\n", m.Location)
	if len(m.Attendees) > 0 {
		fmt.Fprintf(&sb, "👥 Deltagare: %s\n", strings.Join(m.Attendees, ", "))
	}
	fmt.Fprintf(&sb, "🆔 Mötes-ID: `%s`\n", m.ID)

	switch sync.Status {
	case meetings.SyncOK:
		fmt.Fprintf(&sb, "\n[Visa i Google Kalender](%s)\n", sync.Link)
	case meetings.SyncFailed:
		sb.WriteString("\n⚠️ Mötet kunde inte läggas till i Google Kalender. Kör `/testa-kalender` för att kontrollera behörigheterna.\n")
	}
	sb.WriteString("\nEn påminnelse skickas automatiskt en vecka före mötet.")
	b.reply(ctx, in.Post, sb.String())
	return nil
}

func (b *Bot) handleListMeetings(ctx context.Context, in *Incoming) error {
	upcoming := b.store.ListUpcoming()
	if len(upcoming) == 0 {
		b.reply(ctx, in.Post, "## 📅 Kommande möten\n\nInga kommande möten är schemalagda.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("## 📅 Kommande möten\n\n")
	for _, m := range upcoming {
		fmt.Fprintf(&sb, "### %s\n", m.Title)
		fmt.Fprintf(&sb, "📅 Datum: %s\n", m.DisplayDate())
		fmt.Fprintf(&sb, "🕑 Tid: %s\n", m.Time)
		fmt.Fprintf(&sb, "📍 Plats: %s\n", m.Location)
		if len(m.Attendees) > 0 {
			fmt.Fprintf(&sb, "👥 Deltagare: %s\n", strings.Join(m.Attendees, ", "))
		}
		if m.CalendarLink != "" {
			fmt.Fprintf(&sb, "[Visa i Google Kalender](%s)\n", m.CalendarLink)
		}
		fmt.Fprintf(&sb, "🆔 Mötes-ID: `%s`\n\n", m.ID)
	}
	sb.WriteString("_Använd `/påminn-möte [mötes-ID]` för att skicka en påminnelse nu, eller `/ta-bort-möte [mötes-ID]` för att ta bort ett möte._")
	b.reply(ctx, in.Post, sb.String())
	return nil
}

func (b *Bot) handleRemindMeeting(ctx context.Context, in *Incoming) error {
	id := argAfter(in.Clean, "/påminn-möte")
	if id == "" {
		b.reply(ctx, in.Post, msgRemindUsage)
		return nil
	}

	var target *meetings.Meeting
	for _, m := range b.store.ListUpcoming() {
		if m.ID == id {
			target = m
			break
		}
	}
	if target == nil {
		b.reply(ctx, in.Post, fmt.Sprintf("Kunde inte hitta något kommande möte med ID: `%s`", id))
		return nil
	}

	if err := b.Notify(ctx, target.ChannelID, target.ReminderMessage()); err != nil {
		return fmt.Errorf("sending manual reminder: %w", err)
	}
	b.reply(ctx, in.Post, fmt.Sprintf("✅ Påminnelse skickad för mötet %q.", target.Title))
	return nil
}

func (b *Bot) handleDeleteMeeting(ctx context.Context, in *Incoming) error {
	id := argAfter(in.Clean, "/ta-bort-möte")
	if id == "" {
		b.reply(ctx, in.Post, msgDeleteUsage)
		return nil
	}
	if !b.store.Delete(id) {
		b.reply(ctx, in.Post, fmt.Sprintf("Kunde inte hitta något möte med ID: `%s`", id))
		return nil
	}
	b.reply(ctx, in.Post, "✅ Mötet har tagits bort.")
	return nil
}

func (b *Bot) handleTestCalendar(ctx context.Context, in *Incoming) error {
	if b.calendar == nil {
		b.reply(ctx, in.Post, msgGoogleNotConfigured)
		return nil
	}
	cals, err := b.calendar.ListCalendars(ctx)
	if err != nil {
		b.reply(ctx, in.Post, fmt.Sprintf("## ❌ Kalenderbehörigheter misslyckades\n\nFel: %s", err))
		return nil
	}

	var sb strings.Builder
	sb.WriteString("## ✅ Kalenderanslutning fungerar\n\n")
	fmt.Fprintf(&sb, "Tjänstekontot har åtkomst till %d kalendrar:\n\n", len(cals))
	for _, c := range cals {
		fmt.Fprintf(&sb, "- **%s** (`%s`)\n", c.Summary, c.ID)
	}
	b.reply(ctx, in.Post, sb.String())
	return nil
}

func (b *Bot) handleCreateCalendar(ctx context.Context, in *Incoming) error {
	if b.calendar == nil {
		b.reply(ctx, in.Post, msgGoogleNotConfigured)
		return nil
	}
	parts := strings.Fields(in.Clean)
	if len(parts) < 3 {
		b.reply(ctx, in.Post, msgCreateCalendarUsage)
		return nil
	}
	name, email := parts[1], parts[2]
	if !ValidEmail(email) {
		b.reply(ctx, in.Post, msgInvalidEmail)
		return nil
	}

	b.reply(ctx, in.Post, fmt.Sprintf("Skapar kalendern %q och delar den med %s...", name, email))

	cal, err := b.calendar.CreateAndShare(ctx, name, email)
	if err != nil {
		b.reply(ctx, in.Post, fmt.Sprintf("## ❌ Kunde inte skapa kalendern\n\nFel: %s", err))
		return nil
	}
	if b.runtime != nil {
		if err := b.runtime.SetCalendarID(cal.ID); err != nil {
			b.logger.Error("persisting calendar ID failed", "calendar_id", cal.ID, "error", err)
		}
	}
	b.reply(ctx, in.Post, fmt.Sprintf(
		"## ✅ Kalender skapad\n\n**%s**\n🆔 Kalender-ID: `%s`\n\nKalendern är delad med %s och används nu för nya möten.",
		cal.Summary, cal.ID, email))
	return nil
}
