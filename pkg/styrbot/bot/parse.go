// Package bot – parse.go contains the message parsers: meeting commands,
// document-creation requests, document references, and search queries.
package bot

import (
	"errors"
	"regexp"
	"strings"

	"github.com/hjalmarsson/styrbot/pkg/styrbot/meetings"
)

// ErrInvalidMeetingFormat is returned when a meeting command carries no
// YYYY-MM-DD date token.
var ErrInvalidMeetingFormat = errors.New("invalid meeting format")

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

	docURLPattern   = regexp.MustCompile(`https://docs\.google\.com/document/d/([a-zA-Z0-9_-]+)`)
	greetingPattern = regexp.MustCompile(`(?i)^(hej|hallå|tjena|hello|hi)[!?. ]*$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	summarizePrefix     = regexp.MustCompile(`(?i)sammanfatta\s+dokument(et)?:?\s*`)
	summarizeURLPattern = regexp.MustCompile(`(?i)sammanfatta\s+https://docs\.google\.com/document/d/`)
)

// MeetingRequest is the parsed form of a /skapa-möte command.
type MeetingRequest struct {
	Title     string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM
	Location  string
	Attendees []string
}

// ParseMeetingCommand splits the free text after /skapa-möte into its
// parts. The first YYYY-MM-DD token is the date and everything before it
// the title. The first HH:MM token after the date becomes the time; tokens
// after it (or after the date when no time is given) become the location.
// Tokens containing @ are collected as attendees with any leading @
// stripped.
func ParseMeetingCommand(details string) (*MeetingRequest, error) {
	tokens := strings.Fields(details)

	dateIdx := -1
	for i, tok := range tokens {
		if datePattern.MatchString(tok) {
			dateIdx = i
			break
		}
	}
	if dateIdx == -1 {
		return nil, ErrInvalidMeetingFormat
	}

	// Only a time token after the date counts; anything earlier stays in
	// the title span.
	timeIdx := -1
	for i := dateIdx + 1; i < len(tokens); i++ {
		if timePattern.MatchString(tokens[i]) {
			timeIdx = i
			break
		}
	}

	req := &MeetingRequest{
		Title: strings.Join(tokens[:dateIdx], " "),
		Date:  tokens[dateIdx],
		Time:  meetings.DefaultTime,
	}
	locStart := dateIdx + 1
	if timeIdx != -1 {
		req.Time = tokens[timeIdx]
		locStart = timeIdx + 1
	}

	var loc []string
	for _, tok := range tokens[locStart:] {
		if strings.Contains(tok, "@") {
			continue
		}
		loc = append(loc, tok)
	}
	req.Location = strings.Join(loc, " ")
	if req.Location == "" {
		req.Location = meetings.DefaultLocation
	}

	for _, tok := range tokens {
		if strings.Contains(tok, "@") && !datePattern.MatchString(tok) {
			req.Attendees = append(req.Attendees, strings.TrimPrefix(tok, "@"))
		}
	}
	return req, nil
}

// ParseDocumentRequest splits the text after "skapa dokument" into a title
// and generation instructions. A "-" or ":" separates the two; without a
// separator a short phrase (five words or fewer) is used as title with a
// stock instruction, a longer one uses its first five words as title.
func ParseDocumentRequest(rest string) (title, instructions string) {
	switch {
	case strings.Contains(rest, "-"):
		parts := strings.SplitN(rest, "-", 2)
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	case strings.Contains(rest, ":"):
		parts := strings.SplitN(rest, ":", 2)
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}

	words := strings.Fields(rest)
	if len(words) <= 5 {
		title = strings.TrimSpace(rest)
		return title, `Skapa ett dokument med titeln "` + title + `"`
	}
	return strings.Join(words[:5], " "), strings.TrimSpace(rest)
}

// ExtractDocumentRef pulls the document reference out of a summarize
// request. It returns a document ID when the message carries a Docs URL or
// a bare ID-like token (long, no spaces), otherwise a name query to search
// for. Both empty means the message held no usable reference.
func ExtractDocumentRef(clean string) (docID, query string) {
	if m := docURLPattern.FindStringSubmatch(clean); m != nil {
		return m[1], ""
	}
	rest := strings.TrimSpace(summarizePrefix.ReplaceAllString(clean, ""))
	if rest == "" {
		return "", ""
	}
	if len(rest) > 20 && !strings.Contains(rest, " ") {
		return rest, ""
	}
	return "", rest
}

// searchSynonyms are the phrases that introduce a Drive search, longest
// match first.
var searchSynonyms = []string{"sök efter", "leta efter", "hitta"}

// ParseSearchQuery strips the search phrase off the message and returns
// the remaining query.
func ParseSearchQuery(clean string) string {
	lower := strings.ToLower(clean)
	for _, syn := range searchSynonyms {
		if strings.HasPrefix(lower, syn) {
			// The synonyms only contain characters whose upper- and
			// lowercase forms are byte-equal in UTF-8, so the byte offset
			// into the original string is safe.
			return strings.TrimSpace(clean[len(syn):])
		}
	}
	if i := strings.Index(clean, " "); i >= 0 {
		return strings.TrimSpace(clean[i+1:])
	}
	return ""
}

// IsGreetingOnly reports whether the message is just a greeting, so the
// introduction alone is a sufficient reply.
func IsGreetingOnly(clean string) bool {
	return greetingPattern.MatchString(strings.TrimSpace(clean))
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
