// Package drive – markdown.go converts generated markdown into Docs API
// batchUpdate requests: headings 1–3, bullet and numbered lists,
// blockquotes, and plain paragraphs. Inline styling is left as-is.
package drive

import (
	"regexp"
	"strings"
)

var numberedItemPattern = regexp.MustCompile(`^\d+\. `)

// docRange addresses a span of the document.
type docRange struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

type insertTextRequest struct {
	Location struct {
		Index int `json:"index"`
	} `json:"location"`
	Text string `json:"text"`
}

type paragraphStyleRequest struct {
	Range          docRange       `json:"range"`
	ParagraphStyle map[string]any `json:"paragraphStyle"`
	Fields         string         `json:"fields"`
}

type bulletsRequest struct {
	Range        docRange `json:"range"`
	BulletPreset string   `json:"bulletPreset"`
}

// docRequest is one entry in a Docs batchUpdate request list. Exactly one
// field is set per request.
type docRequest struct {
	InsertText             *insertTextRequest     `json:"insertText,omitempty"`
	UpdateParagraphStyle   *paragraphStyleRequest `json:"updateParagraphStyle,omitempty"`
	CreateParagraphBullets *bulletsRequest        `json:"createParagraphBullets,omitempty"`
}

func insertAt(index int, text string) docRequest {
	var r insertTextRequest
	r.Location.Index = index
	r.Text = text
	return docRequest{InsertText: &r}
}

func headingStyle(start, end int, named string) docRequest {
	return docRequest{UpdateParagraphStyle: &paragraphStyleRequest{
		Range:          docRange{StartIndex: start, EndIndex: end},
		ParagraphStyle: map[string]any{"namedStyleType": named},
		Fields:         "namedStyleType",
	}}
}

// markdownToRequests walks the markdown line by line and produces the
// insert/style requests for a freshly created (empty) document. Indexing
// starts at 1, the first writable position in a Doc.
func markdownToRequests(markdown string) []docRequest {
	var requests []docRequest
	index := 1

	for _, rawLine := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(rawLine)

		if line == "" {
			requests = append(requests, insertAt(index, "\n"))
			index++
			continue
		}

		switch {
		case strings.HasPrefix(line, "# "):
			text := line[2:] + "\n"
			requests = append(requests,
				insertAt(index, text),
				headingStyle(index, index+len(text), "HEADING_1"))
			index += len(text)

		case strings.HasPrefix(line, "## "):
			text := line[3:] + "\n"
			requests = append(requests,
				insertAt(index, text),
				headingStyle(index, index+len(text), "HEADING_2"))
			index += len(text)

		case strings.HasPrefix(line, "### "):
			text := line[4:] + "\n"
			requests = append(requests,
				insertAt(index, text),
				headingStyle(index, index+len(text), "HEADING_3"))
			index += len(text)

		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			text := line[2:] + "\n"
			requests = append(requests,
				insertAt(index, text),
				docRequest{CreateParagraphBullets: &bulletsRequest{
					Range:        docRange{StartIndex: index, EndIndex: index + len(text)},
					BulletPreset: "BULLET_DISC_CIRCLE_SQUARE",
				}})
			index += len(text)

		case numberedItemPattern.MatchString(line):
			text := line[strings.Index(line, ". ")+2:] + "\n"
			requests = append(requests,
				insertAt(index, text),
				docRequest{CreateParagraphBullets: &bulletsRequest{
					Range:        docRange{StartIndex: index, EndIndex: index + len(text)},
					BulletPreset: "NUMBERED_DECIMAL",
				}})
			index += len(text)

		case strings.HasPrefix(line, "> "):
			text := line[2:] + "\n"
			indent := map[string]any{"magnitude": 36, "unit": "PT"}
			requests = append(requests,
				insertAt(index, text),
				docRequest{UpdateParagraphStyle: &paragraphStyleRequest{
					Range:          docRange{StartIndex: index, EndIndex: index + len(text)},
					ParagraphStyle: map[string]any{"indentFirstLine": indent, "indentStart": indent},
					Fields:         "indentFirstLine,indentStart",
				}})
			index += len(text)

		default:
			text := line + "\n"
			requests = append(requests, insertAt(index, text))
			index += len(text)
		}
	}

	return requests
}
