// Package drive – docs.go reads and writes Google Docs through the Docs API.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// docBody mirrors the slice of the Docs API document resource the bot reads.
type docBody struct {
	Body struct {
		Content []struct {
			Paragraph *struct {
				Elements []struct {
					TextRun *struct {
						Content string `json:"content"`
					} `json:"textRun"`
				} `json:"elements"`
			} `json:"paragraph"`
		} `json:"content"`
	} `json:"body"`
}

// DocumentText fetches a Google Doc and returns its plain-text content,
// concatenating all paragraph text runs.
func (s *Service) DocumentText(ctx context.Context, documentID string) (string, error) {
	var doc docBody
	u := fmt.Sprintf("%s/documents/%s", docsBaseURL, url.PathEscape(documentID))
	if err := s.get(ctx, u, &doc); err != nil {
		return "", fmt.Errorf("docs get: %w", err)
	}

	var sb strings.Builder
	for _, el := range doc.Body.Content {
		if el.Paragraph == nil {
			continue
		}
		for _, pe := range el.Paragraph.Elements {
			if pe.TextRun != nil {
				sb.WriteString(pe.TextRun.Content)
			}
		}
	}
	return sb.String(), nil
}

// CreateDocument creates a new Google Doc in the board folder and fills it
// with the given markdown content, converted to Docs formatting requests.
func (s *Service) CreateDocument(ctx context.Context, title, markdown string) (*File, error) {
	// Create the empty document first.
	meta := map[string]any{
		"name":     title,
		"mimeType": MimeTypeDocument,
	}
	if s.folderID != "" {
		meta["parents"] = []string{s.folderID}
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := s.post(ctx, driveBaseURL+"/files?fields=id", meta, &created); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	// Then fill it with formatted content.
	requests := markdownToRequests(markdown)
	if len(requests) > 0 {
		batch := map[string]any{"requests": requests}
		u := fmt.Sprintf("%s/documents/%s:batchUpdate", docsBaseURL, url.PathEscape(created.ID))
		if err := s.post(ctx, u, batch, nil); err != nil {
			return nil, fmt.Errorf("writing document content: %w", err)
		}
	}

	f, err := s.FileMeta(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("document created", "id", f.ID, "title", title)
	return f, nil
}

// post performs a JSON POST and decodes the response.
func (s *Service) post(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.doJSON(req, out)
}
