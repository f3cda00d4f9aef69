// Package drive implements the Google Drive/Docs provider for styrbot:
// full-text search inside the board folder, document fetch, and document
// creation. Authentication uses a service account via golang.org/x/oauth2.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
)

const (
	driveBaseURL = "https://www.googleapis.com/drive/v3"
	docsBaseURL  = "https://docs.googleapis.com/v1"

	scopeDrive     = "https://www.googleapis.com/auth/drive"
	scopeDocuments = "https://www.googleapis.com/auth/documents"
)

// MimeTypeDocument identifies Google Docs files.
const MimeTypeDocument = "application/vnd.google-apps.document"

// fallbackFolderName is shown when the folder lookup fails.
const fallbackFolderName = "Styrelsemappen"

// File is a Drive file, trimmed to the fields the bot uses.
type File struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink"`
	MimeType    string `json:"mimeType"`
	Description string `json:"description,omitempty"`
}

// IsDocument reports whether the file is a Google Doc.
func (f *File) IsDocument() bool {
	return f.MimeType == MimeTypeDocument
}

// Service is an authenticated Drive/Docs client scoped to one folder.
type Service struct {
	http     *http.Client
	folderID string
	logger   *slog.Logger
}

// NewService builds a Service from a service-account credentials file.
// folderID constrains searches and is the parent of created documents.
func NewService(ctx context.Context, credentialsPath, folderID string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading google credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, scopeDrive, scopeDocuments)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}
	return &Service{
		http:     conf.Client(ctx),
		folderID: folderID,
		logger:   logger,
	}, nil
}

// FolderID returns the configured board folder.
func (s *Service) FolderID() string { return s.folderID }

// Search looks for files whose full text contains the query, restricted to
// the board folder when one is configured.
func (s *Service) Search(ctx context.Context, query string) ([]File, error) {
	q := fmt.Sprintf("fullText contains '%s'", escapeQuery(query))
	if s.folderID != "" {
		q += fmt.Sprintf(" and '%s' in parents", s.folderID)
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("fields", "files(id, name, webViewLink, mimeType, description)")
	params.Set("spaces", "drive")

	var out struct {
		Files []File `json:"files"`
	}
	if err := s.get(ctx, driveBaseURL+"/files?"+params.Encode(), &out); err != nil {
		return nil, fmt.Errorf("drive search: %w", err)
	}
	return out.Files, nil
}

// FolderName resolves the board folder's display name. Falls back to a
// generic name on any error so user-facing messages stay readable.
func (s *Service) FolderName(ctx context.Context) string {
	if s.folderID == "" {
		return fallbackFolderName
	}
	var out struct {
		Name string `json:"name"`
	}
	u := fmt.Sprintf("%s/files/%s?fields=name", driveBaseURL, url.PathEscape(s.folderID))
	if err := s.get(ctx, u, &out); err != nil {
		s.logger.Warn("folder name lookup failed", "folder_id", s.folderID, "error", err)
		return fallbackFolderName
	}
	return out.Name
}

// FileMeta fetches a file's name and MIME type.
func (s *Service) FileMeta(ctx context.Context, fileID string) (*File, error) {
	var f File
	u := fmt.Sprintf("%s/files/%s?fields=id,name,mimeType,webViewLink", driveBaseURL, url.PathEscape(fileID))
	if err := s.get(ctx, u, &f); err != nil {
		return nil, fmt.Errorf("drive file meta: %w", err)
	}
	return &f, nil
}

// escapeQuery escapes a value embedded in a Drive query string literal.
func escapeQuery(q string) string {
	q = strings.ReplaceAll(q, `\`, `\\`)
	return strings.ReplaceAll(q, `'`, `\'`)
}

// get performs a GET and decodes the JSON response.
func (s *Service) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return s.doJSON(req, out)
}

// doJSON executes a request and decodes the response, surfacing API errors.
func (s *Service) doJSON(req *http.Request, out any) error {
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
