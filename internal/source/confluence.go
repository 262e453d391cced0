package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PageLocator identifies a Confluence page either by ID or by space + title.
type PageLocator struct {
	PageID   string
	SpaceKey string
	Title    string
}

// IsZero reports whether no locator fields are set.
func (l PageLocator) IsZero() bool {
	return l.PageID == "" && l.SpaceKey == "" && l.Title == ""
}

// ConfluenceLoader fetches PRD content from the Confluence REST API.
type ConfluenceLoader struct {
	baseURL    string
	username   string
	apiToken   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewConfluenceLoader creates a loader for the given Confluence instance.
func NewConfluenceLoader(baseURL, username, apiToken string, timeout time.Duration, logger *zap.Logger) *ConfluenceLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ConfluenceLoader{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("confluence"),
	}
}

type confluencePage struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
	Links struct {
		WebUI string `json:"webui"`
	} `json:"_links"`
}

type confluenceSearchResult struct {
	Results []confluencePage `json:"results"`
}

// Load fetches the page named by the locator and returns its flattened text.
func (c *ConfluenceLoader) Load(ctx context.Context, loc PageLocator) (Input, error) {
	if c.baseURL == "" {
		return Input{}, newLoadError(KindConfluence, "confluence base URL not configured")
	}
	if loc.IsZero() {
		return Input{}, newLoadError(KindConfluence, "no page locator provided")
	}

	var (
		page confluencePage
		err  error
	)
	if loc.PageID != "" {
		page, err = c.fetchByID(ctx, loc.PageID)
	} else {
		page, err = c.fetchBySpaceTitle(ctx, loc.SpaceKey, loc.Title)
	}
	if err != nil {
		return Input{}, err
	}

	text := flattenStorageBody(page.Body.Storage.Value)
	if text == "" {
		return Input{}, newLoadError(KindConfluence, "page %q has no content", page.Title)
	}

	c.logger.Info("loaded confluence page",
		zap.String("page_id", page.ID),
		zap.String("title", page.Title),
		zap.Int("chars", len(text)))

	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", page.Title)
	b.WriteString(text)
	return Input{Kind: KindConfluence, Name: page.Title, Text: b.String()}, nil
}

func (c *ConfluenceLoader) fetchByID(ctx context.Context, pageID string) (confluencePage, error) {
	endpoint := fmt.Sprintf("%s/rest/api/content/%s?expand=body.storage", c.baseURL, url.PathEscape(pageID))

	var page confluencePage
	if err := c.get(ctx, endpoint, &page); err != nil {
		return confluencePage{}, err
	}
	return page, nil
}

func (c *ConfluenceLoader) fetchBySpaceTitle(ctx context.Context, spaceKey, title string) (confluencePage, error) {
	if spaceKey == "" || title == "" {
		return confluencePage{}, newLoadError(KindConfluence, "space key and title are both required")
	}
	endpoint := fmt.Sprintf("%s/rest/api/content?spaceKey=%s&title=%s&expand=body.storage",
		c.baseURL, url.QueryEscape(spaceKey), url.QueryEscape(title))

	var result confluenceSearchResult
	if err := c.get(ctx, endpoint, &result); err != nil {
		return confluencePage{}, err
	}
	if len(result.Results) == 0 {
		return confluencePage{}, newLoadError(KindConfluence, "page %q not found in space %q", title, spaceKey)
	}
	return result.Results[0], nil
}

func (c *ConfluenceLoader) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return newLoadError(KindConfluence, "failed to create request: %v", err)
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newLoadError(KindConfluence, "request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newLoadError(KindConfluence, "failed to read response: %v", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return newLoadError(KindConfluence, "authentication failed (status %d)", resp.StatusCode)
	case http.StatusNotFound:
		return newLoadError(KindConfluence, "page not found")
	default:
		return newLoadError(KindConfluence, "unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return newLoadError(KindConfluence, "failed to parse response: %v", err)
	}
	return nil
}

// flattenStorageBody strips Confluence storage-format markup down to plain
// text. The input is machine-generated XHTML, so a tag scanner is sufficient.
func flattenStorageBody(storage string) string {
	var b strings.Builder
	inTag := false
	for _, r := range storage {
		switch {
		case r == '<':
			inTag = true
			// Block-ish boundary: keep words from running together.
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	text := b.String()
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}
