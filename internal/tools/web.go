package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-shiori/go-readability"
	"github.com/pkg/errors"

	"github.com/picobot/picobot/internal/logger"
	"github.com/picobot/picobot/internal/shared/stringutils"
)

const (
	webUserAgent    = "picobot/0.1"
	braveSearchURL  = "https://api.search.brave.com/res/v1/web/search"
	searchTimeout   = 15 * time.Second
	fetchTimeout    = 30 * time.Second
	maxRedirects    = 5
	defaultMaxChars = 50000
	htmlSniffLen    = 1024
)

// validateURL checks that rawURL is http(s) with a host and returns a
// human-readable reason when it is not.
func validateURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err.Error()
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "Only http/https URLs are supported."
	}
	if u.Host == "" {
		return "URL must include a domain."
	}
	return ""
}

// transportMessage strips the "Get <url>:" prefix net/http adds.
func transportMessage(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err.Error()
	}
	return err.Error()
}

func isTimeout(err error) bool {
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}

// ---------------------------------------------------------------------------
// WebSearchTool
// ---------------------------------------------------------------------------

// WebSearchTool searches the web using the Brave Search API.
type WebSearchTool struct {
	apiKey     string
	maxResults int
	endpoint   string
	httpClient *http.Client
}

// NewWebSearchTool creates a WebSearchTool.
// apiKey is BRAVE_API_KEY; maxResults defaults to 5.
func NewWebSearchTool(apiKey string, maxResults int) *WebSearchTool {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &WebSearchTool{
		apiKey:     apiKey,
		maxResults: maxResults,
		endpoint:   braveSearchURL,
		httpClient: &http.Client{Timeout: searchTimeout},
	}
}

func (t *WebSearchTool) Name() string        { return string(ToolWebSearch) }
func (t *WebSearchTool) Description() string { return "Search the web. Returns titles, URLs, and snippets." }
func (t *WebSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Search query"
			},
			"count": {
				"type": "integer",
				"description": "Results (1-10)",
				"minimum": 1,
				"maximum": 10
			}
		},
		"required": ["query"]
	}`)
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

func (t *WebSearchTool) Execute(ctx context.Context, params map[string]any) *Result {
	if t.apiKey == "" {
		return Fail(KindValidation, "Error: BRAVE_API_KEY not configured")
	}
	query := stringParam(params, "query")
	if query == "" {
		return required("query")
	}

	n, _ := intParam(params, "count", t.maxResults)
	n = max(1, min(n, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint, nil)
	if err != nil {
		return Fail(KindInternal, "Error: %v", err)
	}
	q := req.URL.Query()
	q.Set("q", query)
	q.Set("count", strconv.Itoa(n))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return Fail(KindExternal, "Error: Network error: %s", transportMessage(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return Fail(KindExternal, "Error: HTTP %d from Brave Search", resp.StatusCode)
	}

	var data braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Fail(KindInternal, "Error: %v", err)
	}

	results := data.Web.Results
	if len(results) == 0 {
		return OK(fmt.Sprintf("No results for: %s", query))
	}
	if len(results) > n {
		results = results[:n]
	}

	lines := []string{"Results for: " + query, ""}
	for i, item := range results {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, item.Title), "   "+item.URL)
		if item.Description != "" {
			lines = append(lines, "   "+item.Description)
		}
	}
	return OK(strings.Join(lines, "\n"))
}

// ---------------------------------------------------------------------------
// WebFetchTool
// ---------------------------------------------------------------------------

// Extractor labels reported in the fetch record.
const (
	ExtractorJSON        = "json"
	ExtractorHTML        = "html"
	ExtractorReadability = "readability"
	ExtractorRaw         = "raw"
)

// FetchRecord is the JSON document web_fetch returns on success.
type FetchRecord struct {
	URL       string `json:"url"`
	FinalURL  string `json:"finalUrl"`
	Status    int    `json:"status"`
	Extractor string `json:"extractor"`
	Truncated bool   `json:"truncated"`
	Length    int    `json:"length"`
	Text      string `json:"text"`
}

// FetchError is the JSON document web_fetch returns on failure.
type FetchError struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
	URL    string `json:"url"`
}

// WebFetchTool fetches a URL and extracts readable text.
type WebFetchTool struct {
	maxChars   int
	httpClient *http.Client
}

// NewWebFetchTool creates a WebFetchTool. maxChars defaults to 50000.
func NewWebFetchTool(maxChars int) *WebFetchTool {
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	client := &http.Client{
		Timeout: fetchTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &WebFetchTool{maxChars: maxChars, httpClient: client}
}

func (t *WebFetchTool) Name() string { return string(ToolWebFetch) }
func (t *WebFetchTool) Description() string {
	return "Fetch a URL and extract readable content. Returns a JSON record with status, extractor and text."
}
func (t *WebFetchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"url": {
				"type": "string",
				"description": "URL to fetch (http or https)"
			},
			"extractMode": {
				"type": "string",
				"enum": ["text", "article"],
				"default": "text",
				"description": "text strips tags from the whole page; article extracts the main content as markdown"
			},
			"maxChars": {
				"type": "integer",
				"minimum": 100
			}
		},
		"required": ["url"]
	}`)
}

func (t *WebFetchTool) Execute(ctx context.Context, params map[string]any) *Result {
	rawURL := stringParam(params, "url")
	if rawURL == "" {
		return required("url")
	}
	if reason := validateURL(rawURL); reason != "" {
		return fetchFailure(KindValidation, FetchError{Error: reason, URL: rawURL})
	}

	maxChars, ok := intParam(params, "maxChars", t.maxChars)
	if !ok {
		maxChars, _ = intParam(params, "max_chars", t.maxChars)
	}
	if maxChars <= 0 {
		maxChars = t.maxChars
	}
	mode := stringParam(params, "extractMode")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fetchFailure(KindValidation, FetchError{Error: err.Error(), URL: rawURL})
	}
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		kind := KindExternal
		if isTimeout(err) {
			kind = KindTimeout
		}
		return fetchFailure(kind, FetchError{Error: "Network error: " + transportMessage(err), URL: rawURL})
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fetchFailure(KindExternal, FetchError{
			Error:  fmt.Sprintf("HTTP %d", resp.StatusCode),
			Status: resp.StatusCode,
			URL:    rawURL,
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fetchFailure(KindExternal, FetchError{Error: "Network error: " + err.Error(), URL: rawURL})
	}

	finalURL := resp.Request.URL
	text := strings.ToValidUTF8(string(body), "�")
	extracted, extractor := extract(ctx, resp.Header.Get("Content-Type"), text, mode, finalURL)

	truncated := stringutils.Len(extracted) > maxChars
	if truncated {
		extracted = stringutils.Head(extracted, maxChars)
	}

	return OK(renderJSON(FetchRecord{
		URL:       rawURL,
		FinalURL:  finalURL.String(),
		Status:    resp.StatusCode,
		Extractor: extractor,
		Truncated: truncated,
		Length:    stringutils.Len(extracted),
		Text:      extracted,
	}))
}

// extract classifies the body and returns the text to hand back with the
// extractor that produced it.
func extract(ctx context.Context, ctype, text, mode string, base *url.URL) (string, string) {
	switch {
	case strings.Contains(ctype, "application/json"):
		return text, ExtractorJSON
	case strings.Contains(ctype, "text/html") || looksLikeHTML(text):
		if mode == "article" {
			out, err := articleMarkdown(text, base)
			if err == nil {
				return out, ExtractorReadability
			}
			logger.G(ctx).WithError(err).Debug("readability extraction failed, stripping tags")
		}
		return stripHTMLTags(text), ExtractorHTML
	default:
		return text, ExtractorRaw
	}
}

func looksLikeHTML(text string) bool {
	head := text
	if len(head) > htmlSniffLen {
		head = head[:htmlSniffLen]
	}
	return strings.Contains(strings.ToLower(head), "<html")
}

// articleMarkdown runs readability over the page and renders the main
// content as markdown, titled when the page has a title.
func articleMarkdown(page string, base *url.URL) (string, error) {
	article, err := readability.FromReader(strings.NewReader(page), base)
	if err != nil {
		return "", errors.Wrap(err, "readability")
	}
	if strings.TrimSpace(article.Content) == "" {
		return "", errors.New("readability found no content")
	}
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(article.Content)
	if err != nil {
		return "", errors.Wrap(err, "convert to markdown")
	}
	if article.Title != "" {
		markdown = "# " + article.Title + "\n\n" + markdown
	}
	return strings.TrimSpace(markdown), nil
}

var (
	reScript   = regexp.MustCompile(`(?i)<script[\s\S]*?</script>`)
	reStyle    = regexp.MustCompile(`(?i)<style[\s\S]*?</style>`)
	reTags     = regexp.MustCompile(`<[^>]+>`)
	reSpaces   = regexp.MustCompile(`[ \t]+`)
	reNewlines = regexp.MustCompile(`\n{3,}`)
)

// stripHTMLTags drops script and style blocks, removes tags and collapses
// whitespace.
func stripHTMLTags(text string) string {
	text = reScript.ReplaceAllString(text, "")
	text = reStyle.ReplaceAllString(text, "")
	text = reTags.ReplaceAllString(text, "")
	text = reSpaces.ReplaceAllString(text, " ")
	text = reNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func fetchFailure(kind Kind, rec FetchError) *Result {
	return &Result{Kind: kind, Text: renderJSON(rec)}
}

// renderJSON encodes v as indented JSON without HTML escaping.
func renderJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return strings.TrimRight(buf.String(), "\n")
}
