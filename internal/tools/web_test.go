package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecord(t *testing.T, text string) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &rec), text)
	return rec
}

func TestWebFetch_RejectsBadURLsWithoutNetwork(t *testing.T) {
	tool := NewWebFetchTool(0)
	tool.httpClient.Transport = roundTripFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	for _, u := range []string{"file:///etc/passwd", "ftp://host/x", "http://"} {
		res := run(t, tool, map[string]any{"url": u})
		assert.Equal(t, KindValidation, res.Kind, u)
		rec := decodeRecord(t, res.Text)
		assert.Equal(t, u, rec["url"])
		assert.NotEmpty(t, rec["error"])
	}

	res := run(t, tool, map[string]any{"url": "ftp://host/x"})
	assert.Equal(t, "Only http/https URLs are supported.", decodeRecord(t, res.Text)["error"])
}

func TestWebFetch_JSONPassThrough(t *testing.T) {
	payload := `{"b": 2,   "a": [1, 2, 3], "html": "<b>&</b>"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "picobot/0.1", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	res := run(t, NewWebFetchTool(0), map[string]any{"url": srv.URL + "/data"})
	require.Equal(t, KindOK, res.Kind, res.Text)

	rec := decodeRecord(t, res.Text)
	assert.Equal(t, "json", rec["extractor"])
	assert.Equal(t, payload, rec["text"])
	assert.Equal(t, float64(200), rec["status"])
	assert.Equal(t, false, rec["truncated"])
	assert.Equal(t, float64(len(payload)), rec["length"])
	assert.Equal(t, srv.URL+"/data", rec["finalUrl"])
	assert.Contains(t, res.Text, "\n  \"url\"", "record is indented")
}

func TestWebFetch_HTMLStripping(t *testing.T) {
	page := "<html><head><style>body{color:red}</style><script>alert(1)</script></head>" +
		"<body><h1>Title</h1>\n\n\n\n<p>Hello    <b>world</b></p></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	res := run(t, NewWebFetchTool(0), map[string]any{"url": srv.URL})
	rec := decodeRecord(t, res.Text)
	assert.Equal(t, "html", rec["extractor"])
	text := rec["text"].(string)
	assert.Equal(t, "Title\n\nHello world", text)
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color")
}

func TestWebFetch_SniffsHTMLWithoutContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("<!doctype html><HTML><body>hi</body></HTML>"))
	}))
	defer srv.Close()

	rec := decodeRecord(t, run(t, NewWebFetchTool(0), map[string]any{"url": srv.URL}).Text)
	assert.Equal(t, "html", rec["extractor"])
	assert.Equal(t, "hi", rec["text"])
}

func TestWebFetch_RawAndTruncation(t *testing.T) {
	body := strings.Repeat("x", 300)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	rec := decodeRecord(t, run(t, NewWebFetchTool(0), map[string]any{"url": srv.URL, "maxChars": float64(120)}).Text)
	assert.Equal(t, "raw", rec["extractor"])
	assert.Equal(t, true, rec["truncated"])
	assert.Equal(t, float64(120), rec["length"])
	assert.Equal(t, body[:120], rec["text"])
}

func TestWebFetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("moved"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rec := decodeRecord(t, run(t, NewWebFetchTool(0), map[string]any{"url": srv.URL + "/old"}).Text)
	assert.Equal(t, srv.URL+"/old", rec["url"])
	assert.Equal(t, srv.URL+"/new", rec["finalUrl"])
}

func TestWebFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	res := run(t, NewWebFetchTool(0), map[string]any{"url": srv.URL})
	assert.Equal(t, KindExternal, res.Kind)
	rec := decodeRecord(t, res.Text)
	assert.Equal(t, "HTTP 404", rec["error"])
	assert.Equal(t, float64(404), rec["status"])
}

func TestWebFetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	res := run(t, NewWebFetchTool(0), map[string]any{"url": addr})
	assert.Equal(t, KindExternal, res.Kind)
	rec := decodeRecord(t, res.Text)
	assert.True(t, strings.HasPrefix(rec["error"].(string), "Network error: "), rec["error"])
	assert.NotContains(t, rec, "status")
}

func TestWebFetch_ArticleMode(t *testing.T) {
	page := `<html><head><title>Release notes</title></head><body>
<nav><a href="/">Home</a></nav>
<article><h2>What changed</h2>
<p>` + strings.Repeat("The scheduler now records jobs reliably across restarts. ", 10) + `</p>
<p>` + strings.Repeat("Skills from the workspace shadow builtin skills with the same name. ", 10) + `</p>
</article></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	rec := decodeRecord(t, run(t, NewWebFetchTool(0), map[string]any{"url": srv.URL, "extractMode": "article"}).Text)
	assert.Equal(t, "readability", rec["extractor"])
	text := rec["text"].(string)
	assert.Contains(t, text, "# Release notes")
	assert.Contains(t, text, "The scheduler now records jobs reliably")
	assert.NotContains(t, text, "<p>")
}

func TestWebSearch_RequiresKey(t *testing.T) {
	res := run(t, NewWebSearchTool("", 5), map[string]any{"query": "go"})
	assert.Equal(t, KindValidation, res.Kind)
	assert.Equal(t, "Error: BRAVE_API_KEY not configured", res.Text)
}

func newSearchServer(t *testing.T, handler http.HandlerFunc) *WebSearchTool {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tool := NewWebSearchTool("k3y", 5)
	tool.endpoint = srv.URL
	return tool
}

func TestWebSearch_RendersResults(t *testing.T) {
	tool := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k3y", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "go generics", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("count"))
		_, _ = w.Write([]byte(`{"web":{"results":[
			{"title":"One","url":"https://one.example","description":"first"},
			{"title":"Two","url":"https://two.example"},
			{"title":"Three","url":"https://three.example"}]}}`))
	})

	res := run(t, tool, map[string]any{"query": "go generics", "count": float64(2)})
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "Results for: go generics\n\n1. One\n   https://one.example\n   first\n2. Two\n   https://two.example", res.Text)
}

func TestWebSearch_CountClamped(t *testing.T) {
	var got []string
	tool := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.Query().Get("count"))
		_, _ = w.Write([]byte(`{"web":{"results":[]}}`))
	})

	for _, c := range []float64{0, -4, 50} {
		res := run(t, tool, map[string]any{"query": "q", "count": c})
		assert.Equal(t, "No results for: q", res.Text)
		assert.Equal(t, KindOK, res.Kind)
	}
	run(t, tool, map[string]any{"query": "q"})
	assert.Equal(t, []string{"1", "1", "10", "5"}, got)
}

func TestWebSearch_Errors(t *testing.T) {
	tool := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	res := run(t, tool, map[string]any{"query": "q"})
	assert.Equal(t, KindExternal, res.Kind)
	assert.Equal(t, "Error: HTTP 429 from Brave Search", res.Text)

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	tool = NewWebSearchTool("k3y", 5)
	tool.endpoint = srv.URL
	res = tool.Execute(context.Background(), map[string]any{"query": "q"})
	assert.Equal(t, KindExternal, res.Kind)
	assert.True(t, strings.HasPrefix(res.Text, "Error: Network error: "), res.Text)

	res = run(t, tool, map[string]any{})
	assert.Equal(t, "Error: query is required", res.Text)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
