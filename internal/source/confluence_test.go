package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConfluence(t *testing.T, handler http.HandlerFunc) *ConfluenceLoader {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewConfluenceLoader(srv.URL, "qa@example.com", "token", 5*time.Second, zap.NewNop())
}

func pageJSON(id, title, storage string) map[string]interface{} {
	return map[string]interface{}{
		"id":    id,
		"title": title,
		"body": map[string]interface{}{
			"storage": map[string]interface{}{"value": storage},
		},
	}
}

func TestConfluenceLoader_LoadByID(t *testing.T) {
	loader := newTestConfluence(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/content/12345", r.URL.Path)
		assert.Equal(t, "body.storage", r.URL.Query().Get("expand"))
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "qa@example.com", user)
		assert.Equal(t, "token", pass)
		json.NewEncoder(w).Encode(pageJSON("12345", "Rich Text PRD", "<p>As a recruiter, I want <b>rich text</b>.</p>"))
	})

	input, err := loader.Load(context.Background(), PageLocator{PageID: "12345"})
	require.NoError(t, err)
	assert.Equal(t, KindConfluence, input.Kind)
	assert.Equal(t, "Rich Text PRD", input.Name)
	assert.Contains(t, input.Text, "=== Rich Text PRD ===")
	assert.Contains(t, input.Text, "As a recruiter, I want rich text")
	assert.NotContains(t, input.Text, "<p>")
}

func TestConfluenceLoader_LoadBySpaceTitle(t *testing.T) {
	loader := newTestConfluence(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/content", r.URL.Path)
		assert.Equal(t, "QA", r.URL.Query().Get("spaceKey"))
		assert.Equal(t, "Feature PRD", r.URL.Query().Get("title"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []interface{}{pageJSON("77", "Feature PRD", "<h1>Scope</h1><p>details</p>")},
		})
	})

	input, err := loader.Load(context.Background(), PageLocator{SpaceKey: "QA", Title: "Feature PRD"})
	require.NoError(t, err)
	assert.Contains(t, input.Text, "Scope details")
}

func TestConfluenceLoader_SpaceTitleNotFound(t *testing.T) {
	loader := newTestConfluence(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []interface{}{}})
	})

	_, err := loader.Load(context.Background(), PageLocator{SpaceKey: "QA", Title: "Missing"})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, KindConfluence, loadErr.Source)
}

func TestConfluenceLoader_AuthFailure(t *testing.T) {
	loader := newTestConfluence(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := loader.Load(context.Background(), PageLocator{PageID: "1"})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "authentication failed")
}

func TestConfluenceLoader_NotFound(t *testing.T) {
	loader := newTestConfluence(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such page", http.StatusNotFound)
	})

	_, err := loader.Load(context.Background(), PageLocator{PageID: "404"})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestConfluenceLoader_EmptyBody(t *testing.T) {
	loader := newTestConfluence(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(pageJSON("9", "Empty Page", "   "))
	})

	_, err := loader.Load(context.Background(), PageLocator{PageID: "9"})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "no content")
}

func TestConfluenceLoader_NoLocator(t *testing.T) {
	loader := NewConfluenceLoader("https://example.atlassian.net", "u", "t", 0, nil)
	_, err := loader.Load(context.Background(), PageLocator{})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestFlattenStorageBody(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"tags stripped", "<p>hello</p><p>world</p>", "hello world"},
		{"entities decoded", "a &amp; b &lt;c&gt;", "a & b <c>"},
		{"whitespace collapsed", "  a \n\n b  ", "a b"},
		{"empty", "<p></p>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flattenStorageBody(tt.in))
		})
	}
}
