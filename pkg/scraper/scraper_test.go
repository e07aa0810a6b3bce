package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScraper(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Course Home</title></head>
			<body><main>Welcome to the course. Start with loops.</main>
			<a href="/module3_loops.html">loops</a></body></html>`)
	})
	mux.HandleFunc("/module3_loops.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Loops</title></head>
			<body><main>A for loop repeats a block of statements.</main></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var progressed int
	s, err := NewWithConfig(ScraperConfig{
		BaseURL:   srv.URL,
		MaxDepth:  2,
		RateLimit: 100,
		OnProgress: func(url string) {
			progressed++
		},
	})
	require.NoError(t, err)

	docs, err := s.Scrape(srv.URL + "/")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 2, progressed)

	assert.Equal(t, "index", docs[0].Name)
	assert.Equal(t, "Course Home", docs[0].Title)
	assert.Contains(t, docs[0].Content, "Start with loops")

	assert.Equal(t, "module3_loops.html", docs[1].Name)
	assert.Contains(t, docs[1].Content, "for loop")
}

func TestScraperConfig(t *testing.T) {
	config := ScraperConfig{
		BaseURL:        "https://example.com",
		MaxDepth:       5,
		RateLimit:      1.0,
		IgnorePatterns: []string{"/ignore/", "private"},
		Timeout:        10 * time.Second,
	}

	s, err := NewWithConfig(config)
	require.NoError(t, err)
	assert.Equal(t, config.BaseURL, s.config.BaseURL)
	assert.Equal(t, config.MaxDepth, s.config.MaxDepth)
}

func TestShouldProcessURL(t *testing.T) {
	config := ScraperConfig{
		BaseURL:           "https://example.com",
		IgnorePatterns:    []string{"/ignore/", "private"},
		AllowedExtensions: []string{".html", "/"},
	}

	s, err := NewWithConfig(config)
	require.NoError(t, err)

	assert.True(t, s.shouldProcessURL("https://example.com/lessons/"))
	assert.True(t, s.shouldProcessURL("https://example.com/module3_loops.html"))
	assert.False(t, s.shouldProcessURL("https://other.com/module3_loops.html"))
	assert.False(t, s.shouldProcessURL("https://example.com/ignore/page.html"))
	assert.False(t, s.shouldProcessURL("https://example.com/private.html"))
	assert.False(t, s.shouldProcessURL("https://example.com/notes.pdf"))
}

func TestDocumentNameFor(t *testing.T) {
	assert.Equal(t, "index", documentNameFor("https://example.com/"))
	assert.Equal(t, "index", documentNameFor("https://example.com"))
	assert.Equal(t, "module3_loops.html", documentNameFor("https://example.com/docs/module3_loops.html"))
	assert.Equal(t, "docs", documentNameFor("https://example.com/docs/"))
}
