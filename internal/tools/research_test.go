package tools

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

// researchProxy simulates the text-extraction proxy: the search results
// page carries redirect-style links, each target resolves to page text.
func researchProxy(t *testing.T, pages map[string]string, searchPage string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "google.com/search") {
			_, _ = w.Write([]byte(searchPage))
			return
		}
		for marker, body := range pages {
			if strings.Contains(r.URL.Path, marker) {
				_, _ = w.Write([]byte(body))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
}

func proxiedHarness(t *testing.T, server *httptest.Server) *harness {
	t.Helper()
	h := newHarness(t)
	h.handler = NewHandler(Options{
		Vault:         h.vault,
		Cache:         h.cache,
		Edits:         h.edits,
		Log:           h.log,
		ResearchProxy: server.URL + "/",
	})
	return h
}

const searchFixture = `Search results for tomato blight
/url?q=https://site-one.test/blight&sa=U&ved=abc
/url?q=https://site-two.test/treatment&sa=U
/url?q=https://site-one.test/blight&sa=U
/url?q=https://site-three.test/a&x=1
/url?q=https://site-four.test/b&x=1
/url?q=https://site-five.test/c&x=1
/url?q=https://site-six.test/d&x=1
`

func TestResearchFollowsFirstFiveUniqueSources(t *testing.T) {
	server := researchProxy(t, map[string]string{
		"site-one.test":   "Blight spreads in wet weather.",
		"site-two.test":   "Copper fungicide helps.",
		"site-three.test": "Rotate crops yearly.",
		"site-four.test":  "Remove infected leaves.",
		"site-five.test":  "Water at the base.",
		"site-six.test":   "MUST NOT APPEAR",
	}, searchFixture)
	defer server.Close()

	h := proxiedHarness(t, server)
	result := h.dispatch(t, Research, map[string]string{"query": "tomato blight"})

	if !strings.HasPrefix(result, `Research results for "tomato blight":`) {
		t.Fatalf("unexpected header: %q", result)
	}
	for _, want := range []string{
		"Source: https://site-one.test/blight",
		"Source: https://site-two.test/treatment",
		"Source: https://site-three.test/a",
		"Source: https://site-four.test/b",
		"Source: https://site-five.test/c",
		"Blight spreads in wet weather.",
	} {
		if !strings.Contains(result, want) {
			t.Fatalf("combined text missing %q:\n%s", want, result)
		}
	}
	if strings.Contains(result, "site-six") || strings.Contains(result, "MUST NOT APPEAR") {
		t.Fatalf("sixth source leaked past the limit:\n%s", result)
	}
	if strings.Count(result, "Source: https://site-one.test/blight") != 1 {
		t.Fatalf("duplicate source was fetched twice:\n%s", result)
	}
}

func TestResearchAppendsStructuredNote(t *testing.T) {
	server := researchProxy(t, map[string]string{
		"site-one.test":   "Blight spreads in wet weather.",
		"site-two.test":   "Copper fungicide helps.",
		"site-three.test": "Rotate crops yearly.",
		"site-four.test":  "Remove infected leaves.",
		"site-five.test":  "Water at the base.",
	}, searchFixture)
	defer server.Close()

	h := proxiedHarness(t, server)
	h.dispatch(t, Research, map[string]string{"query": "tomato blight"})

	msgs := h.log.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one research note, got %d", len(msgs))
	}
	note := msgs[0]
	if !note.ToolNote {
		t.Fatal("research note must be chrome, not conversation")
	}
	if len(note.ResearchResults) != 5 {
		t.Fatalf("expected 5 structured results, got %d", len(note.ResearchResults))
	}
	if note.ResearchResults[0].URL != "https://site-one.test/blight" {
		t.Fatalf("unexpected first source: %q", note.ResearchResults[0].URL)
	}
	if note.ResearchResults[1].Snippet != "Copper fungicide helps." {
		t.Fatalf("unexpected snippet: %q", note.ResearchResults[1].Snippet)
	}
}

func TestResearchTruncatesPages(t *testing.T) {
	long := strings.Repeat("blight facts ", 400)
	server := researchProxy(t, map[string]string{
		"site-one.test": long,
	}, "/url?q=https://site-one.test/blight&sa=U\n")
	defer server.Close()

	h := proxiedHarness(t, server)
	h.dispatch(t, Research, map[string]string{"query": "tomato blight"})

	note := h.log.Messages()[0]
	if got := utf8.RuneCountInString(note.ResearchResults[0].Snippet); got != 3000 {
		t.Fatalf("expected snippet cut to 3000 runes, got %d", got)
	}
}

func TestResearchNoSources(t *testing.T) {
	server := researchProxy(t, nil, "no links here at all")
	defer server.Close()

	h := proxiedHarness(t, server)
	result := h.dispatch(t, Research, map[string]string{"query": "anything"})
	if result != `Research found no sources for "anything".` {
		t.Fatalf("unexpected result: %q", result)
	}
	if h.log.Len() != 0 {
		t.Fatal("no note should be appended when research finds nothing")
	}
}

func TestResearchSearchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	h := proxiedHarness(t, server)
	result := h.dispatch(t, Research, map[string]string{"query": "anything"})
	if !strings.HasPrefix(result, `Research failed for "anything":`) {
		t.Fatalf("unexpected result: %q", result)
	}
}

func TestParseResultLinksDecodesTargets(t *testing.T) {
	page := `/url?q=https://example.com/page%3Fid%3D7&sa=U`
	targets := parseResultLinks(page, 5)
	if len(targets) != 1 || targets[0] != "https://example.com/page?id=7" {
		t.Fatalf("unexpected targets: %#v", targets)
	}
}
