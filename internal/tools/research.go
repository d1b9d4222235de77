package tools

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"vellum/internal/chat"
	"vellum/internal/logging"
)

const (
	maxResearchSources   = 5
	maxResearchPageRunes = 3000
)

// Search result pages link out through redirect URLs of the form
// /url?q=<target>&...; the capture stops at the first tracking parameter.
var researchLinkPattern = regexp.MustCompile(`/url\?q=(https?://[^&\s"'<>)\]]+)`)

// research runs a web search through the text-extraction proxy, follows the
// first few result links through the same proxy, and hands the model one
// combined block. A structured note with the per-source snippets is
// appended for the UI.
func (h *Handler) research(ctx context.Context, query string) string {
	if strings.TrimSpace(query) == "" {
		return "research requires a query."
	}

	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(query)
	page, _, fetchErr := h.get(ctx, h.proxy+searchURL)
	if fetchErr != "" {
		return fmt.Sprintf("Research failed for %q: %s", query, fetchErr)
	}

	targets := parseResultLinks(page, maxResearchSources)
	if len(targets) == 0 {
		return fmt.Sprintf("Research found no sources for %q.", query)
	}
	logging.Debug("research sources selected", "query", query, "count", len(targets))

	results := make([]chat.ResearchResult, 0, len(targets))
	var combined strings.Builder
	fmt.Fprintf(&combined, "Research results for %q:\n", query)

	for _, target := range targets {
		body, _, fetchErr := h.get(ctx, h.proxy+target)
		var snippet string
		if fetchErr != "" {
			snippet = fmt.Sprintf("(unavailable: %s)", fetchErr)
		} else {
			snippet = cutRunes(strings.TrimSpace(whitespaceRun.ReplaceAllString(body, " ")), maxResearchPageRunes)
		}
		results = append(results, chat.ResearchResult{URL: target, Snippet: snippet})
		fmt.Fprintf(&combined, "\nSource: %s\n%s\n", target, snippet)
	}

	h.log.Append(chat.NewResearchNote(
		fmt.Sprintf("Researched %q across %d sources.", query, len(results)),
		results,
	))
	return combined.String()
}

// parseResultLinks extracts up to limit unique outbound targets from a
// search results page, in page order.
func parseResultLinks(page string, limit int) []string {
	matches := researchLinkPattern.FindAllStringSubmatch(page, -1)
	seen := make(map[string]struct{}, len(matches))
	var targets []string
	for _, m := range matches {
		target := m[1]
		if unescaped, err := url.QueryUnescape(target); err == nil {
			target = unescaped
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		targets = append(targets, target)
		if len(targets) == limit {
			break
		}
	}
	return targets
}
