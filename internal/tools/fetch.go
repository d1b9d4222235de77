package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const (
	maxFetchRunes   = 8000
	maxFetchBody    = 1 << 20 // 1MB read cap before truncation
	truncationNote  = "\n\n[Content truncated]"
	fetchUserAgent  = "Vellum/0.1 (vault assistant)"
	fetchAcceptList = "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8"
)

// fetchURL GETs a page and returns its text, truncated past 8000
// characters. HTML responses are reduced to readable text first; anything
// else passes through as-is.
func (h *Handler) fetchURL(ctx context.Context, rawURL string) string {
	if strings.TrimSpace(rawURL) == "" {
		return "fetch_url requires a url."
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Sprintf("Invalid URL %q: %v", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Sprintf("Unsupported URL scheme %q: only http and https are allowed.", parsed.Scheme)
	}

	body, contentType, errText := h.get(ctx, rawURL)
	if errText != "" {
		return errText
	}

	content := body
	if strings.Contains(strings.ToLower(contentType), "text/html") ||
		strings.Contains(strings.ToLower(contentType), "application/xhtml") {
		if text, err := htmlToText(body); err == nil && text != "" {
			content = text
		}
	}
	return truncateRunes(content, maxFetchRunes)
}

// get performs the request and returns (body, contentType, errorText). A
// non-empty errorText is the complete tool result for a failed fetch.
func (h *Handler) get(ctx context.Context, target string) (string, string, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", "", fmt.Sprintf("Could not fetch %s: %v", target, err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", fetchAcceptList)

	resp, err := h.http.Do(req)
	if err != nil {
		return "", "", fmt.Sprintf("Could not fetch %s: %v", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Sprintf("Fetch failed for %s: HTTP %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
	if err != nil {
		return "", "", fmt.Sprintf("Could not read response from %s: %v", target, err)
	}
	return string(body), resp.Header.Get("Content-Type"), ""
}

// truncateRunes cuts text at limit characters, appending a marker when
// anything was dropped.
func truncateRunes(text string, limit int) string {
	cut := cutRunes(text, limit)
	if cut == text {
		return text
	}
	return cut + truncationNote
}

// cutRunes cuts text at limit characters with no marker.
func cutRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// htmlToText extracts the readable text of an HTML document: script, style
// and chrome elements are skipped, block elements break lines.
func htmlToText(source string) (string, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return "", err
	}

	skip := map[string]bool{
		"script": true, "style": true, "noscript": true, "iframe": true,
		"nav": true, "header": true, "footer": true, "aside": true,
	}
	block := map[string]bool{
		"p": true, "div": true, "section": true, "article": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"li": true, "tr": true, "br": true, "blockquote": true, "pre": true,
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skip[strings.ToLower(n.Data)] {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				b.WriteString(whitespaceRun.ReplaceAllString(text, " "))
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && block[strings.ToLower(n.Data)] {
			b.WriteByte('\n')
		}
	}
	walk(doc)

	text := b.String()
	text = strings.ReplaceAll(text, " \n", "\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text), nil
}
