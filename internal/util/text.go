package util

import (
	"net/url"
	"strings"
)

// Administrative suffix words that pollute full-text media searches. The
// Commons search wants "Kollam", not "Kollam State Assembly constituency".
var labelNoiseWords = map[string]bool{
	"state":        true,
	"assembly":     true,
	"legislative":  true,
	"constituency": true,
	"kerala":       true,
}

// SanitizeSearchLabel strips known administrative suffix words from a
// constituency display label, case-insensitively, leaving the bare place
// name for gallery searches.
func SanitizeSearchLabel(label string) string {
	fields := strings.Fields(label)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if labelNoiseWords[strings.ToLower(f)] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// TitleFromArticleURL extracts the URL-decoded article title from a
// Wikipedia article URL such as https://en.wikipedia.org/wiki/K._N._Balagopal.
// Returns an empty string if the URL carries no /wiki/ path.
func TitleFromArticleURL(articleURL string) string {
	idx := strings.Index(articleURL, "/wiki/")
	if idx == -1 {
		return ""
	}
	title := articleURL[idx+len("/wiki/"):]
	decoded, err := url.PathUnescape(title)
	if err != nil {
		return title
	}
	return decoded
}

// LangFromArticleURL extracts the language subdomain from a Wikipedia
// article URL (en.wikipedia.org -> "en"). Returns defaultLang when the
// host does not look like a Wikipedia domain.
func LangFromArticleURL(articleURL, defaultLang string) string {
	u, err := url.Parse(articleURL)
	if err != nil {
		return defaultLang
	}
	host := u.Hostname()
	rest, ok := strings.CutSuffix(host, ".wikipedia.org")
	if !ok || rest == "" {
		return defaultLang
	}
	// Mobile URLs look like en.m.wikipedia.org.
	rest = strings.TrimSuffix(rest, ".m")
	if rest == "" {
		return defaultLang
	}
	return rest
}

// MobileArticleURL rewrites a desktop Wikipedia URL to its mobile
// counterpart, which renders better inside the detail overlay frame.
func MobileArticleURL(articleURL string) string {
	u, err := url.Parse(articleURL)
	if err != nil {
		return articleURL
	}
	host := u.Hostname()
	if strings.Contains(host, ".m.wikipedia.org") || !strings.HasSuffix(host, ".wikipedia.org") {
		return articleURL
	}
	u.Host = strings.Replace(host, ".wikipedia.org", ".m.wikipedia.org", 1)
	return u.String()
}
