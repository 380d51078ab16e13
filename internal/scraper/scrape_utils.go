package scraper

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// absLink prefixes site-relative hrefs with the site root. Absolute hrefs
// pass through untouched.
func absLink(root, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return strings.TrimSuffix(root, "/") + href
}

// lastPathSegment returns the trailing path segment of a URL, which is the
// site's numeric entity identifier on profile pages.
func lastPathSegment(rawURL string) string {
	trimmed := strings.TrimSuffix(rawURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}

// squash collapses all interior whitespace runs to single spaces and trims.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func strPtr(s string) *string {
	return &s
}

// slugTitle recovers a display name from a profile URL's leading name slug
// (".../erik-ten-hag/profil/trainer/3816" yields "Erik Ten Hag").
func slugTitle(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, p := range strings.Split(u.Path, "/") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.ReplaceAll(p, "-", " ")
		p = strings.ReplaceAll(p, "_", " ")
		return cases.Title(language.Und).String(p)
	}
	return ""
}
