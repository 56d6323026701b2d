package markdown

import (
	"html"
	"net/url"
	"strings"
)

// SafeURL validates and sanitizes a URL for use in HTML attributes.
// Site-relative paths and fragments pass through; absolute URLs must use
// http, https, mailto or tel. Protocol-relative "//host" paths and
// anything else yield "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "//") || strings.HasPrefix(val, `/\`) {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
