package workspace

import (
	"net/url"
	"strings"
)

// AuthenticatedURL embeds token as oauth2 basic auth into an http(s) URL.
// Other schemes and an empty token leave raw unchanged.
func AuthenticatedURL(raw, token string) string {
	if token == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return raw
	}
	u.User = url.UserPassword("oauth2", token)
	return u.String()
}

// MaskToken hides token inside s for logging.
func MaskToken(s, token string) string {
	if token == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(token), "****")
	return strings.ReplaceAll(s, token, "****")
}
