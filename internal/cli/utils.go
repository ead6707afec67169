package cli

import (
	"net/url"
	"regexp"
)

var keywordPassword = regexp.MustCompile(`(?i)(password\s*=\s*)('[^']*'|\S+)`)

// maskConnectionString hides the password in a catalog database DSN before it
// is logged. Both URL (postgres://) and keyword (host=... password=...) forms
// are handled; anything else is replaced entirely.
func maskConnectionString(connStr string) string {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" && u.Host != "" {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
		}
		u.RawQuery = ""
		return u.String()
	}
	if keywordPassword.MatchString(connStr) {
		return keywordPassword.ReplaceAllString(connStr, "${1}xxxxx")
	}
	return "***"
}
