package proximity

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

type normalizeRule struct {
	name    string
	pattern *regexp.Regexp
}

// normalizeRules strip upload and branding noise from a filename. They are
// applied in order to the extension-less base name.
//
// The upload prefix rule removes only an all-digit leading token such as the
// "1700000000-" timestamp added on upload. A general first-hyphen-token rule
// would also cut brand names like "hdfc-bank" down to "bank".
var normalizeRules = []normalizeRule{
	{"stock suffix", regexp.MustCompile(`(?i)\.ns-[0-9a-f]+`)},
	{"copy counter", regexp.MustCompile(`\s*\(\d+\)`)},
	{"pixel dimensions", regexp.MustCompile(`(?i)-\d+x\d+`)},
	{"industries limited", regexp.MustCompile(`(?i)-industries-limited`)},
	{"logo suffix", regexp.MustCompile(`(?i)[-_]logo\b`)},
	{"logo prefix", regexp.MustCompile(`(?i)\blogo[-_]`)},
	{"cabs suffix", regexp.MustCompile(`(?i)-cabs\b`)},
	{"new suffix", regexp.MustCompile(`(?i)-new\b`)},
	{"upload prefix", regexp.MustCompile(`^\d+-`)},
}

var extension = regexp.MustCompile(`\.[A-Za-z0-9]{1,5}$`)

type alias struct {
	token  string
	target string
}

// aliases correct names that never survive normalization in a matchable form.
var aliases = []alias{
	{token: "asianpaint", target: "Asian"},
	{token: "hdfc-bank", target: "HDFC"},
}

// DeriveName turns an image URL or name into a lookup name, e.g.
// "/uploads/1712-Swiggy-logo.jpg" becomes "Swiggy".
func DeriveName(key string) string {
	name := baseFilename(key)
	if name == "" {
		return ""
	}
	name = extension.ReplaceAllString(name, "")
	for _, rule := range normalizeRules {
		name = rule.pattern.ReplaceAllString(name, "")
	}
	return strings.TrimSpace(name)
}

func baseFilename(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	key = strings.ReplaceAll(key, "\\", "/")
	base := path.Base(key)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSpace(base)
}
