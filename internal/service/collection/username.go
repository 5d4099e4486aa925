package collection

import (
	"regexp"
	"strings"
)

var (
	ipv4Pattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
	ipv6Pattern = regexp.MustCompile(`^[0-9a-fA-F]*:[0-9a-fA-F:]*$`)
)

// SanitizeUsername strips double quotes and surrounding whitespace.
// Returns ErrMissingUsername for an empty result and ErrAnonymousUser for
// names that look like IP addresses. An IPv6 match needs at least one colon
// so hex-only names such as "Cafe" stay valid.
func SanitizeUsername(raw string) (string, error) {
	name := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
	if name == "" {
		return "", ErrMissingUsername
	}
	if ipv4Pattern.MatchString(name) || ipv6Pattern.MatchString(name) {
		return "", ErrAnonymousUser
	}
	return name, nil
}
