package navigator

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// SiteOf returns the registrable domain of a URL or bare host,
// e.g. "https://app.datadoghq.com/logs" -> "datadoghq.com".
func SiteOf(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty input")
	}

	if strings.Contains(input, "://") {
		parsed, err := url.Parse(input)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		input = parsed.Hostname()
	}
	input = strings.ToLower(strings.TrimSuffix(input, "."))
	if input == "" {
		return "", fmt.Errorf("no host in input")
	}

	site, err := publicsuffix.EffectiveTLDPlusOne(input)
	if err != nil {
		return "", fmt.Errorf("failed to extract site: %w", err)
	}
	return site, nil
}
