package comlink

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultURL is used when neither a host nor a URL is configured.
	DefaultURL = "http://localhost:3000"

	schemeHTTP  = "http"
	schemeHTTPS = "https"
	portHTTP    = 80
	portHTTPS   = 443
	maxPort     = 65535
)

// NormalizeBaseURL returns the canonical scheme://host:port base URL.
//
// A non-empty host wins over rawURL. With a host the scheme is https only
// when port is 443, and a zero port means the scheme default. With a URL
// the scheme is mandatory, trailing slashes are dropped and a missing port
// is filled in from the scheme.
func NormalizeBaseURL(rawURL, host string, port int) (string, error) {
	if port < 0 || port > maxPort {
		return "", fmt.Errorf("%w: port %d out of range", ErrInvalidConfiguration, port)
	}
	if host = strings.Trim(strings.TrimSpace(host), "[]"); host != "" {
		if err := validateHost(host); err != nil {
			return "", err
		}
		return fromHostPort(host, port), nil
	}
	return fromURL(rawURL)
}

// validateHost accepts a bare hostname or IP literal. A port or path
// belongs in Port or the URL instead.
func validateHost(host string) error {
	if strings.ContainsAny(host, "/?#@ ") {
		return fmt.Errorf("%w: host %q must be a bare hostname or IP", ErrInvalidConfiguration, host)
	}
	if strings.Contains(host, ":") && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: host %q must not include a port; use Port", ErrInvalidConfiguration, host)
	}
	return nil
}

func fromHostPort(host string, port int) string {
	scheme := schemeHTTP
	if port == portHTTPS {
		scheme = schemeHTTPS
	}
	if port == 0 {
		port = defaultPort(scheme)
	}
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port))
}

func fromURL(rawURL string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if trimmed == "" {
		trimmed = DefaultURL
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: parse url %q: %v", ErrInvalidConfiguration, rawURL, err)
	}
	if parsed.Scheme == "" {
		return "", fmt.Errorf("%w: url %q must include a scheme (http or https)", ErrInvalidConfiguration, rawURL)
	}
	if parsed.Hostname() == "" {
		return "", fmt.Errorf("%w: url %q has no host", ErrInvalidConfiguration, rawURL)
	}

	if parsed.Port() != "" {
		return trimmed, nil
	}
	return parsed.Scheme + "://" + net.JoinHostPort(parsed.Hostname(), strconv.Itoa(defaultPort(parsed.Scheme))), nil
}

func defaultPort(scheme string) int {
	if strings.EqualFold(scheme, schemeHTTPS) {
		return portHTTPS
	}
	return portHTTP
}
