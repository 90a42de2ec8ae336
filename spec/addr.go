package spec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Loose check for hosts written as IPv6 groups without brackets.
var ipv6GroupPattern = regexp.MustCompile(`^[0-9a-fA-F:]+$`)

// ParseAddressPort splits an address string into host and port. Three shapes
// are recognized, in order: bracketed IPv6 ("[addr]" or "[addr]:port"), bare
// IPv6 (more than one colon, no brackets), and "host:port" split on the last
// colon. A port of 0 means the address carried no port. Unparseable input
// degrades to the whole string as host, it never fails.
func ParseAddressPort(address string) (string, int) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", 0
	}

	if strings.HasPrefix(address, "[") {
		end := strings.Index(address, "]")
		if end < 0 {
			return address, 0
		}
		host := address[1:end]
		rest := address[end+1:]
		if strings.HasPrefix(rest, ":") {
			if port, err := strconv.Atoi(rest[1:]); err == nil {
				return host, port
			}
		}
		return host, 0
	}

	if strings.Count(address, ":") > 1 {
		// Bare IPv6, the colons are group separators.
		return address, 0
	}

	idx := strings.LastIndex(address, ":")
	if idx < 0 {
		return address, 0
	}
	if port, err := strconv.Atoi(address[idx+1:]); err == nil {
		return address[:idx], port
	}
	return address, 0
}

// FormatAddressPort joins host and port back into an address, re-bracketing
// IPv6-looking hosts. A port of 0 yields the bare host.
func FormatAddressPort(host string, port int) string {
	if port <= 0 {
		return host
	}
	if IsIPv6Host(host) {
		return fmt.Sprintf("[%s]:%d", host, port)
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// IsIPv6Host reports whether host should be bracketed when joined with a
// port: more than two colons, or colon-separated hex groups with no dots.
func IsIPv6Host(host string) bool {
	if !strings.Contains(host, ":") {
		return false
	}
	if strings.Count(host, ":") > 2 {
		return true
	}
	return !strings.Contains(host, ".") && ipv6GroupPattern.MatchString(host)
}
