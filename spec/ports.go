package spec

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNoPorts is returned when a port list field yields no usable ports.
// Encoding must reject the intent instead of producing a partial spec.
var ErrNoPorts = errors.New("no valid ports")

// ParsePortList parses a comma-separated port list into integers in
// [1,65535], preserving input order. Blank segments and entries that are not
// numeric or out of range are dropped. Duplicates pass through untouched.
func ParsePortList(text string) ([]int, error) {
	var ports []int
	for _, seg := range strings.Split(text, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		p, err := strconv.Atoi(seg)
		if err != nil || p < 1 || p > 65535 {
			continue
		}
		ports = append(ports, p)
	}
	if len(ports) == 0 {
		return nil, ErrNoPorts
	}
	return ports, nil
}

// FormatPortList renders ports back into the comma-separated form edited by
// the operator.
func FormatPortList(ports []int) string {
	segs := make([]string, 0, len(ports))
	for _, p := range ports {
		segs = append(segs, strconv.Itoa(p))
	}
	return strings.Join(segs, ",")
}
