package spec

import "testing"

func TestParseAddressPort(t *testing.T) {
	cases := []struct {
		in   string
		host string
		port int
	}{
		{"127.0.0.1:8080", "127.0.0.1", 8080},
		{"example.com:443", "example.com", 443},
		{"example.com", "example.com", 0},
		{"[2001:db8::1]:8080", "2001:db8::1", 8080},
		{"[2001:db8::1]", "2001:db8::1", 0},
		{"2001:db8::1", "2001:db8::1", 0},
		{"::1", "::1", 0},
		{"host:notaport", "host:notaport", 0},
		{"", "", 0},
	}
	for _, c := range cases {
		host, port := ParseAddressPort(c.in)
		if host != c.host || port != c.port {
			t.Errorf("ParseAddressPort(%q) = %q, %d; want %q, %d", c.in, host, port, c.host, c.port)
		}
	}
}

func TestFormatAddressPort(t *testing.T) {
	cases := []struct {
		host string
		port int
		want string
	}{
		{"127.0.0.1", 8080, "127.0.0.1:8080"},
		{"2001:db8::1", 8080, "[2001:db8::1]:8080"},
		{"::1", 9000, "[::1]:9000"},
		{"example.com", 0, "example.com"},
		{"example.com", 443, "example.com:443"},
	}
	for _, c := range cases {
		if got := FormatAddressPort(c.host, c.port); got != c.want {
			t.Errorf("FormatAddressPort(%q, %d) = %q; want %q", c.host, c.port, got, c.want)
		}
	}
}

func TestAddressRoundTrip(t *testing.T) {
	for _, addr := range []string{"127.0.0.1:8080", "[2001:db8::1]:8080", "2001:db8::1", "example.com:443"} {
		host, port := ParseAddressPort(addr)
		if got := FormatAddressPort(host, port); got != addr {
			t.Errorf("round trip of %q produced %q", addr, got)
		}
	}
}
