package useragent

import (
	"net"
	"net/http"
	"strings"
)

// Client describes who opened a connection, for logging only.
type Client struct {
	Browser string
	OS      string
	IP      string
}

func (c Client) String() string {
	return c.Browser + " on " + c.OS + " from " + c.IP
}

// browsers is checked in order: Edge and Chrome both claim Safari.
var browsers = []struct{ token, name string }{
	{"Edg/", "Edge"},
	{"Firefox/", "Firefox"},
	{"Chrome/", "Chrome"},
	{"Safari/", "Safari"},
}

var systems = []struct{ token, name string }{
	{"Android", "Android"},
	{"iPhone", "iOS"},
	{"iPad", "iOS"},
	{"Windows", "Windows"},
	{"Mac OS X", "macOS"},
	{"Linux", "Linux"},
}

func FromRequest(r *http.Request) Client {
	ua := r.Header.Get("User-Agent")
	c := Client{Browser: "Unknown Browser", OS: "Unknown OS", IP: clientIP(r)}

	for _, b := range browsers {
		if idx := strings.Index(ua, b.token); idx != -1 {
			c.Browser = b.name
			if major := majorVersion(ua[idx+len(b.token):]); major != "" {
				c.Browser += " " + major
			}
			break
		}
	}
	for _, s := range systems {
		if strings.Contains(ua, s.token) {
			c.OS = s.name
			break
		}
	}
	return c
}

func majorVersion(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// clientIP prefers proxy headers (X-Forwarded-For, then X-Real-IP) over
// RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
