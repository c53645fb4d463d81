// Package httpcache evaluates conditional request headers.
package httpcache

import (
	"net/http"
	"strings"
	"time"
)

// Tolerance absorbs the one second resolution of HTTP dates.
const Tolerance = time.Second

// Header names that net/http has no constant for.
const (
	HeaderAIM = "A-IM"
	HeaderIM  = "IM"
)

// StatusIMUsed is the RFC 3229 status for instance-manipulated responses.
const StatusIMUsed = 226

// header value separators from RFC 2616
const separators = "()<>@,;:\\\"/[]?={} \t"

func tokens(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
}

func hasToken(h http.Header, name, token string) bool {
	for _, value := range h.Values(name) {
		for _, t := range tokens(value) {
			if strings.EqualFold(t, token) {
				return true
			}
		}
	}
	return false
}

// IfModifiedSince returns the parsed If-Modified-Since date. ok is false when
// the header is absent or unparseable.
func IfModifiedSince(h http.Header) (t time.Time, ok bool) {
	value := strings.TrimSpace(h.Get("If-Modified-Since"))
	if value == "" {
		return time.Time{}, false
	}
	if t, err := http.ParseTime(value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC1123Z, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// NoCache reports whether Cache-Control carries the no-cache directive.
func NoCache(h http.Header) bool {
	return hasToken(h, "Cache-Control", "no-cache")
}

// AcceptsFeedDelta reports whether A-IM declares support for RFC 3229 feed
// deltas.
func AcceptsFeedDelta(h http.Header) bool {
	return hasToken(h, HeaderAIM, "feed")
}

// NotModified reports whether a resource last modified at modified may be
// answered with 304 Not Modified.
func NotModified(h http.Header, modified time.Time) bool {
	if NoCache(h) {
		return false
	}
	since, ok := IfModifiedSince(h)
	if !ok {
		return false
	}
	return !modified.After(since.Add(Tolerance))
}

// LastModified formats t for the Last-Modified header.
func LastModified(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}
