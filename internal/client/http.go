package client

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Headers whose values are never logged.
var secretHeaders = map[string]bool{
	"Authorization":  true,
	"Authentication": true,
	"Cookie":         true,
}

// NewHTTP returns the client used for uploads and downloads. Redirects are
// followed by the default policy. At debug level every request is logged.
func NewHTTP(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: debugTransport{next: http.DefaultTransport},
	}
}

// debugTransport logs requests and their outcome.
type debugTransport struct {
	next http.RoundTripper
}

func (t debugTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return t.next.RoundTrip(r)
	}

	start := time.Now()
	fields := log.Fields{
		"method":  r.Method,
		"url":     r.URL.String(),
		"headers": redact(r.Header),
	}
	resp, err := t.next.RoundTrip(r)
	fields["duration"] = time.Since(start)
	if err != nil {
		log.WithFields(fields).WithError(err).Debug("HTTP request failed")
		return nil, err
	}
	fields["status"] = resp.StatusCode
	log.WithFields(fields).Debug("HTTP request")
	return resp, nil
}

// redact flattens h for logging with secret values masked.
func redact(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if secretHeaders[http.CanonicalHeaderKey(name)] {
			out[name] = "***"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// ParseHeaders turns "Key: Value" strings into a header set. Values may
// contain colons.
func ParseHeaders(raw []string) (http.Header, error) {
	h := http.Header{}
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Key: Value\"", kv)
		}
		h.Add(key, strings.TrimSpace(value))
	}
	return h, nil
}
