package httpclient

import (
	"net/http"
	"time"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// NewBasicAuthClient creates an HTTP client that sends HTTP Basic
// credentials with every request
func NewBasicAuthClient(username, password string, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &basicAuthTransport{
			username: username,
			password: password,
			base:     http.DefaultTransport,
		},
	}
}

type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	clone := req.Clone(req.Context())
	if t.username != "" || t.password != "" {
		clone.SetBasicAuth(t.username, t.password)
	}
	return t.base.RoundTrip(clone)
}
