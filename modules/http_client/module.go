// Package http_client provides the "http" case function: a request against
// a URL that succeeds when the expected status code comes back.
package http_client

import (
	"net/http"
	"time"

	"github.com/specialistvlad/casegrid/internal/registry"
)

// Module implements the registry.Module interface. It owns the HTTP client
// shared by every http case of the process.
type Module struct {
	// Timeout bounds each request; zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout is the request timeout when none is configured.
const DefaultTimeout = 10 * time.Second

// NewClient returns the client the http cases share.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("http", Request(NewClient(m.Timeout)), "url", "method", "expect")
}
