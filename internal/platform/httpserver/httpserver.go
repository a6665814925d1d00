// Package httpserver assembles the process HTTP server. Listening and
// shutdown stay with the caller.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the registry API server. Header reads are bounded and idle
// keep-alive connections are recycled. No write timeout is set; replay
// responses can carry large enriched payloads.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}
}
