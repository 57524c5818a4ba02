package httpserver

import "errors"

var (
	// ErrStart wraps listener startup failures returned by Run.
	ErrStart = errors.New("failed to start HTTP server")
	// ErrShutdown wraps graceful drain failures returned by Shutdown.
	ErrShutdown = errors.New("failed to shutdown HTTP server gracefully")
)
