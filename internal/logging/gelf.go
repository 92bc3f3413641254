package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGelfHandler connects to a Graylog endpoint ("host:port", UDP) and
// returns a slog handler shipping each record as one GELF message, plus
// the closer for the underlying connection. Each JSON-encoded record maps
// to a single message; chunking of oversized records is handled by the
// GELF writer itself.
func NewGelfHandler(addr string, opts *slog.HandlerOptions) (slog.Handler, io.Closer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to Graylog at %s: %w", addr, err)
	}
	return slog.NewJSONHandler(w, opts), w, nil
}
