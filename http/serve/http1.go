package serve

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"

	"github.com/indigo-web/staticd/config"
	"github.com/indigo-web/staticd/http"
	"github.com/indigo-web/staticd/http/status"
	"github.com/indigo-web/staticd/internal/pathlib"
	"github.com/indigo-web/staticd/internal/protocol/http1"
	"github.com/indigo-web/staticd/transport"
)

// ErrEmptyRequest is returned when a connection is closed without sending anything.
var ErrEmptyRequest = errors.New("connection closed before sending a request")

// Handler serves a single request per connection. It keeps no per-connection state, so
// a single instance serves all the connections concurrently.
type Handler struct {
	cfg      *config.Config
	resolver *pathlib.Resolver
	logger   transport.Logger
}

// New returns a handler serving files via the resolver. If no logger is passed,
// log.Default() is used.
func New(cfg *config.Config, resolver *pathlib.Resolver, logger ...transport.Logger) *Handler {
	l := transport.Logger(log.Default())
	if len(logger) > 0 {
		l = logger[0]
	}

	return &Handler{
		cfg:      cfg,
		resolver: resolver,
		logger:   l,
	}
}

// HTTP1 reads a single request from the connection and responds to it. I/O errors are
// returned without responding, as the connection is most likely unusable anyway. The
// connection isn't closed.
func (h *Handler) HTTP1(id string, conn net.Conn) error {
	client := transport.NewClient(conn, h.cfg.NET)

	data, err := client.Read()
	switch {
	case len(data) > 0:
		// a request may arrive together with EOF, it is served anyway
	case err == nil, errors.Is(err, io.EOF):
		return ErrEmptyRequest
	default:
		return fmt.Errorf("read: %w", err)
	}

	request := http1.Parse(data)
	response := h.respond(id, request)
	h.logger.Printf("[%s] %s %s %s %d", id, client.Remote(), request.Method, request.Path, response.Code)

	client.Append(response.AppendBytes)
	if err = client.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return nil
}

func (h *Handler) respond(id string, request *http.Request) *http.Response {
	path, err := h.resolver.Resolve(request.Path)
	if err != nil {
		h.logger.Printf("[%s] resolve %q: %s", id, request.Path, err)
		return http.Error(status.CodeOf(err))
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		// the file might be gone since resolved, or is a directory without an index
		h.logger.Printf("[%s] read %s: %s", id, path, err)
		return http.Error(status.NotFound)
	}

	return http.NewResponse(status.OK, status.Text(status.OK), h.cfg.Files.ContentType, contents)
}
