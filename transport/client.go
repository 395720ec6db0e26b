package transport

import (
	"net"
	"time"

	"github.com/indigo-web/staticd/config"
)

type Client interface {
	Read() ([]byte, error)
	Append(serialize func(buff []byte) []byte)
	Flush() error
	Remote() net.Addr
}

type client struct {
	conn         net.Conn
	buff         []byte
	pending      []byte
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewClient wraps the connection. Reads are bounded by cfg.ReadBufferSize, writes are
// accumulated until flushed.
func NewClient(conn net.Conn, cfg config.NET) Client {
	return &client{
		conn:         conn,
		buff:         make([]byte, cfg.ReadBufferSize),
		pending:      make([]byte, 0, cfg.WriteBufferSize),
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

// Read does a single read into the internal buffer and returns a piece of it back. The
// returned slice is valid until the next call. If no data arrives in time, the error
// satisfies os.ErrDeadlineExceeded.
func (c *client) Read() ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return nil, err
	}

	n, err := c.conn.Read(c.buff)
	return c.buff[:n], err
}

// Append lets serialize write right into the write buffer, so the data isn't copied
// once more. Nothing is transmitted until Flush.
func (c *client) Append(serialize func(buff []byte) []byte) {
	c.pending = serialize(c.pending)
}

// Flush transmits everything written so far at once.
func (c *client) Flush() error {
	if len(c.pending) == 0 {
		return nil
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}

	_, err := c.conn.Write(c.pending)
	c.pending = c.pending[:0]

	return err
}

// Remote returns the remote address of the connection.
func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}
