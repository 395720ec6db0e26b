package dummy

import (
	"io"
	"net"
	"time"
)

// Conn is an in-memory net.Conn. Reads return the data it was initialised with and io.EOF
// afterward, writes are accumulated in Written.
type Conn struct {
	Data          []byte
	Written       []byte
	ReadErr       error
	WriteErr      error
	ReadDeadline  time.Time
	WriteDeadline time.Time
	Closed        bool
}

func NewConn(data []byte) *Conn {
	return &Conn{Data: data}
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if c.ReadErr != nil {
		return 0, c.ReadErr
	}

	if len(c.Data) == 0 {
		return 0, io.EOF
	}

	n = copy(b, c.Data)
	c.Data = c.Data[n:]

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	if c.WriteErr != nil {
		return 0, c.WriteErr
	}

	c.Written = append(c.Written, b...)

	return len(b), nil
}

func (c *Conn) Close() error {
	c.Closed = true
	return nil
}

func (c *Conn) LocalAddr() net.Addr {
	return addr{}
}

func (c *Conn) RemoteAddr() net.Addr {
	return addr{}
}

func (c *Conn) SetDeadline(t time.Time) error {
	c.ReadDeadline, c.WriteDeadline = t, t
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.ReadDeadline = t
	return nil
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	c.WriteDeadline = t
	return nil
}

type addr struct{}

func (addr) Network() string { return "dummy" }
func (addr) String() string  { return "dummy" }
