package transport

import (
	"net"

	"github.com/indigo-web/staticd/config"
)

// OnConn is called for every accepted connection in its own goroutine. The id is a
// correlation identifier unique to the connection.
type OnConn func(id string, conn net.Conn)

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

type Transport interface {
	Bind(addr string) error
	Listen(cfg config.NET, cb OnConn) error
	Addr() net.Addr
	Stop()
	Close()
	Wait()
}
