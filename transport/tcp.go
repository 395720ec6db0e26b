package transport

import (
	"errors"
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/staticd/config"
)

// accept errors other than timeouts are retried with an exponential delay
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

type TCP struct {
	l      listener
	logger Logger
	wg     *sync.WaitGroup
	stop   *atomic.Bool
}

// NewTCP returns a TCP transport. Accept errors are reported to the logger, which
// defaults to log.Default().
func NewTCP(logger ...Logger) *TCP {
	tcp := newTCP(nil, optional(logger, Logger(log.Default())))
	return &tcp
}

func newTCP(l listener, logger Logger) TCP {
	return TCP{
		l:      l,
		logger: logger,
		wg:     new(sync.WaitGroup),
		stop:   new(atomic.Bool),
	}
}

func bindTCP(addr string) (*net.TCPListener, error) {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	return net.ListenTCP("tcp", tcpaddr)
}

func (t *TCP) Bind(addr string) (err error) {
	t.l, err = bindTCP(addr)
	return err
}

// Addr returns the address the transport is bound to.
func (t *TCP) Addr() net.Addr {
	return t.l.Addr()
}

// Listen accepts connections until stopped, running every one of them in a separate
// goroutine. An error on accepting a single connection doesn't stop the loop, however
// consecutive errors slow it down, up to a second between attempts.
func (t *TCP) Listen(cfg config.NET, cb OnConn) error {
	var delay time.Duration

	for !t.stop.Load() {
		err := t.l.SetDeadline(time.Now().Add(cfg.AcceptLoopInterruptPeriod))
		if err != nil {
			return err
		}

		conn, err := t.l.Accept()
		switch {
		case err == nil:
		case errors.Is(err, os.ErrDeadlineExceeded):
			continue
		case errors.Is(err, net.ErrClosed):
			return err
		default:
			delay = min(max(2*delay, minAcceptDelay), maxAcceptDelay)
			t.logger.Printf("accept: %s; retrying in %s", err, delay)
			t.sleep(delay, cfg.AcceptLoopInterruptPeriod)
			continue
		}

		delay = 0
		id := uniuri.NewLen(cfg.IDLength)
		t.wg.Add(1)
		go func(conn net.Conn) {
			cb(id, conn)
			_ = conn.Close()
			t.wg.Done()
		}(conn)
	}

	return nil
}

// sleep waits for d, waking up every period to check whether the transport was stopped.
func (t *TCP) sleep(d, period time.Duration) {
	if period <= 0 {
		period = d
	}

	for d > 0 && !t.stop.Load() {
		step := min(d, period)
		time.Sleep(step)
		d -= step
	}
}

// Stop makes the accept loop exit. It takes at most AcceptLoopInterruptPeriod.
func (t *TCP) Stop() {
	t.stop.Store(true)
}

func (t *TCP) Close() {
	_ = t.l.Close()
}

// Wait blocks until all the running connection callbacks return.
func (t *TCP) Wait() {
	t.wg.Wait()
}

func optional[T any](optionals []T, otherwise T) T {
	if len(optionals) == 0 {
		return otherwise
	}

	return optionals[0]
}
