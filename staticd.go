package staticd

import (
	"fmt"
	"log"
	"net"

	"github.com/indigo-web/staticd/config"
	"github.com/indigo-web/staticd/http/serve"
	"github.com/indigo-web/staticd/internal/pathlib"
	"github.com/indigo-web/staticd/transport"
)

// App is a static files server bound to a single address and a single root directory.
type App struct {
	cfg        *config.Config
	logger     transport.Logger
	hooks      hooks
	tcp        *transport.TCP
	supervisor *transport.Supervisor
}

// New returns a new App instance. The config must not be modified afterward.
func New(cfg *config.Config) *App {
	return &App{
		cfg:        cfg,
		logger:     log.Default(),
		supervisor: transport.NewSupervisor(),
	}
}

// Logger replaces the default logger, log.Default().
func (a *App) Logger(logger transport.Logger) *App {
	a.logger = logger
	return a
}

// NotifyOnStart calls the callback at the moment the listener is bound and the server
// is about to accept connections.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback at the moment, when the server is down. It's guaranteed,
// that at the moment as the callback is called, the server isn't able to accept any new
// connections and all the clients are already disconnected
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Serve binds the listener and serves connections until stopped. A failure to bind or to
// open the root directory is returned immediately.
func (a *App) Serve() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	resolver, err := pathlib.New(a.cfg.Root, a.cfg.Files.IndexFile, a.cfg.Files.MaxSize)
	if err != nil {
		return fmt.Errorf("staticd: root: %w", err)
	}

	handler := serve.New(a.cfg, resolver, a.logger)
	a.tcp = transport.NewTCP(a.logger)
	if err = a.supervisor.Add(a.cfg.Addr, a.tcp, a.onConn(handler)); err != nil {
		return fmt.Errorf("staticd: bind %s: %w", a.cfg.Addr, err)
	}

	a.logger.Printf("listening on %s", a.tcp.Addr())
	a.logger.Printf("serving files from %s", resolver.Root())
	callIfNotNil(a.hooks.OnStart)
	err = a.supervisor.Run(a.cfg.NET)
	callIfNotNil(a.hooks.OnStop)

	return err
}

// Addr returns the address the server is listening on. It's valid only after the start
// notification.
func (a *App) Addr() net.Addr {
	return a.tcp.Addr()
}

// Stop stops accepting new connections and waits until the running ones are served.
// It must be called only after the server has started.
func (a *App) Stop() {
	a.supervisor.Stop()
}

func (a *App) onConn(handler *serve.Handler) transport.OnConn {
	return func(id string, conn net.Conn) {
		if err := handler.HTTP1(id, conn); err != nil {
			a.logger.Printf("[%s] %s: %s", id, conn.RemoteAddr(), err)
		}
	}
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
