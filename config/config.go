package config

import (
	"time"

	"github.com/indigo-web/staticd/http/mime"
)

type (
	NET struct {
		// ReadBufferSize is the maximal size of a request. The whole request is read by a
		// single read call into a buffer of this size, everything beyond is ignored.
		ReadBufferSize int
		// ReadTimeout limits how long a connection may stay silent before it's dropped.
		ReadTimeout time.Duration
		// WriteTimeout limits how long writing a response may take.
		WriteTimeout time.Duration
		// WriteBufferSize is the initial size of the buffer the response is serialized into.
		// The buffer grows to contain the whole response anyway.
		WriteBufferSize int
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
		// IDLength is the length of a correlation identifier assigned to every accepted
		// connection.
		IDLength int
	}

	Files struct {
		// MaxSize is the biggest file in bytes that can be served. Negative value disables
		// the limit.
		MaxSize int64
		// IndexFile is served for the root and for any directory.
		IndexFile string
		// ContentType is set for every served file, regardless of its extension.
		ContentType string
	}
)

// Config holds everything the server needs at the startup. It is never modified after
// the server is started.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	// Addr is the address the listener is bound to.
	Addr string
	// Root is the directory containing all the servable files.
	Root  string
	NET   NET
	Files Files
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Addr: "127.0.0.1:80",
		Root: "./www",
		NET: NET{
			ReadBufferSize:            8 * 1024,
			ReadTimeout:               30 * time.Second,
			WriteTimeout:              30 * time.Second,
			WriteBufferSize:           4 * 1024,
			AcceptLoopInterruptPeriod: 5 * time.Second,
			IDLength:                  8,
		},
		Files: Files{
			MaxSize:     10 * 1024 * 1024, // 10 megabytes
			IndexFile:   "index.html",
			ContentType: mime.HTML,
		},
	}
}
