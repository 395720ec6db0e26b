package config

import (
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/json-iterator/go"
)

// file mirrors Config as it is written in a JSON file. Every field is optional: absent
// ones keep their default values. Durations are written the way time.ParseDuration
// accepts them, e.g. "30s".
type file struct {
	Addr *string `json:"addr"`
	Root *string `json:"root"`
	NET  struct {
		ReadBufferSize            *int    `json:"read_buffer_size"`
		ReadTimeout               *string `json:"read_timeout"`
		WriteTimeout              *string `json:"write_timeout"`
		WriteBufferSize           *int    `json:"write_buffer_size"`
		AcceptLoopInterruptPeriod *string `json:"accept_loop_interrupt_period"`
		IDLength                  *int    `json:"id_length"`
	} `json:"net"`
	Files struct {
		MaxSize     *int64  `json:"max_size"`
		IndexFile   *string `json:"index_file"`
		ContentType *string `json:"content_type"`
	} `json:"files"`
}

// LoadFile reads the JSON config at the path and overlays it onto defaults.
func LoadFile(path string) (*Config, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer fd.Close()

	return Load(fd)
}

// Load decodes a JSON document from r and overlays it onto defaults.
func Load(r io.Reader) (*Config, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg := Default()
	setIf(&cfg.Addr, f.Addr)
	setIf(&cfg.Root, f.Root)
	setIf(&cfg.NET.ReadBufferSize, f.NET.ReadBufferSize)
	setIf(&cfg.NET.WriteBufferSize, f.NET.WriteBufferSize)
	setIf(&cfg.NET.IDLength, f.NET.IDLength)
	setIf(&cfg.Files.MaxSize, f.Files.MaxSize)
	setIf(&cfg.Files.IndexFile, f.Files.IndexFile)
	setIf(&cfg.Files.ContentType, f.Files.ContentType)

	for _, d := range []struct {
		name  string
		dst   *time.Duration
		value *string
	}{
		{"net.read_timeout", &cfg.NET.ReadTimeout, f.NET.ReadTimeout},
		{"net.write_timeout", &cfg.NET.WriteTimeout, f.NET.WriteTimeout},
		{"net.accept_loop_interrupt_period", &cfg.NET.AcceptLoopInterruptPeriod, f.NET.AcceptLoopInterruptPeriod},
	} {
		if d.value == nil {
			continue
		}

		duration, err := time.ParseDuration(*d.value)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", d.name, err)
		}

		*d.dst = duration
	}

	return cfg, cfg.Validate()
}

// Validate reports settings the server can't run with.
func (c *Config) Validate() error {
	switch {
	case len(c.Root) == 0:
		return fmt.Errorf("config: empty root directory")
	case c.NET.ReadBufferSize <= 0:
		return fmt.Errorf("config: read buffer size must be positive")
	case c.NET.ReadTimeout <= 0 || c.NET.WriteTimeout <= 0:
		return fmt.Errorf("config: timeouts must be positive")
	case c.NET.AcceptLoopInterruptPeriod <= 0:
		return fmt.Errorf("config: accept loop interrupt period must be positive")
	case c.NET.IDLength <= 0:
		return fmt.Errorf("config: id length must be positive")
	case len(c.Files.IndexFile) == 0:
		return fmt.Errorf("config: empty index file name")
	}

	return nil
}

func setIf[T any](dst *T, value *T) {
	if value != nil {
		*dst = *value
	}
}
