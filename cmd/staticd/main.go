package main

import (
	"flag"
	"log"
	"os"

	"github.com/indigo-web/staticd"
	"github.com/indigo-web/staticd/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a JSON config file")
		addr       = flag.String("addr", "", "address to listen on (overrides the config)")
		root       = flag.String("root", "", "directory to serve files from (overrides the config)")
	)
	flag.Parse()

	cfg := config.Default()
	if len(*configPath) > 0 {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			log.Fatalf("FATAL: %s", err)
		}
	}

	if len(*addr) > 0 {
		cfg.Addr = *addr
	}

	if len(*root) > 0 {
		cfg.Root = *root
	}

	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		log.Fatalf("FATAL: create root directory: %s", err)
	}

	if err := staticd.New(cfg).Serve(); err != nil {
		log.Fatalf("FATAL: %s", err)
	}
}
