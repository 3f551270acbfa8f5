//go:build linux

// Command shape-serve is a static file server: nginx-style directive
// configuration, one epoll event loop, HTTP/1.1 with keep-alive.
//
// Usage:
//
//	shape-serve -config serve.conf -log-level debug
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/shapestone/shape-serve/pkg/config"
	"github.com/shapestone/shape-serve/pkg/server"
)

func main() {
	configPath := flag.String("config", "serve.conf", "path to the configuration file")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", *logLevel).Warn("unknown log level, staying on info")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("could not load configuration")
	}

	ports, err := cfg.ListenPorts()
	if err != nil {
		log.WithError(err).Fatal("invalid listen directive")
	}
	if len(ports) == 0 {
		log.Fatal("configuration declares no listen port")
	}

	table, err := cfg.RoutingTable()
	if err != nil {
		log.WithError(err).Fatal("invalid routing configuration")
	}

	// Only the first declared port is bound.
	port := ports[0]
	srv := server.New(port, table[port], log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}
