// Package config loads nginx-style directive configuration and derives
// the listening ports and routing table the server consumes.
//
// The grammar is generic: any directive parses. Meaning is assigned only
// when deriving routes, and only to this shape:
//
//	http {
//	    server {
//	        listen 8080;
//	        location /prefix/ {
//	            root directory;
//	        }
//	    }
//	}
//
// Unknown directives are carried through parsing and ignored here.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shapestone/shape-serve/internal/parser"
)

// Config is a parsed configuration document.
type Config struct {
	directives []directive
}

// Parse parses configuration text.
func Parse(text string) (*Config, error) {
	node, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return &Config{directives: blockDirectives(node)}, nil
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(string(data))
}

// ListenPorts returns every port declared by a listen directive across
// server blocks, in declaration order. Servers without listen contribute
// nothing here (they default to 80 in the routing table only).
func (c *Config) ListenPorts() ([]int, error) {
	var ports []int
	for _, srv := range c.servers() {
		lit, ok := firstArg(srv.block, "listen")
		if !ok {
			continue
		}
		port, err := strconv.Atoi(lit)
		if err != nil {
			return nil, fmt.Errorf("config: invalid port number %q", lit)
		}
		ports = append(ports, port)
	}
	return ports, nil
}

// RoutingTable derives the port → routes mapping. Each server block
// contributes its locations in declaration order; a server without
// listen defaults to port 80; a location without a root directive is
// skipped. When two server blocks declare the same port the later one
// wins.
func (c *Config) RoutingTable() (RoutingTable, error) {
	table := make(RoutingTable)
	for _, srv := range c.servers() {
		port := 80
		if lit, ok := firstArg(srv.block, "listen"); ok {
			p, err := strconv.Atoi(lit)
			if err != nil {
				return nil, fmt.Errorf("config: invalid port number %q", lit)
			}
			port = p
		}

		rs := &RouteSet{}
		for _, d := range srv.block {
			if d.name != "location" || !d.hasBlock || len(d.args) != 1 {
				continue
			}
			root, ok := firstArg(d.block, "root")
			if !ok {
				continue
			}
			rs.routes = append(rs.routes, Route{Prefix: d.args[0], Root: root})
		}
		table[port] = rs
	}
	return table, nil
}

// servers returns the server blocks inside http blocks, in declaration
// order.
func (c *Config) servers() []directive {
	var out []directive
	for _, h := range c.directives {
		if h.name != "http" || !h.hasBlock {
			continue
		}
		for _, d := range h.block {
			if d.name == "server" && d.hasBlock {
				out = append(out, d)
			}
		}
	}
	return out
}
