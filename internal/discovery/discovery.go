// Package discovery locates the ComfyUI server to talk to.
//
// Strategies are tried in order and the first hit wins: explicit flags,
// environment variables, then a scan of the process table for a running
// ComfyUI. When none answers, the ComfyUI default 127.0.0.1:8188 is used.
package discovery

import (
	"context"
	"net"
	"strconv"
)

// Default ComfyUI listen address.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8188
)

// Endpoint is a ComfyUI host and port.
type Endpoint struct {
	Host string
	Port int
}

// URL returns the http base URL for the endpoint.
func (e Endpoint) URL() string {
	return "http://" + net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Strategy is one way of finding the server.
type Strategy interface {
	Name() string
	Discover(ctx context.Context) (Endpoint, bool)
}

// Result is the resolved endpoint and which strategy produced it.
type Result struct {
	Endpoint Endpoint
	Source   string
}

// Resolve runs strategies in order and returns the first hit, or the
// default endpoint with Source "default".
func Resolve(ctx context.Context, strategies ...Strategy) Result {
	for _, s := range strategies {
		if ep, ok := s.Discover(ctx); ok {
			return Result{Endpoint: ep, Source: s.Name()}
		}
	}
	return Result{Endpoint: Endpoint{Host: DefaultHost, Port: DefaultPort}, Source: "default"}
}

// normalizeHost maps wildcard listen addresses to loopback so the client
// can connect to them.
func normalizeHost(h string) string {
	switch h {
	case "", "0.0.0.0", "::", "[::]":
		return DefaultHost
	}
	return h
}

func validPort(p int) bool { return p > 0 && p <= 65535 }

// WithOverrides replaces the host or port the user pinned on their own.
// Static covers the case where both are pinned.
func (r Result) WithOverrides(host string, port int) Result {
	changed := false
	if host != "" {
		r.Endpoint.Host = normalizeHost(host)
		changed = true
	}
	if validPort(port) {
		r.Endpoint.Port = port
		changed = true
	}
	if changed {
		r.Source += " + flags"
	}
	return r
}
