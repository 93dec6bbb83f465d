package discovery

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/fngarvin/moviegen/internal/command"
)

// Static is an endpoint given on the command line. It only applies when
// both parts are set.
type Static struct {
	Host string
	Port int
}

func (Static) Name() string { return "flags" }

func (s Static) Discover(context.Context) (Endpoint, bool) {
	if s.Host == "" || !validPort(s.Port) {
		return Endpoint{}, false
	}
	return Endpoint{Host: normalizeHost(s.Host), Port: s.Port}, true
}

// Env reads COMFYUI_HOST and COMFYUI_PORT through Lookup. Both must be set.
type Env struct {
	Lookup func(string) (string, bool)
}

func (Env) Name() string { return "environment" }

func (e Env) Discover(context.Context) (Endpoint, bool) {
	if e.Lookup == nil {
		return Endpoint{}, false
	}
	host, ok := e.Lookup("COMFYUI_HOST")
	if !ok || strings.TrimSpace(host) == "" {
		return Endpoint{}, false
	}
	portStr, ok := e.Lookup("COMFYUI_PORT")
	if !ok {
		return Endpoint{}, false
	}
	port, err := strconv.Atoi(strings.TrimSpace(portStr))
	if err != nil || !validPort(port) {
		return Endpoint{}, false
	}
	return Endpoint{Host: normalizeHost(strings.TrimSpace(host)), Port: port}, true
}

var (
	reListen = regexp.MustCompile(`--listen(?:\s+|=)(\S+)`)
	rePort   = regexp.MustCompile(`--port(?:\s+|=)(\d+)`)
)

// Process scans `ps aux` for a python process running ComfyUI's main.py
// and reads its --listen and --port arguments.
type Process struct {
	Runner command.Runner
}

func (Process) Name() string { return "process table" }

func (p Process) Discover(ctx context.Context) (Endpoint, bool) {
	if p.Runner == nil {
		return Endpoint{}, false
	}
	res, err := p.Runner.Run(ctx, "ps", "aux")
	if err != nil {
		return Endpoint{}, false
	}
	return ParsePS(res.Stdout)
}

// ParsePS finds the first ComfyUI server line in ps output. The line must
// mention python and main.py and carry a --port. A bare --listen (no
// address) or a wildcard address means loopback.
func ParsePS(out string) (Endpoint, bool) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "python") || !strings.Contains(line, "main.py") {
			continue
		}
		pm := rePort.FindStringSubmatch(line)
		if pm == nil {
			continue
		}
		port, err := strconv.Atoi(pm[1])
		if err != nil || !validPort(port) {
			continue
		}

		host := DefaultHost
		if lm := reListen.FindStringSubmatch(line); lm != nil && !strings.HasPrefix(lm[1], "-") {
			// ComfyUI accepts a comma-separated list; the first one is enough.
			host = normalizeHost(strings.SplitN(lm[1], ",", 2)[0])
		}
		return Endpoint{Host: host, Port: port}, true
	}
	return Endpoint{}, false
}
