package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/fngarvin/moviegen/internal/command"
	"github.com/fngarvin/moviegen/internal/config"
	"github.com/fngarvin/moviegen/internal/ffmpeg"
)

// ErrNoDuration is returned when ffprobe answers but reports no duration.
var ErrNoDuration = errors.New("ffprobe reported no duration")

// DurationProber measures the playback duration of a media file in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// New returns the prober for the configured mode.
func New(mode config.ProbeMode, runner command.Runner) DurationProber {
	if mode == config.ProbeJSON {
		return NewJSONProber(DefaultJSONTimeout)
	}
	return &CommandProber{Runner: runner}
}

// CommandProber runs ffprobe in bare-value mode and parses stdout.
type CommandProber struct {
	Runner command.Runner
}

// Duration implements DurationProber.
func (p *CommandProber) Duration(ctx context.Context, path string) (float64, error) {
	args := ffmpeg.BuildDurationProbe(path)
	res, err := p.Runner.Run(ctx, args[0], args[1:]...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return parseDuration(res.Stdout)
}

// parseDuration reads the first non-empty line of ffprobe's bare output.
// "N/A" (streams with no known length) is reported as ErrNoDuration.
func parseDuration(out string) (float64, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "N/A" {
			return 0, ErrNoDuration
		}
		d, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, fmt.Errorf("parse ffprobe duration %q: %w", line, err)
		}
		if d < 0 {
			return 0, fmt.Errorf("negative duration %v", d)
		}
		return d, nil
	}
	return 0, ErrNoDuration
}

// DefaultJSONTimeout bounds one ffprobe call in JSON mode.
const DefaultJSONTimeout = 30 * time.Second

// JSONProber probes through ffmpeg-go and parses the JSON document.
//
// ffmpeg-go runs ffprobe under its own context, so cancelling ctx does not
// stop a call already in flight. Each call is instead bounded by Timeout,
// shortened to ctx's deadline when that comes sooner.
type JSONProber struct {
	Timeout time.Duration
	probe   func(path string, timeout time.Duration) (string, error)
}

// NewJSONProber returns a JSONProber backed by ffmpeg-go.
func NewJSONProber(timeout time.Duration) *JSONProber {
	return &JSONProber{
		Timeout: timeout,
		probe: func(path string, timeout time.Duration) (string, error) {
			return ffmpeggo.ProbeWithTimeout(path, timeout, ffmpeggo.KwArgs{})
		},
	}
}

// Probe runs ffprobe against path and returns the parsed result.
func (p *JSONProber) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := p.probe(path, p.callTimeout(ctx))
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return ParseJSON([]byte(out))
}

// callTimeout returns the bound for one call; zero means none.
func (p *JSONProber) callTimeout(ctx context.Context) time.Duration {
	timeout := p.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			left = time.Millisecond
		}
		if timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	return timeout
}

// Duration implements DurationProber.
func (p *JSONProber) Duration(ctx context.Context, path string) (float64, error) {
	pr, err := p.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	d := pr.Duration()
	if d <= 0 {
		return 0, ErrNoDuration
	}
	return d, nil
}

// ParseJSON converts raw ffprobe JSON output into a ProbeResult.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*ProbeResult, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

func buildResult(raw *ffprobeOutput) *ProbeResult {
	pr := &ProbeResult{
		Format: FormatInfo{
			Filename:   raw.Format.Filename,
			FormatName: raw.Format.FormatName,
			Duration:   parseFloat(raw.Format.Duration),
			Size:       parseInt64(raw.Format.Size),
			BitRate:    parseInt64(raw.Format.BitRate),
		},
	}
	for _, s := range raw.Streams {
		pr.Streams = append(pr.Streams, Stream{
			Index:     s.Index,
			CodecType: s.CodecType,
			Codec:     s.CodecName,
			Width:     s.Width,
			Height:    s.Height,
			Duration:  parseFloat(s.Duration),
		})
	}
	return pr
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
