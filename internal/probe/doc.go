// Package probe measures clip durations with ffprobe.
//
// Two modes exist. [CommandProber] asks ffprobe for the bare format
// duration and parses one number from stdout; it runs through an injected
// command.Runner. [JSONProber] asks for the full JSON document through
// ffmpeg-go and falls back to the longest stream when the container does
// not report a duration.
package probe
