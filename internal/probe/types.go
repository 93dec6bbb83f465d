package probe

import "strconv"

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64
	Size       int64
	BitRate    int64
}

// Stream holds the properties of one stream that matter for chaptering.
type Stream struct {
	Index     int
	CodecType string
	Codec     string
	Width     int
	Height    int
	Duration  float64
}

// ProbeResult is the parsed output of a single ffprobe JSON call.
type ProbeResult struct {
	Format  FormatInfo
	Streams []Stream
}

// Duration returns the container duration in seconds, or the longest
// stream duration when the container reports none.
func (p *ProbeResult) Duration() float64 {
	if p.Format.Duration > 0 {
		return p.Format.Duration
	}
	var longest float64
	for _, s := range p.Streams {
		if s.Duration > longest {
			longest = s.Duration
		}
	}
	return longest
}

// PrimaryVideo returns the first video stream, or nil.
func (p *ProbeResult) PrimaryVideo() *Stream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "video" {
			return &p.Streams[i]
		}
	}
	return nil
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (p *ProbeResult) Resolution() string {
	v := p.PrimaryVideo()
	if v == nil || v.Width <= 0 || v.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(v.Width) + "x" + strconv.Itoa(v.Height)
}
