package planner

// Clip is one generated video file found in the output directory.
type Clip struct {
	Name  string // base name, as written in the manifest
	Path  string // full path, as handed to the prober
	Index int    // embedded 1-based prompt index
	Size  int64
}

// Chapter is a named time range in the merged output, in milliseconds.
// End is exclusive.
type Chapter struct {
	StartMs int64
	EndMs   int64
	Title   string
}

// Plan holds everything needed to write the concat sidecars.
type Plan struct {
	Clips    []Clip
	Chapters []Chapter

	// TotalMs is the sum of chaptered durations; clips without a prompt
	// are not counted.
	TotalMs int64

	// Warnings lists clips that were kept in the manifest but could not be
	// chaptered, or whose duration could not be probed.
	Warnings []string
}
