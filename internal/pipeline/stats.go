package pipeline

// RunStats reports what one driver run did.
type RunStats struct {
	Prompts    int // prompts loaded
	StartIndex int // 0-based position submission began at
	Submitted  int
	Clips      int // clips placed in the concat manifest
	Chapters   int
	OutputSize int64
}

// Remaining returns how many prompts were left when submission started.
func (s *RunStats) Remaining() int {
	if s.StartIndex >= s.Prompts {
		return 0
	}
	return s.Prompts - s.StartIndex
}
