package ffmpeg

import "regexp"

// Pre-compiled regexes for classifying ffmpeg stderr from a failed merge.
// Checked in order by [Hint]; the first match wins.
var (
	reUnsafeName = regexp.MustCompile(
		`Unsafe file name`)

	reMissingInput = regexp.MustCompile(
		`(?i)No such file or directory|Impossible to open`)

	reChapterParse = regexp.MustCompile(
		`(?i)Error parsing .*metadata|Invalid data found when processing input`)

	reTimestampIssue = regexp.MustCompile(
		`(?i)Non-monotonous DTS|non monotonically increasing dts|` +
			`DTS .*out of order|PTS .*out of order`)

	reStreamMismatch = regexp.MustCompile(
		`(?i)Could not find tag for codec|codec not currently supported in container|` +
			`Tag .* incompatible with output codec`)

	reDiskFull = regexp.MustCompile(
		`No space left on device`)
)

// Hint returns a one-line explanation for a known merge failure, or "".
func Hint(stderr string) string {
	switch {
	case reUnsafeName.MatchString(stderr):
		return "the concat demuxer refused a clip path; check the manifest quoting"
	case reMissingInput.MatchString(stderr):
		return "a clip or sidecar file disappeared before the merge ran"
	case reChapterParse.MatchString(stderr):
		return "ffmpeg could not read the chapter file or a clip is corrupt"
	case reTimestampIssue.MatchString(stderr):
		return "clips have mismatched timebases; they must come from the same workflow settings"
	case reStreamMismatch.MatchString(stderr):
		return "clip codecs differ or do not fit the output container"
	case reDiskFull.MatchString(stderr):
		return "the output disk is full"
	}
	return ""
}
