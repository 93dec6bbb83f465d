// Package ffmpeg builds the ffprobe and ffmpeg argument lists moviegen uses
// and runs the concat merge.
//
// The merge is a stream copy through the concat demuxer with a second
// FFMETADATA input supplying the chapter track:
//
//	ffmpeg -hide_banner -nostdin -y -loglevel error
//	       -f concat -safe 0 -i concat_list.txt -i chapters.txt
//	       -map 0 -map_metadata 1 -map_chapters 1 -c copy <output>
//
// Failures are not retried. [Hint] turns known stderr patterns into a short
// explanation for the log.
package ffmpeg
