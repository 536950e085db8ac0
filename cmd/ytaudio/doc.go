// Command ytaudio downloads the audio track of a video, normalizes it into a
// fast-start M4A with ffmpeg, and delivers it to a local path or, via rsync,
// to a remote [user@]host:path destination.
//
// Usage:
//
//	ytaudio URL DEST [--workdir DIR] [--skip-if-exist] [--mono] [--config FILE]
//	ytaudio check [--remote] [--workdir DIR] [--offline]
//	ytaudio config init|validate
//	ytaudio clean [--older-than DURATION]
//
// Exit status is 0 on success, 2 for usage or configuration errors, and 1 when
// the pipeline fails.
package main
