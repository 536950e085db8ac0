// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties (codec, channels, sample rate)
//   - Format: container-level metadata (duration, size, bitrate)
//
// Inspect runs ffprobe through a services.Executor and returns the parsed
// Result. Helper methods on Result summarise the audio layout used to verify
// transcoded output.
package ffprobe
