// Package services defines shared utilities consumed by the pipeline stages
// and their external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (download, transcode, delivery, configuration) for exit status mapping.
//   - A thin Executor abstraction that makes external command execution
//     testable and keeps ffmpeg/rsync invocation uniform.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error classification, observability) stays uniform across the pipeline.
package services
