// Package pipeline drives a single ytaudio run: classify the destination,
// acquire a working directory, then fetch, transcode, and deliver in order.
//
// Runner is the entry point used by the CLI. Every run is tagged with a
// UUID run_id that flows through the context into every log line. The first
// failing step aborts the run; a temporary working directory is removed on
// every exit path while a user-supplied one is left intact.
package pipeline
