// Package fetch retrieves the audio stream of a remote video into a working
// directory.
//
// Fetcher owns the run-level rules (skip-if-exists, output verification and
// error classification) and delegates the transfer itself to an Extractor.
// YouTubeExtractor is the production Extractor, built on
// github.com/kkdai/youtube/v2; tests substitute stubs through the same
// interface.
package fetch
