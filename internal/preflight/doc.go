// Package preflight provides readiness checks for the filesystem paths and
// network endpoints a ytaudio run depends on.
//
// The CLI "ytaudio check" command renders these results alongside the binary
// checks from the deps package. Checks never modify anything.
package preflight
