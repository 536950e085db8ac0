// Package destination decides whether a delivery target names a remote host
// reachable over rsync or a path on the local filesystem.
package destination

import "regexp"

// Kind classifies a destination string.
type Kind int

const (
	// Local destinations are filesystem paths handled by a move.
	Local Kind = iota
	// Remote destinations use the [user@]host:path form handled by rsync.
	Remote
)

func (k Kind) String() string {
	switch k {
	case Remote:
		return "remote"
	default:
		return "local"
	}
}

const label = `([a-zA-Z0-9]|[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9])`

var remotePattern = regexp.MustCompile(`^(` + label + `@)?` + label + `(\.` + label + `)*:`)

// Classify reports Remote when dest starts with an optional user, a hostname
// made of dot-separated labels, and a colon. Everything else is Local.
func Classify(dest string) Kind {
	if remotePattern.MatchString(dest) {
		return Remote
	}
	return Local
}

// IsRemote is shorthand for Classify(dest) == Remote.
func IsRemote(dest string) bool {
	return Classify(dest) == Remote
}
