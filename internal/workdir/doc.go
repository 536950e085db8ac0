// Package workdir manages the directory a run downloads and transcodes in.
//
// A caller either supplies a directory that already exists, which is locked
// for the duration of the run and never deleted, or lets Acquire create a
// temporary ytaudio-* directory that Release removes. CleanStale sweeps
// temporary directories orphaned by killed processes.
package workdir
