// Package planner turns the clips of a batch into a concat plan: the
// manifest the concat demuxer reads and the FFMETADATA chapter track that
// names each clip after the prompt that produced it.
//
// Planning does I/O only through the injected duration prober; rendering
// the manifest and chapter text is pure, so running it twice over the same
// clips yields identical files.
package planner
