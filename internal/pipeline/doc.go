// Package pipeline drives a batch: it scans the clip directory for a resume
// point, gates on the ComfyUI queue, and either submits the remaining
// prompts one at a time or concatenates finished clips into one chaptered
// file.
//
// Batch state is never persisted. Everything the driver needs to resume is
// derived from the clip file names on disk.
package pipeline
