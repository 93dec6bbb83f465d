// Package naming knows how ComfyUI names the clips a batch produces and
// where moviegen puts its own artifacts.
//
// A generated clip is named <prefix>_<index>_<suffix>.<ext>, where index is
// zero-padded to at least five digits and is the 1-based position of the
// prompt that produced it. [Pattern] recognizes those names; the output
// helpers build the manifest, chapter, and final-output paths.
package naming
