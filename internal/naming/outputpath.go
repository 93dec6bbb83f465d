package naming

import "path/filepath"

// Temporary files written next to the clips during concatenation.
const (
	ManifestName = "concat_list.txt"
	ChaptersName = "chapters.txt"
)

// Artifacts holds the paths concatenation reads and writes for a clip dir.
type Artifacts struct {
	Manifest string
	Chapters string
	Output   string
}

// GetArtifacts builds the manifest, chapter, and final-output paths inside
// clipDir.
//
//	<clipDir>/concat_list.txt
//	<clipDir>/chapters.txt
//	<clipDir>/<outputName>
func GetArtifacts(clipDir, outputName string) Artifacts {
	return Artifacts{
		Manifest: filepath.Join(clipDir, ManifestName),
		Chapters: filepath.Join(clipDir, ChaptersName),
		Output:   filepath.Join(clipDir, outputName),
	}
}
