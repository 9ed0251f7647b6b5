// assets/embed.go
//
// Embedded default puzzle dataset.
// Used when no external dataset file is configured, so the server always
// has something to serve in development.

package assets

import (
	"embed"
)

//go:embed puzzles.json
var FS embed.FS

// DefaultPuzzles returns the raw bytes of the bundled puzzles.json.
func DefaultPuzzles() ([]byte, error) {
	return FS.ReadFile("puzzles.json")
}
