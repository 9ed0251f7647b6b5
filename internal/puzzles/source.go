// internal/puzzles/source.go
//
// Dataset source resolution.
//
// Initialization behavior (LoadSource):
//   1. If path is set, read the dataset from that file.
//   2. Otherwise fall back to the embedded default from assets/puzzles.json.
//
// Either way the bytes are handed to Load; read failures surface as *DataError
// so callers only need one error path for "cannot load puzzles".

package puzzles

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/clues/assets"
)

// LoadSource reads the dataset from path (or the embedded default) and loads it.
func LoadSource(path string) (*Repository, error) {
	data, origin, err := readSource(path)
	if err != nil {
		return nil, err
	}
	repo, err := Load(data)
	if err != nil {
		return nil, err
	}
	log.Info().Str("source", origin).Int("puzzles", repo.Count()).Msg("loaded puzzles")
	return repo, nil
}

func readSource(path string) ([]byte, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, path, &DataError{Reason: "read " + path, Err: err}
		}
		return data, path, nil
	}
	data, err := assets.DefaultPuzzles()
	if err != nil {
		return nil, "embedded", &DataError{Reason: "read embedded dataset", Err: err}
	}
	return data, "embedded", nil
}
