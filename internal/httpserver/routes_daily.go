// internal/httpserver/routes_daily.go
//
// HTTP route for the "puzzle of the day".
//   - GET /daily → today's date key and puzzle id
//
// The pick is deterministic for a UTC date + salt, so every player gets the same
// puzzle on the same day. Starting it goes through POST /game/new {"daily":true}.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/clues/internal/daily"
)

// dailyRes is returned by GET /daily.
type dailyRes struct {
	Date     string `json:"date"`
	PuzzleID int    `json:"puzzleId"`
}

// mountDaily registers the /daily route.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily", s.handleDaily)
}

// dailyPuzzleID returns today's puzzle id.
func (s *Server) dailyPuzzleID() int {
	return daily.PuzzleID(s.now(), s.opts.DailySalt, s.repo.IDs())
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(dailyRes{
		Date:     daily.DateKey(s.now()),
		PuzzleID: s.dailyPuzzleID(),
	})
}
