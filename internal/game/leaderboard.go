package game

import "slices"

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

// Leaderboard ranks the players of session id by score. Equal scores keep
// join order and share a rank.
func (e *Engine) Leaderboard(id int64) ([]LeaderboardEntry, error) {
	s, err := e.Session(id)
	if err != nil {
		return nil, err
	}
	return Standings(s), nil
}

// Standings derives the leaderboard from a snapshot.
func Standings(s Session) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(s.Players))
	for _, p := range s.Players {
		out = append(out, LeaderboardEntry{PlayerID: p, Score: s.Scores[p]})
	}
	slices.SortStableFunc(out, func(a, b LeaderboardEntry) int {
		return b.Score - a.Score
	})
	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}
