package domain

import "sort"

type LeaderboardEntry struct {
	PlayerID       uint    `json:"player_id"`
	Nickname       string  `json:"nickname"`
	SessionsPlayed int     `json:"sessions_played"`
	MatchesPlayed  int     `json:"matches_played"`
	MatchesWon     int     `json:"matches_won"`
	PointsScored   int     `json:"points_scored"`
	WinRate        float64 `json:"win_rate"`
}

// BuildLeaderboard aggregates per-player results over sessions. A player is
// credited with a match through the team they were seated in; sessions
// without teams only count towards SessionsPlayed.
func BuildLeaderboard(sessions []Session) []LeaderboardEntry {
	entries := map[uint]*LeaderboardEntry{}
	entry := func(p Player) *LeaderboardEntry {
		e, ok := entries[p.ID]
		if !ok {
			e = &LeaderboardEntry{PlayerID: p.ID, Nickname: p.Nickname}
			entries[p.ID] = e
		}
		return e
	}

	for _, s := range sessions {
		for _, p := range s.Players {
			entry(p).SessionsPlayed++
		}

		for _, t := range s.Teams {
			for _, p := range t.Players {
				e := entry(p)
				for _, m := range s.Matches {
					e.MatchesPlayed++
					e.PointsScored += m.ScoreFor(t.Position)
					if m.Winner() == t.Position {
						e.MatchesWon++
					}
				}
			}
		}
	}

	board := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if e.MatchesPlayed > 0 {
			e.WinRate = float64(e.MatchesWon) / float64(e.MatchesPlayed)
		}
		board = append(board, *e)
	}

	sort.Slice(board, func(i, j int) bool {
		if board[i].MatchesWon != board[j].MatchesWon {
			return board[i].MatchesWon > board[j].MatchesWon
		}
		if board[i].PointsScored != board[j].PointsScored {
			return board[i].PointsScored > board[j].PointsScored
		}
		return board[i].Nickname < board[j].Nickname
	})

	return board
}

type GroupOverview struct {
	Group          Group              `json:"group"`
	PlayerCount    int                `json:"player_count"`
	SessionCount   int                `json:"session_count"`
	ActiveSessions int                `json:"active_sessions"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
}
