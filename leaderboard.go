package main

import "sort"

// MaxHighScores bounds the leaderboard.
const MaxHighScores = 10

// Leaderboard keeps the best runs of the process lifetime, best first.
// Owned by the session loop; not safe for concurrent use.
type Leaderboard struct {
	max     int
	entries []ScoreEntry
}

// NewLeaderboard creates an empty board bounded to max entries.
func NewLeaderboard(max int) *Leaderboard {
	return &Leaderboard{max: max}
}

// Submit records a finished run and returns the updated ranking.
// Equal scores keep submission order, so an older entry is never
// displaced by a newer equal one unless capacity forces it out.
func (b *Leaderboard) Submit(playerName string, score int) []ScoreEntry {
	b.entries = append(b.entries, ScoreEntry{PlayerName: playerName, Score: score})
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].Score > b.entries[j].Score
	})
	if len(b.entries) > b.max {
		b.entries = b.entries[:b.max:b.max]
	}
	return b.Current()
}

// Current returns a copy of the ranking, best first.
func (b *Leaderboard) Current() []ScoreEntry {
	out := make([]ScoreEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of ranked entries.
func (b *Leaderboard) Len() int {
	return len(b.entries)
}
