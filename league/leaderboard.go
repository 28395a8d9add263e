/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mikeb26/dartsleague/internal"
)

// GameTally is one player's totals from a single finished game.
type GameTally struct {
	PlayerID PlayerID
	Wins     int
	Losses   int
	Doves    int
}

type SeasonStats struct {
	GamesPlayed int     `json:"gamesPlayed"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Doves       int     `json:"doves"`
	BasePoints  int     `json:"basePoints"`
	Points      float64 `json:"points"`
	Handicap    float64 `json:"handicap"`
	Rank        int     `json:"rank"`
}

type SeasonEntry struct {
	PlayerID PlayerID    `json:"id"`
	Name     string      `json:"name"`
	Stats    SeasonStats `json:"seasonStats"`
}

// Season is the leaderboard that survives across games.
type Season struct {
	Entries      []SeasonEntry `json:"entries"`
	LastUpdated  time.Time     `json:"lastUpdated"`
	SeasonNumber int           `json:"seasonNumber"`
}

func NewSeason() *Season {
	return &Season{
		LastUpdated:  time.Now(),
		SeasonNumber: 1,
	}
}

// HandicapForRank is 1.0 for ranks 1 and 2 and grows by 0.1 for each
// following pair of ranks: 3-4 get 1.1, 5-6 get 1.2 and so on.
func HandicapForRank(rank int) float64 {
	if rank <= 2 {
		return 1.0
	}
	pair := (rank - 3) / 2
	return roundTenth(1.0 + float64(pair+1)*0.1)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// Initialize adds an entry for every roster player not yet on the board.
func (s *Season) Initialize(roster []Player) {
	for _, p := range roster {
		if s.find(p.ID) >= 0 {
			continue
		}
		s.Entries = append(s.Entries, SeasonEntry{
			PlayerID: p.ID,
			Name:     p.DisplayName(),
			Stats:    SeasonStats{Handicap: 1.0},
		})
	}
	s.rerank()
}

func (s *Season) find(id PlayerID) int {
	for i, e := range s.Entries {
		if e.PlayerID == id {
			return i
		}
	}
	return -1
}

// Entry returns the entry for id, if any.
func (s *Season) Entry(id PlayerID) (SeasonEntry, bool) {
	idx := s.find(id)
	if idx < 0 {
		return SeasonEntry{}, false
	}
	return s.Entries[idx], true
}

// RecordGame folds a finished game into the season. A player's points for
// the game are wins plus doves, scaled by the handicap held going in.
// Players who never reached a board are not credited with a game.
func (s *Season) RecordGame(tallies []GameTally) {
	for _, t := range tallies {
		if t.Wins+t.Losses == 0 {
			continue
		}
		idx := s.find(t.PlayerID)
		if idx < 0 {
			log.Printf("league.season: player %v not on leaderboard", t.PlayerID)
			continue
		}
		st := &s.Entries[idx].Stats
		base := t.Wins + t.Doves
		st.GamesPlayed++
		st.Wins += t.Wins
		st.Losses += t.Losses
		st.Doves += t.Doves
		st.BasePoints += base
		st.Points = roundTenth(st.Points + float64(base)*st.Handicap)
	}
	s.rerank()
	s.LastUpdated = time.Now()
}

// RecordFinishedGame adds every player of g to the season and folds in their
// tallies.
func (s *Season) RecordFinishedGame(g *Game) {
	s.Initialize(g.Players)
	s.RecordGame(g.Tallies())
}

// rerank orders entries by points, then wins, then name, and reassigns rank
// and handicap.
func (s *Season) rerank() {
	sort.SliceStable(s.Entries, func(i, j int) bool {
		a, b := s.Entries[i].Stats, s.Entries[j].Stats
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return strings.ToLower(s.Entries[i].Name) <
			strings.ToLower(s.Entries[j].Name)
	})
	for i := range s.Entries {
		s.Entries[i].Stats.Rank = i + 1
		s.Entries[i].Stats.Handicap = HandicapForRank(i + 1)
	}
}

// Reset zeroes every entry and starts the next season.
func (s *Season) Reset() {
	for i := range s.Entries {
		s.Entries[i].Stats = SeasonStats{Handicap: 1.0}
	}
	s.rerank()
	s.SeasonNumber++
	s.LastUpdated = time.Now()
}

// ApplyHandicaps returns a copy of roster carrying each player's current
// season handicap. Players missing from the season keep 1.0.
func (s *Season) ApplyHandicaps(roster []Player) []Player {
	ret := append([]Player(nil), roster...)
	for i := range ret {
		ret[i].Stats.Handicap = 1.0
		if e, ok := s.Entry(ret[i].ID); ok {
			ret[i].Stats.Handicap = e.Stats.Handicap
		}
	}
	return ret
}

func (s *Season) UnmarshalJSON(data []byte) error {
	type Alias Season
	aux := &struct {
		LastUpdated string `json:"lastUpdated"`
		*Alias
	}{
		Alias: (*Alias)(s),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("Season unmarshal: %w", err)
	}
	var err error
	s.LastUpdated, err = internal.ParseDateOrZero(aux.LastUpdated)
	if err != nil {
		return fmt.Errorf("parsing Season.LastUpdated: %w", err)
	}
	if s.SeasonNumber == 0 {
		s.SeasonNumber = 1
	}
	return nil
}
