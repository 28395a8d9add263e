/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mikeb26/dartsleague/internal"
)

// GameConfig is fixed when a game starts.
type GameConfig struct {
	BoardCount  int           `json:"boardCount"`
	TotalRounds int           `json:"totalRounds"`
	RoundTime   time.Duration `json:"roundTime"`
}

// Mode is "Standard" for a single board and "Challenger" for a ladder.
func (c GameConfig) Mode() string {
	if c.BoardCount == 1 {
		return "Standard"
	}
	return "Challenger"
}

func (c GameConfig) validate() error {
	if err := validateBoardCount(c.BoardCount); err != nil {
		return err
	}
	if c.TotalRounds < 1 {
		return fmt.Errorf("total rounds must be at least 1, got %v",
			c.TotalRounds)
	}
	if c.RoundTime < 0 {
		return fmt.Errorf("round time must not be negative, got %v",
			c.RoundTime)
	}
	return nil
}

// RoundRecord is one completed round as it was played.
type RoundRecord struct {
	Round  int      `json:"round"`
	Boards []Board  `json:"boards"`
	Bench  []Player `json:"bench"`
}

type GameStats struct {
	RoundsPlayed int `json:"roundsPlayed"`
	TotalDoves   int `json:"totalDoves"`
	TotalGames   int `json:"totalGames"`
}

// PreviewCache holds the round 1 seating between preview and start.
// LoadPreview returns nil and no error when nothing is cached.
type PreviewCache interface {
	LoadPreview() (*RoundAssignment, error)
	SavePreview(ra *RoundAssignment) error
	ClearPreview() error
}

// Game is the Round Controller: it owns the roster snapshot, the current
// round's boards and bench, and the match history, and replaces them
// wholesale at each round transition.
type Game struct {
	ID           string         `json:"id"`
	Config       GameConfig     `json:"config"`
	Players      []Player       `json:"players"`
	CurrentRound int            `json:"currentRound"`
	Boards       []Board        `json:"boards"`
	Bench        []Player       `json:"bench"`
	Warnings     []BenchWarning `json:"warnings,omitempty"`
	History      *MatchHistory  `json:"history"`
	Rounds       []RoundRecord  `json:"rounds"`
	Stats        GameStats      `json:"stats"`
	Active       bool           `json:"active"`
	Finished     bool           `json:"finished"`
	StartedAt    time.Time      `json:"startedAt"`
}

// NewGame snapshots the active roster with per-game stats reset. Handicaps
// carry over from the season.
func NewGame(cfg GameConfig, roster []Player) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := ValidateRoster(roster); err != nil {
		return nil, err
	}
	active := ActivePlayers(roster)
	if err := requirePlayers(active); err != nil {
		return nil, err
	}
	for i := range active {
		handicap := active[i].Stats.Handicap
		if handicap == 0 {
			handicap = 1.0
		}
		active[i].Stats = PlayerStats{Handicap: handicap}
	}

	return &Game{
		ID:      uuid.NewString(),
		Config:  cfg,
		Players: active,
		History: NewMatchHistory(),
	}, nil
}

// PreviewFirstRound seeds a fresh round 1 and caches it so that Start seats
// exactly what was previewed.
func PreviewFirstRound(cache PreviewCache, roster []Player, boardCount int,
	rng RandSource) (*RoundAssignment, error) {

	ra, err := SeedFirstRound(roster, boardCount, rng)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.SavePreview(ra); err != nil {
			return nil, fmt.Errorf("unable to cache round 1 preview: %w", err)
		}
	}
	return ra, nil
}

// Start seats round 1 from the cached preview when it matches the roster and
// ladder, otherwise from a fresh shuffle. The cached preview is consumed.
func (g *Game) Start(cache PreviewCache, rng RandSource) error {
	if g.Active || g.Finished {
		return fmt.Errorf("game %v already started", g.ID)
	}

	var first *RoundAssignment
	if cache != nil {
		cached, err := cache.LoadPreview()
		if err != nil {
			log.Printf("league.start: ignoring unreadable preview: %v", err)
		} else if cached.matchesRoster(g.Players, g.Config.BoardCount) {
			first = cached
		} else if cached != nil {
			log.Printf("league.start: cached preview does not match roster; reseeding")
		}
	}
	if first == nil {
		var err error
		first, err = SeedFirstRound(g.Players, g.Config.BoardCount, rng)
		if err != nil {
			return err
		}
	}
	if cache != nil {
		if err := cache.ClearPreview(); err != nil {
			log.Printf("league.start: unable to clear preview: %v", err)
		}
	}

	g.CurrentRound = 1
	g.Boards = g.refresh(first.Boards)
	g.Bench = g.refreshPlayers(first.Bench)
	g.Warnings = nil
	g.Active = true
	g.StartedAt = time.Now()

	return nil
}

// refresh rebinds board members to the game's roster entries
func (g *Game) refresh(boards []Board) []Board {
	ret := make([]Board, len(boards))
	for i, b := range boards {
		ret[i] = Board{ID: b.ID, Winner: b.Winner, IsDove: b.IsDove,
			Team1: g.refreshPlayers(b.Team1), Team2: g.refreshPlayers(b.Team2)}
	}
	return ret
}

func (g *Game) refreshPlayers(players []Player) []Player {
	ret := make([]Player, 0, len(players))
	for _, p := range players {
		if idx := FindPlayer(g.Players, p.ID); idx >= 0 {
			ret = append(ret, g.Players[idx])
		} else {
			ret = append(ret, p)
		}
	}
	return ret
}

func (g *Game) requireRound() error {
	if g.Finished {
		return ErrGameFinished
	}
	if !g.Active {
		return ErrNoGame
	}
	return nil
}

// RecordResult declares the winner of one board in the current round. A
// board may be re-declared until the round ends.
func (g *Game) RecordResult(id BoardID, winner Side, isDove bool) error {
	if err := g.requireRound(); err != nil {
		return err
	}
	if winner != SideTeam1 && winner != SideTeam2 {
		return &ResultError{Board: id, Reason: "winner must be team1 or team2"}
	}
	for i := range g.Boards {
		if g.Boards[i].ID == id {
			g.Boards[i].Winner = winner
			g.Boards[i].IsDove = isDove
			return nil
		}
	}
	return &ResultError{Board: id, Reason: "no such board this round"}
}

// Undecided lists the boards still waiting for a winner.
func (g *Game) Undecided() []BoardID {
	var ret []BoardID
	for _, b := range g.Boards {
		if !b.IsDecided() {
			ret = append(ret, b.ID)
		}
	}
	return ret
}

// EndRound commits the current round's results and seats the next round.
// On the final round it marks the game finished and returns nil. Nothing is
// modified when an error is returned.
func (g *Game) EndRound() (*RoundAssignment, error) {
	if err := g.requireRound(); err != nil {
		return nil, err
	}
	if pending := g.Undecided(); len(pending) > 0 {
		return nil, fmt.Errorf("round %v boards %v: %w", g.CurrentRound,
			pending, ErrRoundUndecided)
	}

	round := g.CurrentRound
	players := ApplyResults(g.Players, g.Boards, g.Bench, round)
	history := g.History.Clone()
	if err := history.RecordRound(round, g.Boards, g.Bench); err != nil {
		return nil, fmt.Errorf("unable to record round %v: %w", round, err)
	}
	record := RoundRecord{Round: round, Boards: g.Boards, Bench: g.Bench}
	stats := g.Stats
	stats.RoundsPlayed++
	for _, b := range g.Boards {
		stats.TotalGames++
		if b.IsDove {
			stats.TotalDoves++
		}
	}

	var next *RoundAssignment
	if round < g.Config.TotalRounds {
		var promoted []PlayerID
		for _, b := range g.Boards {
			promoted = append(promoted, playerIDs(b.Winners())...)
		}
		var err error
		next, err = GenerateNextRound(NextRoundInput{
			Roster:         players,
			BoardCount:     g.Config.BoardCount,
			History:        history,
			Round:          round + 1,
			Promoted:       promoted,
			PreviousBoards: g.Boards,
		})
		if err != nil {
			return nil, fmt.Errorf("unable to pair round %v: %w", round+1, err)
		}
	}

	g.Players = players
	g.History = history
	g.Rounds = append(g.Rounds, record)
	g.Stats = stats
	if next == nil {
		g.Finished = true
		g.Active = false
		g.Boards = nil
		g.Bench = nil
		g.Warnings = nil
		return nil, nil
	}
	g.CurrentRound = next.Round
	g.Boards = next.Boards
	g.Bench = next.Bench
	g.Warnings = next.Warnings

	return next, nil
}

// End stops the game after the current round regardless of TotalRounds.
// Results already recorded for an unfinished round are discarded.
func (g *Game) End() {
	g.Active = false
	g.Finished = true
	g.Boards = nil
	g.Bench = nil
	g.Warnings = nil
}

// ApplyResults returns a copy of players with one round's outcome folded
// into their per-game stats. Board A winners extend their top-board run;
// any loss or win elsewhere resets it.
func ApplyResults(players []Player, boards []Board, bench []Player,
	round int) []Player {

	ret := append([]Player(nil), players...)
	idx := make(map[PlayerID]int, len(ret))
	for i, p := range ret {
		idx[p.ID] = i
	}
	for _, b := range boards {
		if !b.IsDecided() {
			continue
		}
		for _, w := range b.Winners() {
			i, ok := idx[w.ID]
			if !ok {
				continue
			}
			s := &ret[i].Stats
			s.Games++
			s.Wins++
			if b.IsDove {
				s.Doves++
			}
			if b.ID.Rank() == 0 {
				s.ConsecutiveWins++
			} else {
				s.ConsecutiveWins = 0
			}
		}
		for _, l := range b.Losers() {
			i, ok := idx[l.ID]
			if !ok {
				continue
			}
			s := &ret[i].Stats
			s.Games++
			s.Losses++
			s.ConsecutiveWins = 0
		}
	}
	for _, p := range bench {
		if i, ok := idx[p.ID]; ok {
			ret[i].Stats.Benched++
			ret[i].Stats.LastBenchedRound = round
		}
	}

	return ret
}

// Tallies returns each player's game totals for the season leaderboard.
func (g *Game) Tallies() []GameTally {
	ret := make([]GameTally, 0, len(g.Players))
	for _, p := range g.Players {
		ret = append(ret, GameTally{
			PlayerID: p.ID,
			Wins:     p.Stats.Wins,
			Losses:   p.Stats.Losses,
			Doves:    p.Stats.Doves,
		})
	}
	return ret
}

// ConsecutiveBench reports whether p sat out both this round and the last.
func (g *Game) ConsecutiveBench(p Player) bool {
	if FindPlayer(g.Bench, p.ID) < 0 {
		return false
	}
	idx := FindPlayer(g.Players, p.ID)
	return idx >= 0 &&
		g.Players[idx].Stats.LastBenchedRound == g.CurrentRound-1 &&
		g.CurrentRound > 1
}

func (g *Game) UnmarshalJSON(data []byte) error {
	type Alias Game
	aux := &struct {
		StartedAt string `json:"startedAt"`
		*Alias
	}{
		Alias: (*Alias)(g),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("Game unmarshal: %w", err)
	}
	var err error
	g.StartedAt, err = internal.ParseDateOrZero(aux.StartedAt)
	if err != nil {
		return fmt.Errorf("parsing Game.StartedAt: %w", err)
	}
	if g.History == nil {
		g.History = NewMatchHistory()
	}
	return nil
}
