/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	MinBoards = 1
	MaxBoards = 4

	// a Board A pair is broken up once it reaches this many consecutive wins
	TopBoardWinCap = 3

	// NeverBenched is the LastBenchedRound value of a player who has not sat
	// out yet this game
	NeverBenched = 0
)

type PlayerID string

// PlayerStats is the per-game record carried by each roster entry.
type PlayerStats struct {
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	Doves            int     `json:"doves"`
	Games            int     `json:"games"`
	Benched          int     `json:"benched"`
	LastBenchedRound int     `json:"lastBenchedRound,omitempty"`
	ConsecutiveWins  int     `json:"consecutiveWins"`
	Handicap         float64 `json:"handicap"`
}

// Player is a member of the league roster.
type Player struct {
	ID       PlayerID    `json:"id"`
	Name     string      `json:"name"`
	Nickname string      `json:"nickname,omitempty"`
	Email    string      `json:"email,omitempty"`
	Active   bool        `json:"active"`
	Stats    PlayerStats `json:"stats"`
}

// NewPlayer returns an active player with a fresh id and zeroed stats.
func NewPlayer(name string) Player {
	return Player{
		ID:     PlayerID(uuid.NewString()),
		Name:   name,
		Active: true,
		Stats:  PlayerStats{Handicap: 1.0},
	}
}

// DisplayName includes the nickname when one is set
func (p Player) DisplayName() string {
	if p.Nickname == "" {
		return p.Name
	}
	return fmt.Sprintf("%s \"%s\"", p.Name, p.Nickname)
}

func (p Player) wasBenchedIn(round int) bool {
	return round > 0 && p.Stats.LastBenchedRound == round
}

// BoardID is the ladder rung letter; A is the top board.
type BoardID string

func BoardIDForRank(rank int) BoardID {
	return BoardID(string(rune('A' + rank)))
}

// Rank returns the 0-based ladder position (A=0) or -1 if the id is not a
// valid board letter.
func (id BoardID) Rank() int {
	if len(id) != 1 || id[0] < 'A' || id[0] >= 'A'+MaxBoards {
		return -1
	}
	return int(id[0] - 'A')
}

type Side int

const (
	SideNone Side = iota
	SideTeam1
	SideTeam2
)

func (s Side) String() string {
	switch s {
	case SideTeam1:
		return "team1"
	case SideTeam2:
		return "team2"
	}
	return "none"
}

// ParseSide accepts "1", "2", "team1" and "team2".
func ParseSide(s string) (Side, error) {
	switch s {
	case "1", "team1":
		return SideTeam1, nil
	case "2", "team2":
		return SideTeam2, nil
	}
	return SideNone, fmt.Errorf("invalid side %q: want 1 or 2", s)
}

func (s Side) MarshalText() ([]byte, error) {
	if s == SideNone {
		return []byte(""), nil
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	if len(text) == 0 || string(text) == "none" {
		*s = SideNone
		return nil
	}
	v, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Board is one match on the ladder. Teams hold 1 or 2 players; Winner and
// IsDove are supplied by the operator once the match is decided.
type Board struct {
	ID     BoardID  `json:"boardId"`
	Team1  []Player `json:"team1"`
	Team2  []Player `json:"team2"`
	Winner Side     `json:"winner,omitempty"`
	IsDove bool     `json:"isDove,omitempty"`
}

// IsSolo reports whether the board is a 1v1 match
func (b Board) IsSolo() bool {
	return len(b.Team1) == 1 && len(b.Team2) == 1
}

func (b Board) IsEmpty() bool {
	return len(b.Team1) == 0 && len(b.Team2) == 0
}

func (b Board) IsDecided() bool {
	return b.Winner == SideTeam1 || b.Winner == SideTeam2
}

func (b Board) Team(s Side) []Player {
	switch s {
	case SideTeam1:
		return b.Team1
	case SideTeam2:
		return b.Team2
	}
	return nil
}

func (b Board) Winners() []Player {
	return b.Team(b.Winner)
}

func (b Board) Losers() []Player {
	switch b.Winner {
	case SideTeam1:
		return b.Team2
	case SideTeam2:
		return b.Team1
	}
	return nil
}

// Players returns team1 followed by team2
func (b Board) Players() []Player {
	ret := make([]Player, 0, len(b.Team1)+len(b.Team2))
	ret = append(ret, b.Team1...)
	return append(ret, b.Team2...)
}

func (b Board) Has(id PlayerID) bool {
	for _, p := range b.Players() {
		if p.ID == id {
			return true
		}
	}
	return false
}

// RoundAssignment is the output of round-1 seeding and of the Pairing Engine.
type RoundAssignment struct {
	Round    int            `json:"round"`
	Boards   []Board        `json:"boards"`
	Bench    []Player       `json:"bench"`
	Warnings []BenchWarning `json:"warnings,omitempty"`
}

// Board returns the board with the given id, if present
func (ra *RoundAssignment) Board(id BoardID) (Board, bool) {
	for _, b := range ra.Boards {
		if b.ID == id {
			return b, true
		}
	}
	return Board{}, false
}

// Unresolved reports whether the bench repair pass left a conflict in place.
func (ra *RoundAssignment) Unresolved() bool {
	return len(ra.Warnings) > 0
}

type BenchReason int

const (
	BenchReasonRecentlyBenched BenchReason = iota
	BenchReasonJustWon
)

func (r BenchReason) String() string {
	if r == BenchReasonJustWon {
		return "won last round"
	}
	return "benched last round"
}

// BenchWarning records a bench conflict the repair pass could not fix.
type BenchWarning struct {
	PlayerID PlayerID    `json:"playerId"`
	Name     string      `json:"name"`
	Reason   BenchReason `json:"reason"`
}

func (w BenchWarning) String() string {
	return fmt.Sprintf("%s benched although %s", w.Name, w.Reason)
}

func playerIDs(players []Player) []PlayerID {
	ids := make([]PlayerID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

func playerNames(players []Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}
