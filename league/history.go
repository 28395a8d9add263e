/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"encoding/json"
	"fmt"
	"sort"
)

// HistoryReader is the read-only view of match history the Pairing Engine
// consults. Missing pairs read as zero.
type HistoryReader interface {
	TimesPaired(a, b PlayerID) int
	WinsTogether(a, b PlayerID) int
	WinRate(a, b PlayerID) float64
	LastBenchedRound(id PlayerID) int
}

// PairingRecord is one same-team pairing from one board of one round.
type PairingRecord struct {
	Round   int      `json:"round"`
	BoardID BoardID  `json:"boardId"`
	Player1 PlayerID `json:"player1Id"`
	Player2 PlayerID `json:"player2Id"`
	Won     bool     `json:"won"`
	WasDove bool     `json:"wasDove,omitempty"`
}

type BenchRecord struct {
	Round    int      `json:"round"`
	PlayerID PlayerID `json:"playerId"`
}

// pairKey orders its ids so that (a,b) and (b,a) address the same entry
type pairKey struct {
	lo, hi PlayerID
}

func newPairKey(a, b PlayerID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// MatchHistory is the append-only per-game record of who partnered whom and
// who sat out. Pair counts and win counts are derived from the records.
type MatchHistory struct {
	pairings []PairingRecord
	benches  []BenchRecord

	counts      map[pairKey]int
	wins        map[pairKey]int
	lastBenched map[PlayerID]int
	lastRound   int
}

func NewMatchHistory() *MatchHistory {
	return &MatchHistory{
		counts:      make(map[pairKey]int),
		wins:        make(map[pairKey]int),
		lastBenched: make(map[PlayerID]int),
	}
}

func (h *MatchHistory) TimesPaired(a, b PlayerID) int {
	if h == nil || a == b {
		return 0
	}
	return h.counts[newPairKey(a, b)]
}

func (h *MatchHistory) WinsTogether(a, b PlayerID) int {
	if h == nil || a == b {
		return 0
	}
	return h.wins[newPairKey(a, b)]
}

// WinRate is wins together over times paired, or 0.5 for a pair that has
// never played together.
func (h *MatchHistory) WinRate(a, b PlayerID) float64 {
	n := h.TimesPaired(a, b)
	if n == 0 {
		return 0.5
	}
	return float64(h.WinsTogether(a, b)) / float64(n)
}

// LastBenchedRound returns NeverBenched if the player has not sat out.
func (h *MatchHistory) LastBenchedRound(id PlayerID) int {
	if h == nil {
		return NeverBenched
	}
	return h.lastBenched[id]
}

// LastRound is the most recent round committed to the history.
func (h *MatchHistory) LastRound() int {
	if h == nil {
		return 0
	}
	return h.lastRound
}

func (h *MatchHistory) Pairings() []PairingRecord {
	return append([]PairingRecord(nil), h.pairings...)
}

func (h *MatchHistory) Benches() []BenchRecord {
	return append([]BenchRecord(nil), h.benches...)
}

// RecordRound commits one round's board results and bench. Each 2-player team
// adds one pairing; 1v1 boards add none. Rounds must be recorded in
// increasing order.
func (h *MatchHistory) RecordRound(round int, boards []Board,
	bench []Player) error {

	if round <= h.lastRound {
		return fmt.Errorf("round %v already recorded (last %v)", round,
			h.lastRound)
	}

	var pairs []PairingRecord
	for _, b := range boards {
		for _, side := range []Side{SideTeam1, SideTeam2} {
			team := b.Team(side)
			if len(team) != 2 {
				continue
			}
			pairs = append(pairs, PairingRecord{
				Round:   round,
				BoardID: b.ID,
				Player1: team[0].ID,
				Player2: team[1].ID,
				Won:     b.Winner == side,
				WasDove: b.IsDove && b.Winner == side,
			})
		}
	}
	for _, rec := range pairs {
		h.applyPairing(rec)
	}
	for _, p := range bench {
		h.applyBench(BenchRecord{Round: round, PlayerID: p.ID})
	}
	h.lastRound = round

	return nil
}

func (h *MatchHistory) applyPairing(rec PairingRecord) {
	h.pairings = append(h.pairings, rec)
	k := newPairKey(rec.Player1, rec.Player2)
	h.counts[k]++
	if rec.Won {
		h.wins[k]++
	}
	if rec.Round > h.lastRound {
		h.lastRound = rec.Round
	}
}

func (h *MatchHistory) applyBench(rec BenchRecord) {
	h.benches = append(h.benches, rec)
	if rec.Round > h.lastBenched[rec.PlayerID] {
		h.lastBenched[rec.PlayerID] = rec.Round
	}
	if rec.Round > h.lastRound {
		h.lastRound = rec.Round
	}
}

// PartnerSuggestions orders every other known player by how rarely they have
// partnered id, least paired first.
func (h *MatchHistory) PartnerSuggestions(id PlayerID, roster []Player,
	exclude ...PlayerID) []PlayerID {

	skip := make(map[PlayerID]bool, len(exclude)+1)
	skip[id] = true
	for _, e := range exclude {
		skip[e] = true
	}
	var ret []PlayerID
	for _, p := range roster {
		if !skip[p.ID] {
			ret = append(ret, p.ID)
			skip[p.ID] = true
		}
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return h.TimesPaired(id, ret[i]) < h.TimesPaired(id, ret[j])
	})

	return ret
}

// Clone returns an independent copy
func (h *MatchHistory) Clone() *MatchHistory {
	c := NewMatchHistory()
	if h == nil {
		return c
	}
	for _, rec := range h.pairings {
		c.applyPairing(rec)
	}
	for _, rec := range h.benches {
		c.applyBench(rec)
	}
	c.lastRound = h.lastRound

	return c
}

type matchHistoryJSON struct {
	Pairings  []PairingRecord `json:"pairings"`
	Benches   []BenchRecord   `json:"benches"`
	LastRound int             `json:"lastRound"`
}

func (h *MatchHistory) MarshalJSON() ([]byte, error) {
	return json.Marshal(matchHistoryJSON{
		Pairings:  h.pairings,
		Benches:   h.benches,
		LastRound: h.lastRound,
	})
}

// UnmarshalJSON replays the stored records to rebuild the derived maps.
func (h *MatchHistory) UnmarshalJSON(data []byte) error {
	var aux matchHistoryJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("MatchHistory unmarshal: %w", err)
	}
	*h = *NewMatchHistory()
	for _, rec := range aux.Pairings {
		h.applyPairing(rec)
	}
	for _, rec := range aux.Benches {
		h.applyBench(rec)
	}
	if aux.LastRound > h.lastRound {
		h.lastRound = aux.LastRound
	}

	return nil
}
