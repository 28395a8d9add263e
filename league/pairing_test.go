/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

func mkPlayers(n int) []Player {
	ret := make([]Player, n)
	for i := range ret {
		ret[i] = Player{
			ID:     PlayerID(fmt.Sprintf("p%v", i+1)),
			Name:   fmt.Sprintf("P%v", i+1),
			Active: true,
			Stats:  PlayerStats{Handicap: 1.0},
		}
	}
	return ret
}

func pick(roster []Player, ids ...PlayerID) []Player {
	var ret []Player
	for _, id := range ids {
		idx := FindPlayer(roster, id)
		if idx < 0 {
			panic("no such test player " + string(id))
		}
		ret = append(ret, roster[idx])
	}
	return ret
}

func sameIDs(team []Player, ids ...PlayerID) bool {
	if len(team) != len(ids) {
		return false
	}
	want := make(map[PlayerID]bool)
	for _, id := range ids {
		want[id] = true
	}
	for _, p := range team {
		if !want[p.ID] {
			return false
		}
	}
	return true
}

// sevenPlayerRoundOne returns the roster after round 1 of a 2 board game:
// A was P1,P2 beating P5,P6; B was P3 beating P7; P4 sat out.
func sevenPlayerRoundOne() ([]Player, []Board, *MatchHistory) {
	roster := mkPlayers(7)
	boards := []Board{
		{ID: "A", Team1: pick(roster, "p1", "p2"), Team2: pick(roster, "p5", "p6"),
			Winner: SideTeam1},
		{ID: "B", Team1: pick(roster, "p3"), Team2: pick(roster, "p7"),
			Winner: SideTeam1},
	}
	bench := pick(roster, "p4")
	history := NewMatchHistory()
	if err := history.RecordRound(1, boards, bench); err != nil {
		panic(err)
	}
	return ApplyResults(roster, boards, bench, 1), boards, history
}

func winnersOf(boards []Board) []PlayerID {
	var ret []PlayerID
	for _, b := range boards {
		ret = append(ret, playerIDs(b.Winners())...)
	}
	return ret
}

func TestTopBoardPairRetained(t *testing.T) {
	roster, boards, history := sevenPlayerRoundOne()

	ra, err := GenerateNextRound(NextRoundInput{
		Roster:         roster,
		BoardCount:     2,
		History:        history,
		Round:          2,
		Promoted:       winnersOf(boards),
		PreviousBoards: boards,
	})
	if err != nil {
		t.Fatalf("GenerateNextRound failed: %v", err)
	}
	a, ok := ra.Board("A")
	if !ok {
		t.Fatalf("no board A in %+v", ra)
	}
	if !sameIDs(a.Team1, "p1", "p2") {
		t.Errorf("board A team1 %v; expected P1 & P2", playerNames(a.Team1))
	}
	if !sameIDs(a.Team2, "p3", "p4") {
		t.Errorf("board A team2 %v; expected P3 & P4", playerNames(a.Team2))
	}
	b, ok := ra.Board("B")
	if !ok || len(b.Team1) != 1 || len(b.Team2) != 1 {
		t.Fatalf("expected 1v1 board B, got %+v", b)
	}
	if len(ra.Bench) != 1 {
		t.Errorf("bench %v; expected one player", playerNames(ra.Bench))
	}
	if ra.Unresolved() {
		t.Errorf("unexpected warnings %v", ra.Warnings)
	}
}

func TestTopBoardPairRotatedAtCap(t *testing.T) {
	roster, boards, history := sevenPlayerRoundOne()
	for _, id := range []PlayerID{"p1", "p2"} {
		roster[FindPlayer(roster, id)].Stats.ConsecutiveWins = TopBoardWinCap
	}

	ra, err := GenerateNextRound(NextRoundInput{
		Roster:         roster,
		BoardCount:     2,
		History:        history,
		Round:          2,
		Promoted:       winnersOf(boards),
		PreviousBoards: boards,
	})
	if err != nil {
		t.Fatalf("GenerateNextRound failed: %v", err)
	}
	for _, b := range ra.Boards {
		for _, team := range [][]Player{b.Team1, b.Team2} {
			if b.Has("p1") && sameIDs(team, "p1", "p2") {
				t.Errorf("capped pair kept together on board %v", b.ID)
			}
		}
	}
	for _, id := range []PlayerID{"p1", "p2"} {
		if FindPlayer(ra.Bench, id) >= 0 {
			t.Errorf("winner %v benched", id)
		}
	}
}

func TestPromotionAndRelegation(t *testing.T) {
	roster := mkPlayers(12)
	boards := []Board{
		{ID: "A", Team1: pick(roster, "p1", "p2"), Team2: pick(roster, "p3", "p4"),
			Winner: SideTeam2},
		{ID: "B", Team1: pick(roster, "p5", "p6"), Team2: pick(roster, "p7", "p8"),
			Winner: SideTeam1},
		{ID: "C", Team1: pick(roster, "p9", "p10"), Team2: pick(roster, "p11", "p12"),
			Winner: SideTeam2},
	}
	roster = ApplyResults(roster, boards, nil, 1)
	history := NewMatchHistory()
	if err := history.RecordRound(1, boards, nil); err != nil {
		t.Fatalf("RecordRound failed: %v", err)
	}

	ra, err := GenerateNextRound(NextRoundInput{
		Roster:         roster,
		BoardCount:     3,
		History:        history,
		Round:          2,
		Promoted:       winnersOf(boards),
		PreviousBoards: boards,
	})
	if err != nil {
		t.Fatalf("GenerateNextRound failed: %v", err)
	}

	a, _ := ra.Board("A")
	b, _ := ra.Board("B")
	c, _ := ra.Board("C")
	if !sameIDs(a.Team1, "p3", "p4") {
		t.Errorf("A team1 %v; expected retained A winners", playerNames(a.Team1))
	}
	if !sameIDs(a.Team2, "p5", "p6") {
		t.Errorf("A team2 %v; expected promoted B winners", playerNames(a.Team2))
	}
	if !sameIDs(b.Team1, "p11", "p12") {
		t.Errorf("B team1 %v; expected promoted C winners", playerNames(b.Team1))
	}
	if !sameIDs(b.Team2, "p1", "p2") {
		t.Errorf("B team2 %v; expected relegated A losers", playerNames(b.Team2))
	}
	if !sameIDs(c.Team1, "p7", "p8") {
		t.Errorf("C team1 %v; expected relegated B losers", playerNames(c.Team1))
	}
	if !sameIDs(c.Team2, "p9", "p10") {
		t.Errorf("C team2 %v; expected C losers from the pool",
			playerNames(c.Team2))
	}
	if len(ra.Bench) != 0 {
		t.Errorf("bench %v; expected empty", playerNames(ra.Bench))
	}
}

func TestFourBoardWinnerMovesOneRung(t *testing.T) {
	roster := mkPlayers(16)
	var boards []Board
	for rank := 0; rank < 4; rank++ {
		base := rank * 4
		boards = append(boards, Board{
			ID:     BoardIDForRank(rank),
			Team1:  append([]Player(nil), roster[base:base+2]...),
			Team2:  append([]Player(nil), roster[base+2:base+4]...),
			Winner: SideTeam1,
		})
	}
	roster = ApplyResults(roster, boards, nil, 1)

	ra, err := GenerateNextRound(NextRoundInput{
		Roster:         roster,
		BoardCount:     4,
		History:        nil,
		Round:          2,
		Promoted:       winnersOf(boards),
		PreviousBoards: boards,
	})
	if err != nil {
		t.Fatalf("GenerateNextRound failed: %v", err)
	}
	// board D winners p13,p14 go to C, not to A or B
	c, _ := ra.Board("C")
	if !c.Has("p13") || !c.Has("p14") {
		t.Errorf("board C %v/%v; expected D winners", playerNames(c.Team1),
			playerNames(c.Team2))
	}
	a, _ := ra.Board("A")
	if a.Has("p13") || a.Has("p9") {
		t.Errorf("lower board winner jumped to A: %v/%v", playerNames(a.Team1),
			playerNames(a.Team2))
	}
}

func TestOddRosterDegradesToSolo(t *testing.T) {
	roster := mkPlayers(3)
	boards := []Board{{ID: "A", Team1: pick(roster, "p1"),
		Team2: pick(roster, "p2"), Winner: SideTeam2}}
	bench := pick(roster, "p3")
	roster = ApplyResults(roster, boards, bench, 1)

	ra, err := GenerateNextRound(NextRoundInput{
		Roster: roster, BoardCount: 2, Round: 2,
		Promoted: []PlayerID{"p2"}, PreviousBoards: boards,
	})
	if err != nil {
		t.Fatalf("GenerateNextRound failed: %v", err)
	}
	if len(ra.Boards) != 1 {
		t.Fatalf("%v boards; expected only A", len(ra.Boards))
	}
	a := ra.Boards[0]
	if !a.IsSolo() {
		t.Errorf("board A not 1v1: %v/%v", playerNames(a.Team1),
			playerNames(a.Team2))
	}
	if !a.Has("p2") || !a.Has("p3") {
		t.Errorf("board A %v/%v; expected winner P2 and benched P3",
			playerNames(a.Team1), playerNames(a.Team2))
	}
	if !sameIDs(ra.Bench, "p1") {
		t.Errorf("bench %v; expected P1", playerNames(ra.Bench))
	}
}

func TestUnfixableBenchWarning(t *testing.T) {
	// all three sat out last round but only two can play
	roster := mkPlayers(3)
	for i := range roster {
		roster[i].Stats.LastBenchedRound = 1
	}
	ra, err := GenerateNextRound(NextRoundInput{
		Roster: roster, BoardCount: 1, Round: 2,
	})
	if err != nil {
		t.Fatalf("GenerateNextRound failed: %v", err)
	}
	if len(ra.Bench) != 1 {
		t.Fatalf("bench %v; expected one player", playerNames(ra.Bench))
	}
	if !ra.Unresolved() || ra.Warnings[0].PlayerID != ra.Bench[0].ID {
		t.Errorf("warnings %v; expected one for %v", ra.Warnings,
			ra.Bench[0].Name)
	}
	if ra.Warnings[0].Reason != BenchReasonRecentlyBenched {
		t.Errorf("reason %v; expected recently benched", ra.Warnings[0].Reason)
	}
}

func TestRecentlyBenchedPlaysFirst(t *testing.T) {
	roster := mkPlayers(5)
	roster[4].Stats.LastBenchedRound = 1
	roster[4].Stats.Benched = 1

	ra, err := GenerateNextRound(NextRoundInput{
		Roster: roster, BoardCount: 1, Round: 2,
	})
	if err != nil {
		t.Fatalf("GenerateNextRound failed: %v", err)
	}
	if FindPlayer(ra.Bench, "p5") >= 0 {
		t.Errorf("recently benched P5 benched again")
	}
	if len(ra.Bench) != 1 || ra.Unresolved() {
		t.Errorf("bench %v warnings %v; expected one clean bench",
			playerNames(ra.Bench), ra.Warnings)
	}
}

func TestRepairBenchSwapsFromTop(t *testing.T) {
	roster := mkPlayers(5)
	roster[0].Stats.LastBenchedRound = 1
	in := NextRoundInput{Roster: roster, BoardCount: 1, Round: 2,
		Promoted: []PlayerID{"p5"}}
	p := newPairer(in, ActivePlayers(roster))
	ra := &RoundAssignment{Round: 2,
		Boards: []Board{{ID: "A", Team1: pick(roster, "p1", "p2"),
			Team2: pick(roster, "p3", "p4")}},
		Bench: pick(roster, "p5"),
	}

	p.repairBench(ra)

	if !sameIDs(ra.Boards[0].Team1, "p1", "p5") {
		t.Errorf("team1 %v; expected P1 & P5", playerNames(ra.Boards[0].Team1))
	}
	if !sameIDs(ra.Bench, "p2") || ra.Unresolved() {
		t.Errorf("bench %v warnings %v; expected P2 and none",
			playerNames(ra.Bench), ra.Warnings)
	}
}

func TestRepairBenchRelaysAroundRotatedPair(t *testing.T) {
	roster := mkPlayers(6)
	for _, id := range []PlayerID{"p5", "p6"} {
		roster[FindPlayer(roster, id)].Stats.LastBenchedRound = 1
	}
	in := NextRoundInput{Roster: roster, BoardCount: 1, Round: 2,
		Promoted: []PlayerID{"p1", "p2"}}
	p := newPairer(in, ActivePlayers(roster))
	p.banned[newPairKey("p1", "p2")] = true
	ra := &RoundAssignment{Round: 2,
		Boards: []Board{{ID: "A", Team1: pick(roster, "p5", "p6"),
			Team2: pick(roster, "p1", "p3")}},
		Bench: pick(roster, "p2", "p4"),
	}

	p.repairBench(ra)

	if FindPlayer(ra.Bench, "p2") >= 0 || ra.Unresolved() {
		t.Fatalf("bench %v warnings %v; expected P2 seated",
			playerNames(ra.Bench), ra.Warnings)
	}
	for _, team := range [][]Player{ra.Boards[0].Team1, ra.Boards[0].Team2} {
		if sameIDs(team, "p1", "p2") {
			t.Errorf("rotated pair reunited by repair")
		}
	}
	if !sameIDs(ra.Bench, "p3", "p4") {
		t.Errorf("bench %v; expected P3 & P4", playerNames(ra.Bench))
	}
}

func TestGenerateNextRoundErrors(t *testing.T) {
	roster := mkPlayers(4)
	tests := []struct {
		name  string
		in    NextRoundInput
		check func(error) bool
	}{
		{
			name: "round one",
			in:   NextRoundInput{Roster: roster, BoardCount: 1, Round: 1},
			check: func(err error) bool {
				var e *PrecedenceError
				return errors.As(err, &e) && e.Round == 1
			},
		},
		{
			name: "one player",
			in:   NextRoundInput{Roster: mkPlayers(1), BoardCount: 1, Round: 2},
			check: func(err error) bool {
				var e *InsufficientPlayersError
				return errors.As(err, &e) && e.Have == 1 && e.Need == 2
			},
		},
		{
			name: "inactive roster",
			in: NextRoundInput{Roster: []Player{roster[0],
				{ID: "x", Name: "X"}}, BoardCount: 1, Round: 2},
			check: func(err error) bool {
				var e *InsufficientPlayersError
				return errors.As(err, &e)
			},
		},
		{
			name: "five boards",
			in:   NextRoundInput{Roster: roster, BoardCount: 5, Round: 2},
			check: func(err error) bool {
				var e *BoardCountError
				return errors.As(err, &e) && e.Count == 5
			},
		},
		{
			name: "duplicate id",
			in: NextRoundInput{Roster: append(mkPlayers(2), mkPlayers(1)...),
				BoardCount: 1, Round: 2},
			check: func(err error) bool {
				var e *RosterError
				return errors.As(err, &e) && e.ID == "p1"
			},
		},
		{
			name: "board off ladder",
			in: NextRoundInput{Roster: roster, BoardCount: 1, Round: 2,
				PreviousBoards: []Board{{ID: "B", Team1: roster[:1],
					Team2: roster[1:2], Winner: SideTeam1}}},
			check: func(err error) bool {
				var e *PreviousRoundError
				return errors.As(err, &e) && e.Board == "B"
			},
		},
		{
			name: "player seated twice",
			in: NextRoundInput{Roster: roster, BoardCount: 2, Round: 2,
				PreviousBoards: []Board{
					{ID: "A", Team1: roster[:1], Team2: roster[1:2]},
					{ID: "B", Team1: roster[:1], Team2: roster[2:3]},
				}},
			check: func(err error) bool {
				var e *PreviousRoundError
				return errors.As(err, &e) && e.Board == "B"
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ra, err := GenerateNextRound(tc.in)
			if ra != nil || !tc.check(err) {
				t.Errorf("GenerateNextRound=%v,%v; unexpected", ra, err)
			}
		})
	}
}

func TestGenerateNextRoundDoesNotMutateInput(t *testing.T) {
	roster, boards, history := sevenPlayerRoundOne()
	in := NextRoundInput{
		Roster:         roster,
		BoardCount:     2,
		History:        history,
		Round:          2,
		Promoted:       winnersOf(boards),
		PreviousBoards: boards,
	}
	before, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if _, err := GenerateNextRound(in); err != nil {
		t.Fatalf("GenerateNextRound failed: %v", err)
	}
	after, _ := json.Marshal(in)
	if string(before) != string(after) {
		t.Errorf("input mutated:\n%s\n%s", before, after)
	}
}

// TestLadderProperties plays many random games and checks the invariants
// that must hold after every round transition.
func TestLadderProperties(t *testing.T) {
	for seed := int64(1); seed <= 60; seed++ {
		rng := rand.New(rand.NewSource(seed))
		boardCount := 1 + rng.Intn(MaxBoards)
		n := 2 + rng.Intn(4*boardCount+4)
		t.Run(fmt.Sprintf("seed%v_%vboards_%vplayers", seed, boardCount, n),
			func(t *testing.T) {
				playRandomGame(t, rng, boardCount, n)
			})
	}
}

func playRandomGame(t *testing.T, rng *rand.Rand, boardCount int, n int) {
	g, err := NewGame(GameConfig{BoardCount: boardCount, TotalRounds: 8},
		mkPlayers(n))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if err := g.Start(nil, rng); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	prevBench := map[PlayerID]bool{}
	prevWinners := map[PlayerID]bool{}
	for g.Active {
		checkPartition(t, g)
		checkBenchRule(t, g, prevBench, prevWinners)

		benchedBefore := map[PlayerID]int{}
		for _, p := range g.Players {
			benchedBefore[p.ID] = p.Stats.Benched
		}
		onBench := map[PlayerID]bool{}
		for _, p := range g.Bench {
			onBench[p.ID] = true
		}
		var capped [][]Player
		var kept [][]Player
		for _, b := range g.Boards {
			side := SideTeam1
			if rng.Intn(2) == 1 {
				side = SideTeam2
			}
			if err := g.RecordResult(b.ID, side, rng.Intn(5) == 0); err != nil {
				t.Fatalf("RecordResult failed: %v", err)
			}
			if b.ID == "A" && len(b.Team(side)) == 2 {
				team := b.Team(side)
				if streak(team)+1 >= TopBoardWinCap {
					capped = append(capped, team)
				} else {
					kept = append(kept, team)
				}
			}
		}
		prevBench = onBench
		prevWinners = map[PlayerID]bool{}
		for _, b := range g.Boards {
			for _, p := range b.Winners() {
				prevWinners[p.ID] = true
			}
		}

		if _, err := g.EndRound(); err != nil {
			t.Fatalf("EndRound failed: %v", err)
		}
		for _, p := range g.Players {
			want := benchedBefore[p.ID]
			if onBench[p.ID] {
				want++
			}
			if p.Stats.Benched != want {
				t.Errorf("%v benched %v; expected %v", p.Name, p.Stats.Benched,
					want)
			}
			if p.Stats.Wins+p.Stats.Losses > p.Stats.Games {
				t.Errorf("%v wins+losses exceed games: %+v", p.Name, p.Stats)
			}
		}
		if !g.Active {
			break
		}
		a, ok := g.Assignment().Board("A")
		if !ok {
			t.Fatalf("round %v has no board A", g.CurrentRound)
		}
		for _, team := range kept {
			if !sameIDs(a.Team1, playerIDs(team)...) {
				t.Errorf("round %v: A winners %v under the cap not kept, A team1 is %v",
					g.CurrentRound, playerNames(team), playerNames(a.Team1))
			}
		}
		for _, team := range capped {
			if sameIDs(a.Team1, playerIDs(team)...) {
				t.Errorf("round %v: capped pair %v kept board A",
					g.CurrentRound, playerNames(team))
			}
		}
	}
	if !g.Finished || g.Stats.RoundsPlayed != 8 {
		t.Errorf("game finished=%v after %v rounds; expected 8",
			g.Finished, g.Stats.RoundsPlayed)
	}
}

func checkPartition(t *testing.T, g *Game) {
	t.Helper()
	seen := map[PlayerID]string{}
	mark := func(p Player, where string) {
		if prior, ok := seen[p.ID]; ok {
			t.Errorf("round %v: %v on %v and %v", g.CurrentRound, p.Name, prior,
				where)
		}
		seen[p.ID] = where
	}
	for _, b := range g.Boards {
		if len(b.Team1) == 0 || len(b.Team1) != len(b.Team2) {
			t.Errorf("round %v: board %v unbalanced %v/%v", g.CurrentRound, b.ID,
				playerNames(b.Team1), playerNames(b.Team2))
		}
		for _, p := range b.Players() {
			mark(p, string(b.ID))
		}
	}
	for _, p := range g.Bench {
		mark(p, "bench")
	}
	if len(seen) != len(g.Players) {
		t.Errorf("round %v: %v players placed; expected %v", g.CurrentRound,
			len(seen), len(g.Players))
	}
	for i, b := range g.Boards {
		if b.ID != BoardIDForRank(i) {
			t.Errorf("round %v: board %v at ladder position %v", g.CurrentRound,
				b.ID, i)
		}
	}
}

// checkBenchRule verifies that any recently benched or just-won player left
// on the bench is reported as a warning.
func checkBenchRule(t *testing.T, g *Game, prevBench map[PlayerID]bool,
	prevWinners map[PlayerID]bool) {

	t.Helper()
	warned := map[PlayerID]bool{}
	for _, w := range g.Warnings {
		warned[w.PlayerID] = true
	}
	for _, p := range g.Bench {
		if (prevBench[p.ID] || prevWinners[p.ID]) && !warned[p.ID] {
			t.Errorf("round %v: %v benched again without a warning",
				g.CurrentRound, p.Name)
		}
	}
}

func TestPairingMapsUntouchedByGenerate(t *testing.T) {
	roster, boards, history := sevenPlayerRoundOne()
	snapshot := history.Clone()
	if _, err := GenerateNextRound(NextRoundInput{Roster: roster,
		BoardCount: 2, History: history, Round: 2,
		PreviousBoards: boards}); err != nil {

		t.Fatalf("GenerateNextRound failed: %v", err)
	}
	if !reflect.DeepEqual(snapshot.Pairings(), history.Pairings()) ||
		!reflect.DeepEqual(snapshot.Benches(), history.Benches()) {
		t.Errorf("history changed by GenerateNextRound")
	}
}

func pairedTimes(h *MatchHistory, a, b PlayerID, times, wins int) {
	for i := 0; i < times; i++ {
		h.applyPairing(PairingRecord{Round: 1, BoardID: "A", Player1: a,
			Player2: b, Won: i < wins})
	}
}

func TestBestPartnerWithoutRecentBench(t *testing.T) {
	tests := []struct {
		name    string
		history func(h *MatchHistory)
		benched PlayerID
		expect  PlayerID
	}{
		{
			name: "fewest pairings",
			history: func(h *MatchHistory) {
				pairedTimes(h, "p1", "p2", 2, 0)
				pairedTimes(h, "p1", "p3", 1, 0)
				pairedTimes(h, "p1", "p4", 3, 3)
				pairedTimes(h, "p1", "p5", 2, 2)
			},
			expect: "p3",
		},
		{
			name: "win rate breaks a pairing tie",
			history: func(h *MatchHistory) {
				pairedTimes(h, "p1", "p2", 2, 0)
				pairedTimes(h, "p1", "p3", 1, 0)
				pairedTimes(h, "p1", "p4", 1, 1)
				pairedTimes(h, "p1", "p5", 1, 0)
			},
			expect: "p4",
		},
		{
			name: "never paired beats a losing pair",
			history: func(h *MatchHistory) {
				pairedTimes(h, "p1", "p2", 1, 0)
				pairedTimes(h, "p1", "p3", 1, 0)
				pairedTimes(h, "p1", "p4", 1, 0)
			},
			expect: "p5",
		},
		{
			name: "recently benched first",
			history: func(h *MatchHistory) {
				pairedTimes(h, "p1", "p5", 4, 0)
			},
			benched: "p5",
			expect:  "p5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := mkPlayers(5)
			if tt.benched != "" {
				roster[FindPlayer(roster, tt.benched)].Stats.LastBenchedRound = 2
			}
			h := NewMatchHistory()
			tt.history(h)
			p := newPairer(NextRoundInput{Roster: roster, BoardCount: 2,
				History: h, Round: 3}, roster)

			got, ok := p.bestPartner(roster[0])
			if !ok {
				t.Fatalf("no partner found")
			}
			if got.ID != tt.expect {
				t.Errorf("partner %v; expected %v", got.ID, tt.expect)
			}
		})
	}
}

func TestNextForTeamHandicapSpread(t *testing.T) {
	tests := []struct {
		name      string
		handicaps []float64
		benched   []int
		teammates []PlayerID
		expect    PlayerID
	}{
		{
			name:      "widest gap among equals",
			handicaps: []float64{1.0, 1.1, 1.5, 1.2},
			teammates: []PlayerID{"p1"},
			expect:    "p3",
		},
		{
			name:      "gap measured either way",
			handicaps: []float64{1.3, 1.2, 1.4, 1.0},
			teammates: []PlayerID{"p1"},
			expect:    "p4",
		},
		{
			name:      "fairness outranks the gap",
			handicaps: []float64{1.0, 1.1, 1.5, 1.2},
			benched:   []int{0, 1, 0, 0},
			teammates: []PlayerID{"p1"},
			expect:    "p2",
		},
		{
			name:      "empty team takes the first in line",
			handicaps: []float64{1.0, 1.1, 1.5, 1.2},
			expect:    "p1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := mkPlayers(len(tt.handicaps))
			for i, hcp := range tt.handicaps {
				roster[i].Stats.Handicap = hcp
				if tt.benched != nil {
					roster[i].Stats.Benched = tt.benched[i]
				}
			}
			p := newPairer(NextRoundInput{Roster: roster, BoardCount: 1,
				History: NewMatchHistory(), Round: 3}, roster)
			mates := pick(roster, tt.teammates...)
			for _, m := range mates {
				p.placed[m.ID] = true
			}

			got, ok := p.nextForTeam(mates)
			if !ok {
				t.Fatalf("no player drawn")
			}
			if got.ID != tt.expect {
				t.Errorf("drew %v; expected %v", got.ID, tt.expect)
			}
		})
	}
}
