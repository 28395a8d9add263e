/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"encoding/json"
	"testing"
)

func TestBoardIDRank(t *testing.T) {
	for rank := 0; rank < MaxBoards; rank++ {
		id := BoardIDForRank(rank)
		if id.Rank() != rank {
			t.Errorf("%v.Rank()=%v; expected %v", id, id.Rank(), rank)
		}
	}
	for _, bad := range []BoardID{"", "E", "a", "AB"} {
		if bad.Rank() != -1 {
			t.Errorf("%q.Rank()=%v; expected -1", bad, bad.Rank())
		}
	}
}

func TestParseSide(t *testing.T) {
	tests := map[string]Side{"1": SideTeam1, "team1": SideTeam1,
		"2": SideTeam2, "team2": SideTeam2}
	for in, expect := range tests {
		got, err := ParseSide(in)
		if err != nil || got != expect {
			t.Errorf("ParseSide(%q)=%v,%v; expected %v", in, got, err, expect)
		}
	}
	if _, err := ParseSide("3"); err == nil {
		t.Errorf("expected error for side 3")
	}
}

func TestBoardJSON(t *testing.T) {
	roster := mkPlayers(2)
	b := Board{ID: "A", Team1: roster[:1], Team2: roster[1:], Winner: SideTeam2,
		IsDove: true}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var got Board
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Winner != SideTeam2 || !got.IsDove || got.ID != "A" {
		t.Errorf("decoded %+v from %s", got, data)
	}
	if w := got.Winners(); len(w) != 1 || w[0].ID != "p2" {
		t.Errorf("winners %v", playerNames(w))
	}
	if l := got.Losers(); len(l) != 1 || l[0].ID != "p1" {
		t.Errorf("losers %v", playerNames(l))
	}

	undecided := Board{ID: "B", Team1: roster[:1], Team2: roster[1:]}
	if undecided.IsDecided() || undecided.Winners() != nil {
		t.Errorf("undecided board reports winners")
	}
}

func TestDisplayName(t *testing.T) {
	p := NewPlayer("Dana")
	if p.DisplayName() != "Dana" {
		t.Errorf("display %q", p.DisplayName())
	}
	p.Nickname = "Treble"
	if p.DisplayName() != `Dana "Treble"` {
		t.Errorf("display %q", p.DisplayName())
	}
}
