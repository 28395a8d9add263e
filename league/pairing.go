/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"log"
	"math"
	"sort"
)

// NextRoundInput is the snapshot the Pairing Engine works from. None of it
// is modified.
type NextRoundInput struct {
	Roster         []Player
	BoardCount     int
	History        HistoryReader
	Round          int
	Promoted       []PlayerID
	PreviousBoards []Board
}

// GenerateNextRound computes the boards and bench for round in.Round >= 2
// from the previous round's results. Placement runs in priority tiers, each
// removing players from the pool before the next:
//
//  1. a Board A winning pair under TopBoardWinCap stays on Board A
//  2. winners below A move up one board; a 1v1 winner gets a partner
//  3. losers move down one board
//  4. open seats are filled from the pool, most deserving of a game first
//
// A final bounded pass swaps any just-won or just-benched player off the
// bench. Conflicts it cannot fix are logged and reported in Warnings.
func GenerateNextRound(in NextRoundInput) (*RoundAssignment, error) {
	if in.Round < 2 {
		return nil, &PrecedenceError{Round: in.Round}
	}
	if err := validateBoardCount(in.BoardCount); err != nil {
		return nil, err
	}
	if err := ValidateRoster(in.Roster); err != nil {
		return nil, err
	}
	active := ActivePlayers(in.Roster)
	if err := requirePlayers(active); err != nil {
		return nil, err
	}
	if err := validatePreviousBoards(in.PreviousBoards,
		in.BoardCount); err != nil {
		return nil, err
	}

	p := newPairer(in, active)
	p.keepTopBoard()
	p.promote()
	p.relegate()
	p.fill()
	ra := p.assignment()
	p.repairBench(ra)

	return ra, nil
}

func validatePreviousBoards(boards []Board, boardCount int) error {
	seenBoard := make(map[BoardID]bool)
	seenPlayer := make(map[PlayerID]bool)
	for _, b := range boards {
		rank := b.ID.Rank()
		if rank < 0 || rank >= boardCount {
			return &PreviousRoundError{Board: b.ID,
				Reason: "not on this ladder"}
		}
		if seenBoard[b.ID] {
			return &PreviousRoundError{Board: b.ID, Reason: "listed twice"}
		}
		seenBoard[b.ID] = true
		if b.Winner != SideNone && b.Winner != SideTeam1 &&
			b.Winner != SideTeam2 {
			return &PreviousRoundError{Board: b.ID, Reason: "invalid winner"}
		}
		if len(b.Team1) > 2 || len(b.Team2) > 2 {
			return &PreviousRoundError{Board: b.ID,
				Reason: "team larger than 2"}
		}
		if b.IsDecided() && (len(b.Team1) == 0 || len(b.Team2) == 0) {
			return &PreviousRoundError{Board: b.ID,
				Reason: "winner declared with an empty team"}
		}
		for _, pl := range b.Players() {
			if seenPlayer[pl.ID] {
				return &PreviousRoundError{Board: b.ID,
					Reason: "player " + string(pl.ID) + " seated twice"}
			}
			seenPlayer[pl.ID] = true
		}
	}
	return nil
}

type pairer struct {
	round   int
	history HistoryReader

	pool  []Player
	byID  map[PlayerID]Player
	order map[PlayerID]int

	prev  map[BoardID]Board
	seats []int
	teams [][2][]Player

	placed map[PlayerID]bool
	// players who must not sit out this round
	protected map[PlayerID]BenchReason
	// previous winners; never drafted as someone else's partner
	reserved map[PlayerID]bool
	// seated by continuity or promotion; bench repair leaves them in place
	anchored map[PlayerID]bool
	// pairs that may not be teammates again this round
	banned map[pairKey]bool
}

func newPairer(in NextRoundInput, active []Player) *pairer {
	p := &pairer{
		round:     in.Round,
		history:   in.History,
		pool:      active,
		byID:      make(map[PlayerID]Player, len(active)),
		order:     make(map[PlayerID]int, len(active)),
		prev:      make(map[BoardID]Board),
		seats:     boardSeats(len(active), in.BoardCount),
		teams:     make([][2][]Player, in.BoardCount),
		placed:    make(map[PlayerID]bool),
		protected: make(map[PlayerID]BenchReason),
		reserved:  make(map[PlayerID]bool),
		anchored:  make(map[PlayerID]bool),
		banned:    make(map[pairKey]bool),
	}
	if p.history == nil {
		p.history = NewMatchHistory()
	}
	for i, pl := range active {
		p.byID[pl.ID] = pl
		p.order[pl.ID] = i
		if p.recentlyBenched(pl) {
			p.protected[pl.ID] = BenchReasonRecentlyBenched
		}
	}
	for _, id := range in.Promoted {
		if _, ok := p.byID[id]; ok {
			p.protected[id] = BenchReasonJustWon
		}
	}
	// previous boards are resolved against the roster snapshot so stats are
	// current and departed players drop out
	for _, b := range in.PreviousBoards {
		rb := Board{ID: b.ID, Winner: b.Winner, IsDove: b.IsDove,
			Team1: p.resolve(b.Team1), Team2: p.resolve(b.Team2)}
		p.prev[b.ID] = rb
		for _, w := range rb.Winners() {
			p.protected[w.ID] = BenchReasonJustWon
			p.reserved[w.ID] = true
		}
	}

	return p
}

func (p *pairer) resolve(team []Player) []Player {
	var ret []Player
	for _, pl := range team {
		if cur, ok := p.byID[pl.ID]; ok {
			ret = append(ret, cur)
		}
	}
	return ret
}

func (p *pairer) recentlyBenched(pl Player) bool {
	last := pl.Stats.LastBenchedRound
	if h := p.history.LastBenchedRound(pl.ID); h > last {
		last = h
	}
	return p.round > 1 && last == p.round-1
}

func (p *pairer) unplaced(players []Player) []Player {
	var ret []Player
	for _, pl := range players {
		if !p.placed[pl.ID] {
			ret = append(ret, pl)
		}
	}
	return ret
}

func (p *pairer) place(rank int, side Side, players ...Player) {
	idx := 0
	if side == SideTeam2 {
		idx = 1
	}
	for _, pl := range players {
		p.teams[rank][idx] = append(p.teams[rank][idx], pl)
		p.placed[pl.ID] = true
	}
}

func (p *pairer) team(rank int, side Side) []Player {
	if side == SideTeam2 {
		return p.teams[rank][1]
	}
	return p.teams[rank][0]
}

// freeTeam is the first side of board rank with nobody seated yet
func (p *pairer) freeTeam(rank int) Side {
	if rank < 0 || rank >= len(p.seats) || p.seats[rank] == 0 {
		return SideNone
	}
	if len(p.teams[rank][0]) == 0 {
		return SideTeam1
	}
	if len(p.teams[rank][1]) == 0 {
		return SideTeam2
	}
	return SideNone
}

// streak is the highest top-board run among the team's members
func streak(team []Player) int {
	ret := 0
	for _, pl := range team {
		if pl.Stats.ConsecutiveWins > ret {
			ret = pl.Stats.ConsecutiveWins
		}
	}
	return ret
}

func (p *pairer) keepTopBoard() {
	prevA, ok := p.prev[BoardIDForRank(0)]
	if !ok || !prevA.IsDecided() {
		return
	}
	winners := p.unplaced(prevA.Winners())
	if len(winners) == 0 || p.seats[0] == 0 {
		return
	}
	if s := streak(winners); s >= TopBoardWinCap {
		log.Printf("league.pair: round %v: board A team %v rotated after %v consecutive wins",
			p.round, playerNames(winners), s)
		if len(winners) == 2 {
			p.banned[newPairKey(winners[0].ID, winners[1].ID)] = true
		}
		return
	}
	if len(winners) > p.seats[0] {
		// a pair cannot hold a 1v1 board; both go back to the pool
		return
	}
	p.seatTeam(0, winners, true)
}

func (p *pairer) promote() {
	for rank := 1; rank < len(p.seats); rank++ {
		b, ok := p.prev[BoardIDForRank(rank)]
		if !ok || !b.IsDecided() {
			continue
		}
		winners := p.unplaced(b.Winners())
		if len(winners) == 0 {
			continue
		}
		p.seatTeam(rank-1, winners, true)
	}
}

func (p *pairer) relegate() {
	for rank := 0; rank < len(p.seats)-1; rank++ {
		b, ok := p.prev[BoardIDForRank(rank)]
		if !ok || !b.IsDecided() {
			continue
		}
		losers := p.unplaced(b.Losers())
		if len(losers) == 0 {
			continue
		}
		p.seatTeam(rank+1, losers, false)
	}
}

// seatTeam puts group on the first open side of board rank. A group larger
// than the board's team size keeps its most deserving members; a single
// player on a 2v2 board is given a partner when withPartner is set,
// otherwise the open seat is left for fill.
func (p *pairer) seatTeam(rank int, group []Player, withPartner bool) {
	side := p.freeTeam(rank)
	if side == SideNone {
		return
	}
	seats := p.seats[rank]
	if len(group) > seats {
		group = p.byPlayPriority(group)[:seats]
	}
	if len(group) == 1 && seats == 2 && withPartner {
		if partner, ok := p.bestPartner(group[0]); ok {
			group = append(group, partner)
		}
	}
	if withPartner {
		for _, pl := range group {
			p.anchored[pl.ID] = true
		}
	}
	p.place(rank, side, group...)
}

// bestPartner picks a teammate for a player promoted out of a 1v1 board:
// someone who sat out last round if possible, otherwise whoever has partnered
// them least, ties going to the higher win rate together.
func (p *pairer) bestPartner(pl Player) (Player, bool) {
	var candidates, benched []Player
	for _, c := range p.pool {
		if c.ID == pl.ID || p.placed[c.ID] || p.reserved[c.ID] ||
			p.banned[newPairKey(pl.ID, c.ID)] {
			continue
		}
		candidates = append(candidates, c)
		if p.recentlyBenched(c) {
			benched = append(benched, c)
		}
	}
	if len(benched) > 0 {
		candidates = benched
	}
	if len(candidates) == 0 {
		return Player{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i].ID, candidates[j].ID
		ni, nj := p.history.TimesPaired(pl.ID, ci),
			p.history.TimesPaired(pl.ID, cj)
		if ni != nj {
			return ni < nj
		}
		return p.history.WinRate(pl.ID, ci) > p.history.WinRate(pl.ID, cj)
	})

	return candidates[0], true
}

func (p *pairer) fill() {
	for rank, seats := range p.seats {
		if seats == 0 {
			break
		}
		for _, side := range []Side{SideTeam1, SideTeam2} {
			for len(p.team(rank, side)) < seats {
				next, ok := p.nextForTeam(p.team(rank, side))
				if !ok {
					break
				}
				p.place(rank, side, next)
			}
		}
	}
}

// playsBefore orders the pool by who most deserves a game: players who must
// not sit out, then those benched more often, then those benched more
// recently. Read backwards it is the bench order.
func (p *pairer) playsBefore(a, b Player) (bool, bool) {
	_, pa := p.protected[a.ID]
	_, pb := p.protected[b.ID]
	if pa != pb {
		return pa, true
	}
	if a.Stats.Benched != b.Stats.Benched {
		return a.Stats.Benched > b.Stats.Benched, true
	}
	la, lb := p.lastBenched(a), p.lastBenched(b)
	if la != lb {
		return la > lb, true
	}
	return false, false
}

func (p *pairer) lastBenched(pl Player) int {
	last := pl.Stats.LastBenchedRound
	if h := p.history.LastBenchedRound(pl.ID); h > last {
		last = h
	}
	return last
}

func (p *pairer) byPlayPriority(players []Player) []Player {
	ret := append([]Player(nil), players...)
	sort.SliceStable(ret, func(i, j int) bool {
		if less, decided := p.playsBefore(ret[i], ret[j]); decided {
			return less
		}
		return p.order[ret[i].ID] < p.order[ret[j].ID]
	})
	return ret
}

// nextForTeam draws the most deserving unplaced player. Among candidates tied
// on fairness it prefers the widest handicap gap to the current teammate.
func (p *pairer) nextForTeam(teammates []Player) (Player, bool) {
	var candidates []Player
	for _, c := range p.byPlayPriority(p.unplaced(p.pool)) {
		if p.bannedWith(c, teammates) {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		// only a rotated partner is left; a full board beats the rotation
		rest := p.byPlayPriority(p.unplaced(p.pool))
		if len(rest) == 0 {
			return Player{}, false
		}
		log.Printf("league.pair: round %v: seating %v with rotated partner %v",
			p.round, rest[0].Name, playerNames(teammates))
		return rest[0], true
	}
	best := candidates[0]
	if len(teammates) == 0 {
		return best, true
	}
	mate := teammates[0]
	bestGap := math.Abs(best.Stats.Handicap - mate.Stats.Handicap)
	for _, c := range candidates[1:] {
		if _, decided := p.playsBefore(candidates[0], c); decided {
			break
		}
		if gap := math.Abs(c.Stats.Handicap - mate.Stats.Handicap); gap > bestGap {
			best, bestGap = c, gap
		}
	}

	return best, true
}

func (p *pairer) bannedWith(c Player, teammates []Player) bool {
	for _, m := range teammates {
		if p.banned[newPairKey(c.ID, m.ID)] {
			return true
		}
	}
	return false
}

func (p *pairer) assignment() *RoundAssignment {
	ra := &RoundAssignment{Round: p.round}
	for rank, seats := range p.seats {
		if seats == 0 {
			break
		}
		ra.Boards = append(ra.Boards, Board{
			ID:    BoardIDForRank(rank),
			Team1: p.teams[rank][0],
			Team2: p.teams[rank][1],
		})
	}
	for _, pl := range p.pool {
		if !p.placed[pl.ID] {
			ra.Bench = append(ra.Bench, pl)
		}
	}
	return ra
}

// repairBench moves each protected bench member onto a board in place of the
// first seated player, searching from board A down, who may sit out. Every
// swap seats a protected player and benches an unprotected one, so the pass
// visits each bench member once and terminates.
func (p *pairer) repairBench(ra *RoundAssignment) {
	for bi := 0; bi < len(ra.Bench); bi++ {
		benched := ra.Bench[bi]
		reason, ok := p.protected[benched.ID]
		if !ok {
			continue
		}
		if !p.swapOntoBoard(ra, bi) {
			w := BenchWarning{PlayerID: benched.ID, Name: benched.Name,
				Reason: reason}
			log.Printf("league.pair: warning: round %v: %v; no eligible swap",
				p.round, w)
			ra.Warnings = append(ra.Warnings, w)
		}
	}
}

func (p *pairer) swapOntoBoard(ra *RoundAssignment, benchIdx int) bool {
	benched := ra.Bench[benchIdx]
	for i := range ra.Boards {
		for _, team := range boardTeams(&ra.Boards[i]) {
			for j, seated := range *team {
				if _, keep := p.protected[seated.ID]; keep {
					continue
				}
				if !p.bannedWith(benched, without(*team, j)) {
					(*team)[j], ra.Bench[benchIdx] = benched, seated
					return true
				}
				if p.relay(ra, team, j, benchIdx) {
					return true
				}
			}
		}
	}
	return false
}

// relay frees seat j of team for a benched player who may not sit beside
// its teammate: a movable player from another team takes seat j and the
// benched player takes theirs.
func (p *pairer) relay(ra *RoundAssignment, team *[]Player, j int,
	benchIdx int) bool {

	benched := ra.Bench[benchIdx]
	seated := (*team)[j]
	for i := range ra.Boards {
		for _, other := range boardTeams(&ra.Boards[i]) {
			if other == team {
				continue
			}
			for k, x := range *other {
				if p.anchored[x.ID] ||
					p.bannedWith(benched, without(*other, k)) ||
					p.bannedWith(x, without(*team, j)) {
					continue
				}
				(*team)[j] = x
				(*other)[k] = benched
				ra.Bench[benchIdx] = seated
				return true
			}
		}
	}
	return false
}

func boardTeams(b *Board) []*[]Player {
	return []*[]Player{&b.Team1, &b.Team2}
}

func without(team []Player, idx int) []Player {
	var ret []Player
	for i, pl := range team {
		if i != idx {
			ret = append(ret, pl)
		}
	}
	return ret
}
