/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"errors"
	"fmt"
)

var (
	ErrNoGame         = errors.New("no game in progress")
	ErrGameFinished   = errors.New("game already finished")
	ErrRoundUndecided = errors.New("not every board has reported a winner")
)

// PrecedenceError is returned when the Pairing Engine is asked for round 1,
// which only comes from the seeded preview.
type PrecedenceError struct {
	Round int
}

func (e *PrecedenceError) Error() string {
	return fmt.Sprintf("round %v pairings must come from the round 1 preview",
		e.Round)
}

// InsufficientPlayersError means the active roster cannot fill one board.
type InsufficientPlayersError struct {
	Have int
	Need int
}

func (e *InsufficientPlayersError) Error() string {
	return fmt.Sprintf("need at least %v active players, have %v", e.Need,
		e.Have)
}

type BoardCountError struct {
	Count int
}

func (e *BoardCountError) Error() string {
	return fmt.Sprintf("board count %v outside %v-%v", e.Count, MinBoards,
		MaxBoards)
}

// RosterError reports a malformed roster entry.
type RosterError struct {
	ID     PlayerID
	Reason string
}

func (e *RosterError) Error() string {
	return fmt.Sprintf("roster player %q: %v", e.ID, e.Reason)
}

// PreviousRoundError reports a malformed previous-round board record.
type PreviousRoundError struct {
	Board  BoardID
	Reason string
}

func (e *PreviousRoundError) Error() string {
	return fmt.Sprintf("previous round board %q: %v", e.Board, e.Reason)
}

// ResultError reports a winner submission that cannot be applied.
type ResultError struct {
	Board  BoardID
	Reason string
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("board %v result: %v", e.Board, e.Reason)
}
