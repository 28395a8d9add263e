/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"fmt"
	"strings"
)

// writeTable writes headers and rows in left aligned columns separated by
// two spaces.
func writeTable(sb *strings.Builder, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if l := len(cell); i < len(widths) && l > widths[i] {
				widths[i] = l
			}
		}
	}
	writeRow := func(cells []string) {
		var line strings.Builder
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(fmt.Sprintf("%-*s", widths[i], cell))
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteString("\n")
	}
	writeRow(headers)
	for _, r := range rows {
		writeRow(r)
	}
}

func teamName(team []Player) string {
	return strings.Join(playerNames(team), " & ")
}

func resultText(b Board) string {
	if !b.IsDecided() {
		return "pending"
	}
	ret := fmt.Sprintf("%v wins", b.Winner)
	if b.IsDove {
		ret += " (dove)"
	}
	return ret
}

// Assignment returns the current round as a RoundAssignment.
func (g *Game) Assignment() *RoundAssignment {
	return &RoundAssignment{
		Round:    g.CurrentRound,
		Boards:   g.Boards,
		Bench:    g.Bench,
		Warnings: g.Warnings,
	}
}

// BuildBoardsOutput formats a round's boards with their results so far.
func BuildBoardsOutput(ra *RoundAssignment) string {
	if ra == nil || len(ra.Boards) == 0 {
		return "No boards in play"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Round %v boards:\n\n", ra.Round))

	var rows [][]string
	for _, b := range ra.Boards {
		rows = append(rows, []string{string(b.ID), teamName(b.Team1),
			teamName(b.Team2), resultText(b)})
	}
	writeTable(&sb, []string{"Board", "Team 1", "Team 2", "Result"}, rows)

	if len(ra.Bench) > 0 {
		sb.WriteString(fmt.Sprintf("\nBench: %v\n",
			strings.Join(playerNames(ra.Bench), ", ")))
	}
	for _, w := range ra.Warnings {
		sb.WriteString(fmt.Sprintf("Warning: %v\n", w))
	}

	return sb.String()
}

// BuildGameHeader summarizes where the game stands.
func BuildGameHeader(g *Game) string {
	if g == nil {
		return "No game in progress"
	}
	if g.Finished {
		return fmt.Sprintf("%v game finished after %v rounds (%v games, %v doves)",
			g.Config.Mode(), g.Stats.RoundsPlayed, g.Stats.TotalGames,
			g.Stats.TotalDoves)
	}
	if !g.Active {
		return fmt.Sprintf("%v game not started", g.Config.Mode())
	}
	ret := fmt.Sprintf("%v game, round %v of %v on %v board(s)",
		g.Config.Mode(), g.CurrentRound, g.Config.TotalRounds,
		g.Config.BoardCount)
	if g.Config.RoundTime > 0 {
		ret += fmt.Sprintf(", %v per round", g.Config.RoundTime)
	}
	return ret
}

// BuildBenchOutput lists who sits out this round and flags anyone benched
// two rounds running.
func BuildBenchOutput(g *Game) string {
	if g == nil || !g.Active {
		return "No game in progress"
	}
	if len(g.Bench) == 0 {
		return fmt.Sprintf("Nobody is benched in round %v", g.CurrentRound)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Round %v bench:\n", g.CurrentRound))
	for _, p := range g.Bench {
		sb.WriteString(fmt.Sprintf("  %v", p.DisplayName()))
		if g.ConsecutiveBench(p) {
			sb.WriteString(" (benched consecutively!)")
		}
		sb.WriteString("\n")
	}
	for _, w := range g.Warnings {
		sb.WriteString(fmt.Sprintf("Warning: %v\n", w))
	}

	return sb.String()
}

func BuildLeaderboardOutput(s *Season) string {
	if s == nil || len(s.Entries) == 0 {
		return "Leaderboard is empty"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Season %v leaderboard", s.SeasonNumber))
	if !s.LastUpdated.IsZero() {
		sb.WriteString(fmt.Sprintf(" (updated %v)",
			s.LastUpdated.Format("Jan 2, 2006 3:04 PM")))
	}
	sb.WriteString(":\n\n")

	var rows [][]string
	for _, e := range s.Entries {
		st := e.Stats
		rows = append(rows, []string{
			fmt.Sprintf("%v.", st.Rank),
			e.Name,
			fmt.Sprintf("%v", st.GamesPlayed),
			fmt.Sprintf("%v", st.Wins),
			fmt.Sprintf("%v", st.Losses),
			fmt.Sprintf("%v", st.Doves),
			fmt.Sprintf("%v", st.BasePoints),
			fmt.Sprintf("%.1f", st.Points),
			fmt.Sprintf("%.1fx", st.Handicap),
		})
	}
	writeTable(&sb, []string{"Rank", "Name", "GP", "W", "L", "Doves", "Base",
		"Points", "Hcp"}, rows)

	return sb.String()
}

// BuildPairingMatrixOutput shows how many times each pair has partnered.
// Columns are numbered by row.
func BuildPairingMatrixOutput(players []Player, h HistoryReader) string {
	if len(players) < 2 {
		return "Not enough players for a pairing matrix"
	}
	headers := []string{"#", "Name"}
	for i := range players {
		headers = append(headers, fmt.Sprintf("%v", i+1))
	}
	var rows [][]string
	for i, p := range players {
		row := []string{fmt.Sprintf("%v", i+1), p.DisplayName()}
		for j, q := range players {
			if i == j {
				row = append(row, "-")
				continue
			}
			n := 0
			if h != nil {
				n = h.TimesPaired(p.ID, q.ID)
			}
			row = append(row, fmt.Sprintf("%v", n))
		}
		rows = append(rows, row)
	}

	var sb strings.Builder
	sb.WriteString("Times paired as teammates:\n\n")
	writeTable(&sb, headers, rows)

	return sb.String()
}

// BuildSuggestionsOutput lists partner suggestions for one player.
func BuildSuggestionsOutput(p Player, roster []Player, h *MatchHistory) string {
	ids := h.PartnerSuggestions(p.ID, ActivePlayers(roster))
	if len(ids) == 0 {
		return fmt.Sprintf("No partner suggestions for %v", p.DisplayName())
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Suggested partners for %v:\n\n",
		p.DisplayName()))
	var rows [][]string
	for i, id := range ids {
		idx := FindPlayer(roster, id)
		if idx < 0 {
			continue
		}
		rows = append(rows, []string{fmt.Sprintf("%v.", i+1),
			roster[idx].DisplayName(),
			fmt.Sprintf("%v", h.TimesPaired(p.ID, id)),
			fmt.Sprintf("%.0f%%", 100*h.WinRate(p.ID, id))})
	}
	writeTable(&sb, []string{"", "Partner", "Paired", "Win rate"}, rows)

	return sb.String()
}

func BuildPlayersOutput(players []Player) string {
	if len(players) == 0 {
		return "No players registered"
	}
	var rows [][]string
	active := 0
	for _, p := range SortPlayersByName(players) {
		status := "inactive"
		if p.Active {
			status = "active"
			active++
		}
		rows = append(rows, []string{p.Name, p.Nickname, status,
			fmt.Sprintf("%.1fx", p.Stats.Handicap), string(p.ID)})
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%v players (%v active):\n\n", len(players),
		active))
	writeTable(&sb, []string{"Name", "Nickname", "Status", "Hcp", "ID"}, rows)

	return sb.String()
}
