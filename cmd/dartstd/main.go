/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mikeb26/dartsleague/internal"
	"github.com/mikeb26/dartsleague/league"
	"github.com/mikeb26/dartsleague/store"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":        handleHelp,
	"players":     handlePlayers,
	"addplayer":   handleAddPlayer,
	"toggle":      handleToggle,
	"delplayer":   handleDelPlayer,
	"import":      handleImport,
	"preview":     handlePreview,
	"start":       handleStart,
	"result":      handleResult,
	"next":        handleNext,
	"boards":      handleBoards,
	"bench":       handleBench,
	"matrix":      handleMatrix,
	"suggest":     handleSuggest,
	"leaderboard": handleLeaderboard,
	"end":         handleEnd,
	"resetseason": handleResetSeason,
}

func main() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

func openSession(ctx context.Context) (*store.Store, *store.Session) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Error opening %v store: %v", cfg.Store, err)
	}
	sess, err := st.LoadSession(ctx)
	if err != nil {
		log.Fatalf("Error loading session: %v", err)
	}
	return st, sess
}

func saveSession(st *store.Store, sess *store.Session) {
	if err := st.SaveSession(sess); err != nil {
		log.Fatalf("Error saving session: %v", err)
	}
}

// requireGame returns the game in progress or exits.
func requireGame(sess *store.Session) *league.Game {
	if sess.Game == nil || !sess.Game.Active {
		fmt.Fprintln(os.Stderr, "No game in progress; run 'start' first.")
		os.Exit(1)
	}
	return sess.Game
}

func lookupOrExit(players []league.Player, key string) int {
	idx := league.LookupPlayer(players, key)
	if idx < 0 {
		fmt.Fprintf(os.Stderr, "No player matching %q.\n", key)
		os.Exit(1)
	}
	return idx
}

func rngForSeed(seed int64) league.RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return league.NewRandSource(seed)
}

func handlePlayers(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("players", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	_, sess := openSession(ctx)
	fmt.Print(league.BuildPlayersOutput(sess.Players))
}

func handleAddPlayer(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("addplayer", flag.ExitOnError)
	name := fs.String("name", "", "Player's name")
	nick := fs.String("nick", "", "Optional nickname")
	email := fs.String("email", "", "Optional email address")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	n := internal.NormalizeName(*name)
	if n == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --name.")
		fs.Usage()
		os.Exit(1)
	}

	st, sess := openSession(ctx)
	p := league.NewPlayer(n)
	p.Nickname = internal.NormalizeName(*nick)
	p.Email = strings.TrimSpace(*email)
	var added int
	sess.Players, added = league.MergeRoster(sess.Players, []league.Player{p})
	if added == 0 {
		fmt.Fprintf(os.Stderr, "%v is already on the roster.\n", n)
		os.Exit(1)
	}
	saveSession(st, sess)
	fmt.Printf("Added %v (id:%v)\n", p.DisplayName(), p.ID)
}

func handleToggle(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("toggle", flag.ExitOnError)
	who := fs.String("player", "", "Player id, name or nickname")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *who == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --player.")
		fs.Usage()
		os.Exit(1)
	}

	st, sess := openSession(ctx)
	idx := lookupOrExit(sess.Players, *who)
	p := &sess.Players[idx]
	p.Active = !p.Active
	saveSession(st, sess)

	state := "inactive"
	if p.Active {
		state = "active"
	}
	fmt.Printf("%v is now %v\n", p.DisplayName(), state)
	if sess.Game != nil && sess.Game.Active {
		fmt.Println("Roster changes apply from the next game.")
	}
}

func handleDelPlayer(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("delplayer", flag.ExitOnError)
	who := fs.String("player", "", "Player id, name or nickname")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *who == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --player.")
		fs.Usage()
		os.Exit(1)
	}

	st, sess := openSession(ctx)
	idx := lookupOrExit(sess.Players, *who)
	p := sess.Players[idx]
	sess.Players = league.RemovePlayer(sess.Players, p.ID)
	saveSession(st, sess)
	fmt.Printf("Removed %v\n", p.DisplayName())
}

func handleImport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	urls := fs.String("url", "", "Comma separated roster page URLs")
	maxAge := fs.Duration("maxage", internal.RosterCacheMaxAge,
		"How long fetched roster pages are cached")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	var pages []string
	for _, u := range strings.Split(*urls, ",") {
		if u = strings.TrimSpace(u); u != "" {
			pages = append(pages, u)
		}
	}
	if len(pages) == 0 {
		fmt.Fprintln(os.Stderr, "Please provide at least one --url.")
		fs.Usage()
		os.Exit(1)
	}

	st, sess := openSession(ctx)
	client := internal.NewCachedHttpClient(nil, *maxAge)
	imported, err := league.FetchRosters(ctx, client, pages)
	if err != nil {
		log.Fatalf("Error importing roster: %v", err)
	}
	var added int
	sess.Players, added = league.MergeRoster(sess.Players, imported)
	saveSession(st, sess)
	fmt.Printf("Imported %v of %v players from %v page(s)\n", added,
		len(imported), len(pages))
}

func handlePreview(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	boards := fs.Int("boards", 1, "Number of boards (1-4)")
	seed := fs.Int64("seed", 0, "Shuffle seed (0 picks one)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	st, sess := openSession(ctx)
	roster := sess.Season.ApplyHandicaps(sess.Players)
	ra, err := league.PreviewFirstRound(st, roster, *boards, rngForSeed(*seed))
	if err != nil {
		log.Fatalf("Error previewing round 1: %v", err)
	}
	fmt.Print(league.BuildBoardsOutput(ra))
	fmt.Printf("\nRun '%s start --boards %v' to play these pairings\n",
		os.Args[0], *boards)
}

func handleStart(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	boards := fs.Int("boards", 1, "Number of boards (1-4)")
	rounds := fs.Int("rounds", 8, "Number of rounds to play")
	minutes := fs.Int("minutes", 0, "Minutes per round (0 for untimed)")
	seed := fs.Int64("seed", 0, "Shuffle seed when no preview is cached")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *minutes < 0 {
		*minutes = 0
	}

	st, sess := openSession(ctx)
	if sess.Game != nil && sess.Game.Active {
		fmt.Fprintln(os.Stderr,
			"A game is already in progress; run 'end' to stop it first.")
		os.Exit(1)
	}
	cfg := league.GameConfig{
		BoardCount:  *boards,
		TotalRounds: *rounds,
		RoundTime:   time.Duration(*minutes) * time.Minute,
	}
	g, err := league.NewGame(cfg, sess.Season.ApplyHandicaps(sess.Players))
	if err != nil {
		log.Fatalf("Error creating game: %v", err)
	}
	if err := g.Start(st, rngForSeed(*seed)); err != nil {
		log.Fatalf("Error starting game: %v", err)
	}
	sess.Season.Initialize(g.Players)
	sess.Game = g
	saveSession(st, sess)

	fmt.Println(league.BuildGameHeader(g))
	fmt.Println()
	fmt.Print(league.BuildBoardsOutput(g.Assignment()))
}

func handleResult(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("result", flag.ExitOnError)
	board := fs.String("board", "", "Board letter (A-D)")
	winner := fs.String("winner", "", "Winning side: team1 or team2")
	dove := fs.Bool("dove", false, "The win was a dove")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	side, err := league.ParseSide(*winner)
	if err != nil || *board == "" {
		fmt.Fprintln(os.Stderr,
			"Please provide a valid --board and --winner team1|team2.")
		fs.Usage()
		os.Exit(1)
	}

	st, sess := openSession(ctx)
	g := requireGame(sess)
	id := league.BoardID(strings.ToUpper(strings.TrimSpace(*board)))
	if err := g.RecordResult(id, side, *dove); err != nil {
		log.Fatalf("Error recording result: %v", err)
	}
	saveSession(st, sess)

	fmt.Print(league.BuildBoardsOutput(g.Assignment()))
	if len(g.Undecided()) == 0 {
		fmt.Printf("\nAll boards reported; run '%s next' to pair round %v\n",
			os.Args[0], g.CurrentRound+1)
	}
}

// finishGame folds a finished game into the season leaderboard.
func finishGame(sess *store.Session) {
	sess.Season.RecordFinishedGame(sess.Game)
	fmt.Println(league.BuildGameHeader(sess.Game))
	fmt.Println()
	fmt.Print(league.BuildLeaderboardOutput(sess.Season))
	sess.Game = nil
}

func handleNext(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("next", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	st, sess := openSession(ctx)
	g := requireGame(sess)
	next, err := g.EndRound()
	if errors.Is(err, league.ErrRoundUndecided) {
		fmt.Fprintf(os.Stderr, "Boards %v have not reported a winner.\n",
			g.Undecided())
		os.Exit(1)
	} else if err != nil {
		log.Fatalf("Error ending round %v: %v", g.CurrentRound, err)
	}
	if next == nil {
		finishGame(sess)
	} else {
		fmt.Println(league.BuildGameHeader(g))
		fmt.Println()
		fmt.Print(league.BuildBoardsOutput(next))
	}
	saveSession(st, sess)
}

func handleBoards(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("boards", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	_, sess := openSession(ctx)
	g := requireGame(sess)
	fmt.Println(league.BuildGameHeader(g))
	fmt.Println()
	fmt.Print(league.BuildBoardsOutput(g.Assignment()))
}

func handleBench(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	_, sess := openSession(ctx)
	fmt.Print(league.BuildBenchOutput(sess.Game))
}

func handleMatrix(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("matrix", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	_, sess := openSession(ctx)
	if sess.Game == nil {
		fmt.Println("No game in progress")
		return
	}
	fmt.Print(league.BuildPairingMatrixOutput(sess.Game.Players,
		sess.Game.History))
}

func handleSuggest(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	who := fs.String("player", "", "Player id, name or nickname")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *who == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --player.")
		fs.Usage()
		os.Exit(1)
	}

	_, sess := openSession(ctx)
	players := sess.Players
	history := league.NewMatchHistory()
	if sess.Game != nil {
		players = sess.Game.Players
		history = sess.Game.History
	}
	idx := lookupOrExit(players, *who)
	fmt.Print(league.BuildSuggestionsOutput(players[idx], players, history))
}

func handleLeaderboard(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("leaderboard", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	_, sess := openSession(ctx)
	fmt.Print(league.BuildLeaderboardOutput(sess.Season))
}

func handleEnd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("end", flag.ExitOnError)
	discard := fs.Bool("discard", false,
		"Drop the game without updating the leaderboard")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	st, sess := openSession(ctx)
	g := requireGame(sess)
	if len(g.Undecided()) < len(g.Boards) {
		fmt.Printf("Discarding partial results of round %v\n", g.CurrentRound)
	}
	g.End()
	if *discard {
		sess.Game = nil
		fmt.Println("Game discarded")
	} else {
		finishGame(sess)
	}
	saveSession(st, sess)
}

func handleResetSeason(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("resetseason", flag.ExitOnError)
	confirm := fs.Bool("confirm", false, "Required to reset the season")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if !*confirm {
		fmt.Fprintln(os.Stderr,
			"Resetting clears every season total; rerun with --confirm.")
		os.Exit(1)
	}

	st, sess := openSession(ctx)
	sess.Season.Reset()
	saveSession(st, sess)
	fmt.Printf("Started season %v\n", sess.Season.SeasonNumber)
}
