/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/dartsleague/league"
	"github.com/mikeb26/dartsleague/store"
)

type DartsSubCommand string

const (
	DartsHelpCmd        DartsSubCommand = "help"
	DartsBoardsCmd      DartsSubCommand = "boards"
	DartsBenchCmd       DartsSubCommand = "bench"
	DartsLeaderboardCmd DartsSubCommand = "leaderboard"
	DartsMatrixCmd      DartsSubCommand = "matrix"
	DartsResultCmd      DartsSubCommand = "result"
	DartsNextCmd        DartsSubCommand = "next"
)

var dartsSubCmdHdlrs = map[DartsSubCommand]CmdHandler{
	DartsHelpCmd:        dartsHelpCmdHandler,
	DartsBoardsCmd:      dartsBoardsCmdHandler,
	DartsBenchCmd:       dartsBenchCmdHandler,
	DartsLeaderboardCmd: dartsLeaderboardCmdHandler,
	DartsMatrixCmd:      dartsMatrixCmdHandler,
	DartsResultCmd:      dartsResultCmdHandler,
	DartsNextCmd:        dartsNextCmdHandler,
}

var broadcastOption = &discordgo.ApplicationCommandOption{
	Type: discordgo.ApplicationCommandOptionBoolean,
	Name: "broadcast",
	Description: "Share with the rest of the channel instead of only to " +
		"you (default is false)",
	Required: false,
}

func dartsCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        string(DartsCmd),
		Description: "Darts league commands; try /darts help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DartsHelpCmd),
				Description: "Show usage for darts",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DartsBoardsCmd),
				Description: "Show this round's boards and results",
				Options:     []*discordgo.ApplicationCommandOption{broadcastOption},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DartsBenchCmd),
				Description: "Show who sits out this round",
				Options:     []*discordgo.ApplicationCommandOption{broadcastOption},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DartsLeaderboardCmd),
				Description: "Show season standings and handicaps",
				Options:     []*discordgo.ApplicationCommandOption{broadcastOption},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DartsMatrixCmd),
				Description: "Show how often players have partnered this game",
				Options:     []*discordgo.ApplicationCommandOption{broadcastOption},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DartsResultCmd),
				Description: "Record the winner of a board",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "board",
						Description: "Board letter (A is the top board)",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "winner",
						Description: "Winning side",
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Team 1", Value: "team1"},
							{Name: "Team 2", Value: "team2"},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "dove",
						Description: "The win was a dove (default is false)",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(DartsNextCmd),
				Description: "End the round and pair the next one",
			},
		},
	}
}

func dartsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := dartsHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := dartsSubCmdHdlrs[DartsSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

// subOptions returns the options of the invoked sub-command by name.
func subOptions(
	inter *discordgo.Interaction) map[string]*discordgo.ApplicationCommandInteractionDataOption {

	ret := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	data := inter.ApplicationCommandData()
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			ret[opt.Name] = opt
		}
	}
	return ret
}

func broadcastRequested(inter *discordgo.Interaction) bool {
	opt, ok := subOptions(inter)["broadcast"]
	return ok && opt.BoolValue()
}

// codeBlock wraps output for monospace formatting in Discord
func codeBlock(s string) string {
	return fmt.Sprintf("```\n%s```", truncateContent(s))
}

//go:embed help.md
var helpText string

func dartsHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

// viewHandler builds a read-only sub-command from a session renderer.
func viewHandler(name string,
	render func(sess *store.Session) string) CmdHandler {

	return func(ctx context.Context,
		inter *discordgo.Interaction) *discordgo.InteractionResponse {

		resp := newResponse()
		sessionMu.Lock()
		sess, err := sessions.LoadSession(ctx)
		sessionMu.Unlock()
		if err != nil {
			resp.Data.Content = fmt.Sprintf("Error loading league: %v", err)
			log.Printf("dartsbot.%v: %v", name, resp.Data.Content)
			return resp
		}

		resp.Data.Content = codeBlock(render(sess))
		if broadcastRequested(inter) {
			resp.Data.Flags = 0
		}
		return resp
	}
}

var dartsBoardsCmdHandler = viewHandler("boards",
	func(sess *store.Session) string {
		if sess.Game == nil || !sess.Game.Active {
			return league.BuildGameHeader(sess.Game) + "\n"
		}
		return league.BuildGameHeader(sess.Game) + "\n\n" +
			league.BuildBoardsOutput(sess.Game.Assignment())
	})

var dartsBenchCmdHandler = viewHandler("bench",
	func(sess *store.Session) string {
		return league.BuildBenchOutput(sess.Game)
	})

var dartsLeaderboardCmdHandler = viewHandler("leaderboard",
	func(sess *store.Session) string {
		return league.BuildLeaderboardOutput(sess.Season)
	})

var dartsMatrixCmdHandler = viewHandler("matrix",
	func(sess *store.Session) string {
		if sess.Game == nil {
			return "No game in progress"
		}
		return league.BuildPairingMatrixOutput(sess.Game.Players,
			sess.Game.History)
	})

func dartsResultCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter)
	boardOpt, okBoard := opts["board"]
	winnerOpt, okWinner := opts["winner"]
	if !okBoard || !okWinner {
		resp.Data.Content = "Please provide a board and a winning side."
		log.Printf("dartsbot.result: %v", resp.Data.Content)
		return resp
	}
	side, err := league.ParseSide(winnerOpt.StringValue())
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Invalid winner: %v", err)
		log.Printf("dartsbot.result: %v", resp.Data.Content)
		return resp
	}
	dove := false
	if opt, ok := opts["dove"]; ok {
		dove = opt.BoolValue()
	}
	board := league.BoardID(strings.ToUpper(strings.TrimSpace(
		boardOpt.StringValue())))

	sessionMu.Lock()
	defer sessionMu.Unlock()
	sess, err := sessions.LoadSession(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading league: %v", err)
		log.Printf("dartsbot.result: %v", resp.Data.Content)
		return resp
	}
	if sess.Game == nil {
		resp.Data.Content = "No game in progress"
		return resp
	}
	if err := sess.Game.RecordResult(board, side, dove); err != nil {
		resp.Data.Content = fmt.Sprintf("Error recording result: %v", err)
		log.Printf("dartsbot.result: %v", resp.Data.Content)
		return resp
	}
	if err := sessions.SaveGame(sess.Game); err != nil {
		resp.Data.Content = fmt.Sprintf("Error saving result: %v", err)
		log.Printf("dartsbot.result: %v", resp.Data.Content)
		return resp
	}

	out := league.BuildBoardsOutput(sess.Game.Assignment())
	if len(sess.Game.Undecided()) == 0 {
		out += "\nAll boards reported; /darts next pairs the next round\n"
	}
	resp.Data.Content = codeBlock(out)
	resp.Data.Flags = 0

	return resp
}

func dartsNextCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	sessionMu.Lock()
	defer sessionMu.Unlock()
	sess, err := sessions.LoadSession(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading league: %v", err)
		log.Printf("dartsbot.next: %v", resp.Data.Content)
		return resp
	}
	g := sess.Game
	if g == nil {
		resp.Data.Content = "No game in progress"
		return resp
	}
	next, err := g.EndRound()
	if errors.Is(err, league.ErrRoundUndecided) {
		resp.Data.Content = fmt.Sprintf("Boards %v have not reported a winner.",
			g.Undecided())
		return resp
	} else if err != nil {
		resp.Data.Content = fmt.Sprintf("Error ending round: %v", err)
		log.Printf("dartsbot.next: %v", resp.Data.Content)
		return resp
	}

	var out string
	if next == nil {
		sess.Season.RecordFinishedGame(g)
		out = league.BuildGameHeader(g) + "\n\n" +
			league.BuildLeaderboardOutput(sess.Season)
		sess.Game = nil
	} else {
		out = league.BuildGameHeader(g) + "\n\n" + league.BuildBoardsOutput(next)
	}
	if err := sessions.SaveSession(sess); err != nil {
		resp.Data.Content = fmt.Sprintf("Error saving league: %v", err)
		log.Printf("dartsbot.next: %v", resp.Data.Content)
		return resp
	}

	resp.Data.Content = codeBlock(out)
	resp.Data.Flags = 0

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
