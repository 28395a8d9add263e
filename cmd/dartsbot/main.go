/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/dartsleague/internal"
	"github.com/mikeb26/dartsleague/store"
)

const InteractionPath = "/DiscordBot/Interaction"

var (
	botPubKey ed25519.PublicKey
	client    *discordgo.Session
	sessions  *store.Store

	// interactions arrive concurrently; each handler loads, mutates and
	// saves the whole session
	sessionMu sync.Mutex
)

type TopLevelCommand string

const DartsCmd TopLevelCommand = "darts"

type CmdHandler func(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	DartsCmd: dartsCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		log.Printf("dartsbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("dartsbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("dartsbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, string(body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		log.Printf("dartsbot.int: unimplemented interaction type %v",
			inter.Type)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("dartsbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		log.Printf("dartsbot.int: failed to write resp: err:%v", err)
	}
}

func commandHash(cmd *discordgo.ApplicationCommand) (string, error) {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(cmdJson)
	return hex.EncodeToString(hash[:]), nil
}

// registerSlashCommands creates or overwrites /darts whenever its
// definition differs from the one last registered.
func registerSlashCommands(appID string) {
	cmd := dartsCommand()
	hash, err := commandHash(cmd)
	if err != nil {
		log.Printf("dartsbot.reg: failed to marshal cmd: %v", err)
		return
	}
	if hash == sessions.LoadCommandHash() {
		return
	}

	created, err := client.ApplicationCommandCreate(appID, "", cmd)
	if err != nil {
		log.Printf("dartsbot.reg: failed to register %v: %v", cmd.Name, err)
		return
	}
	sessions.SaveCommandHash(hash)

	log.Printf("dartsbot.reg: registered %v(cmdID:%v)", created.Name,
		created.ID)
}

func main() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
	ctx := context.Background()

	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("dartsbot.init: %v", err)
	}
	if cfg.DiscordToken == "" || cfg.DiscordAppID == "" {
		log.Fatalf("dartsbot.init: DISCORD_BOT_TOKEN and DISCORD_APP_ID are required")
	}
	if len(cfg.DiscordPublicKey) != ed25519.PublicKeySize {
		log.Fatalf("dartsbot.init: DISCORD_PUBLIC_KEY must be a %v byte hex key",
			ed25519.PublicKeySize)
	}
	botPubKey = ed25519.PublicKey(cfg.DiscordPublicKey)

	client, err = discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("dartsbot.init: Failed to initialize discord client: %v", err)
	}
	client.UserAgent = internal.UserAgent

	sessions, err = store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("dartsbot.init: Failed to open %v store: %v", cfg.Store, err)
	}

	go registerSlashCommands(cfg.DiscordAppID)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("dartsbot.main: starting server on %v%v", hostname,
		cfg.ListenAddr)

	http.HandleFunc(InteractionPath, interactionHandler)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalf("dartsbot.main: Serve failed: %v", err)
	}

	log.Printf("dartsbot.main: exiting")
}
