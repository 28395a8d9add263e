/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mikeb26/dartsleague/internal"
	"github.com/mikeb26/dartsleague/store"
)

// this program exists just to seed one session store from another, e.g. to
// hand a game run locally with dartstd over to the bot's s3 or redis store

func openStore(ctx context.Context, base internal.Config,
	kind string) *store.Store {

	cfg := base
	cfg.Store = internal.StoreKind(kind)
	st, err := store.Open(ctx, &cfg)
	if err != nil {
		log.Fatalf("dartsseed: unable to open %v store: %v", kind, err)
	}
	return st
}

func main() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
	ctx := context.Background()

	fs := flag.NewFlagSet("dartsseed", flag.ExitOnError)
	from := fs.String("from", string(internal.StoreDir), "Source store kind")
	to := fs.String("to", string(internal.StoreS3), "Destination store kind")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}
	if *from == *to {
		fmt.Fprintln(os.Stderr, "--from and --to must differ.")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("dartsseed: %v", err)
	}
	src := openStore(ctx, *cfg, *from)
	dst := openStore(ctx, *cfg, *to)

	sess, err := src.LoadSession(ctx)
	if err != nil {
		log.Fatalf("dartsseed: unable to load %v session: %v", *from, err)
	}
	if err := dst.SaveSession(sess); err != nil {
		log.Fatalf("dartsseed: unable to save %v session: %v", *to, err)
	}
	fmt.Printf("seeded %v players\n", len(sess.Players))
	if sess.Game != nil {
		fmt.Printf("seeded game %v at round %v\n", sess.Game.ID,
			sess.Game.CurrentRound)
	}
	fmt.Printf("seeded season %v (%v entries)\n", sess.Season.SeasonNumber,
		len(sess.Season.Entries))

	// best effort
	preview, err := src.LoadPreview()
	if err == nil && preview != nil {
		if err := dst.SavePreview(preview); err == nil {
			fmt.Printf("seeded round 1 preview\n")
		}
	}
}
