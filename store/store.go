/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/dartsleague/internal"
	"github.com/mikeb26/dartsleague/league"
	"github.com/mikeb26/dartsleague/rediscache"
	"github.com/mikeb26/dartsleague/s3cache"
	"golang.org/x/sync/errgroup"
)

const (
	KeyPlayers     = "mf_players"
	KeyGameState   = "mf_game_state"
	KeyLeaderboard = "mf_leaderboard"
	KeyPreview     = "firstRoundPairings"
	KeyCommandHash = "discord_cmd_hash"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrWriteLost = errors.New("backend did not keep the write")
)

// Store keeps the session as JSON blobs in any httpcache.Cache.
type Store struct {
	cache httpcache.Cache
}

func New(cache httpcache.Cache) *Store {
	return &Store{cache: cache}
}

// NewMemory returns a Store that lives only as long as the process.
func NewMemory() *Store {
	return New(httpcache.NewMemoryCache())
}

// Open builds the backend named by cfg.Store.
func Open(ctx context.Context, cfg *internal.Config) (*Store, error) {
	switch cfg.Store {
	case internal.StoreMemory:
		return NewMemory(), nil
	case internal.StoreDir:
		dc, err := NewDirCache(cfg.StateDir)
		if err != nil {
			return nil, err
		}
		return New(dc), nil
	case internal.StoreS3:
		sc := s3cache.New(ctx, s3cache.Options{
			Bucket:    cfg.S3Bucket,
			Gzip:      cfg.S3Gzip,
			LogErrors: true,
		})
		if err := sc.Init(); err != nil {
			return nil, fmt.Errorf("store.open: %w", err)
		}
		return New(sc), nil
	case internal.StoreRedis:
		rc, err := rediscache.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword,
			rediscache.DefaultPrefix, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("store.open: %w", err)
		}
		return New(rc), nil
	}

	return nil, fmt.Errorf("store.open: unknown store %q", cfg.Store)
}

func (s *Store) get(key string, v any) error {
	data, ok := s.cache.Get(key)
	if !ok || len(data) == 0 {
		return fmt.Errorf("%v: %w", key, ErrNotFound)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unable to decode %v: %w", key, err)
	}
	return nil
}

// put writes v under key and reads it back. httpcache.Cache.Set cannot
// report failure, so a read back that differs is the only sign the backend
// dropped the write.
func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to encode %v: %w", key, err)
	}
	s.cache.Set(key, data)
	if stored, ok := s.cache.Get(key); !ok || !bytes.Equal(stored, data) {
		return fmt.Errorf("%v: %w", key, ErrWriteLost)
	}
	return nil
}

// LoadPlayers returns an empty roster when none has been saved.
func (s *Store) LoadPlayers() ([]league.Player, error) {
	var players []league.Player
	err := s.get(KeyPlayers, &players)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return players, err
}

func (s *Store) SavePlayers(players []league.Player) error {
	if err := league.ValidateRoster(players); err != nil {
		return err
	}
	return s.put(KeyPlayers, players)
}

// LoadGame returns league.ErrNoGame when no game has been saved.
func (s *Store) LoadGame() (*league.Game, error) {
	var g league.Game
	err := s.get(KeyGameState, &g)
	if errors.Is(err, ErrNotFound) {
		return nil, league.ErrNoGame
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) SaveGame(g *league.Game) error {
	return s.put(KeyGameState, g)
}

func (s *Store) ClearGame() error {
	s.cache.Delete(KeyGameState)
	return nil
}

// LoadSeason returns a fresh season one when none has been saved.
func (s *Store) LoadSeason() (*league.Season, error) {
	var season league.Season
	err := s.get(KeyLeaderboard, &season)
	if errors.Is(err, ErrNotFound) {
		return league.NewSeason(), nil
	}
	if err != nil {
		return nil, err
	}
	return &season, nil
}

func (s *Store) SaveSeason(season *league.Season) error {
	return s.put(KeyLeaderboard, season)
}

// LoadPreview returns nil when no preview is cached. An undecodable preview
// is dropped.
func (s *Store) LoadPreview() (*league.RoundAssignment, error) {
	var ra league.RoundAssignment
	err := s.get(KeyPreview, &ra)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("store.preview: discarding cached preview: %v", err)
		s.cache.Delete(KeyPreview)
		return nil, nil
	}
	return &ra, nil
}

func (s *Store) SavePreview(ra *league.RoundAssignment) error {
	return s.put(KeyPreview, ra)
}

func (s *Store) ClearPreview() error {
	s.cache.Delete(KeyPreview)
	return nil
}

// LoadCommandHash returns the hash of the last registered slash command
// definition, or "" when none was recorded.
func (s *Store) LoadCommandHash() string {
	data, ok := s.cache.Get(KeyCommandHash)
	if !ok {
		return ""
	}
	return string(data)
}

func (s *Store) SaveCommandHash(hash string) {
	s.cache.Set(KeyCommandHash, []byte(hash))
}

// Session is everything a command needs to act on the league.
type Session struct {
	Players []league.Player
	Game    *league.Game
	Season  *league.Season
}

// LoadSession loads the roster, game and season concurrently. Game is nil
// when no game is in progress or saved.
func (s *Store) LoadSession(ctx context.Context) (*Session, error) {
	sess := &Session{}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sess.Players, err = s.LoadPlayers()
		return err
	})
	g.Go(func() error {
		game, err := s.LoadGame()
		if errors.Is(err, league.ErrNoGame) {
			return nil
		}
		sess.Game = game
		return err
	})
	g.Go(func() error {
		var err error
		sess.Season, err = s.LoadSeason()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("store.session: %w", err)
	}

	return sess, nil
}

// SaveSession writes back every part of sess; a nil Game clears it. Each
// blob is read back after writing and ErrWriteLost returned when the backend
// did not keep it.
func (s *Store) SaveSession(sess *Session) error {
	if err := s.SavePlayers(sess.Players); err != nil {
		return err
	}
	if sess.Season != nil {
		if err := s.SaveSeason(sess.Season); err != nil {
			return err
		}
	}
	if sess.Game == nil {
		return s.ClearGame()
	}
	return s.SaveGame(sess.Game)
}
