/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type StoreKind string

const (
	StoreMemory StoreKind = "memory"
	StoreDir    StoreKind = "dir"
	StoreS3     StoreKind = "s3"
	StoreRedis  StoreKind = "redis"
)

// Config is read from the environment once at startup.
type Config struct {
	Store         StoreKind
	StateDir      string
	S3Bucket      string
	S3Gzip        bool
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	DiscordToken     string
	DiscordPublicKey []byte
	DiscordAppID     string
	ListenAddr       string
}

func getenv(key string, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dartsleague"
	}
	return filepath.Join(home, ".dartsleague")
}

// LoadConfig reads DARTS_* and DISCORD_* environment variables, first
// loading DARTS_ENV_FILE when it names a dotenv file. Variables already set
// win over the file. Discord settings are optional here; the bot checks for
// them itself.
func LoadConfig() (*Config, error) {
	if envFile := strings.TrimSpace(os.Getenv("DARTS_ENV_FILE")); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Store:         StoreKind(strings.ToLower(getenv("DARTS_STORE", string(StoreDir)))),
		StateDir:      getenv("DARTS_STATE_DIR", defaultStateDir()),
		S3Bucket:      getenv("DARTS_S3_BUCKET", SessionBucket),
		RedisAddr:     getenv("DARTS_REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("DARTS_REDIS_PASSWORD"),
		SessionTTL:    DefaultSessionTTL,
		DiscordToken:  os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordAppID:  os.Getenv("DISCORD_APP_ID"),
		ListenAddr:    getenv("DARTS_LISTEN_ADDR", DefaultListenAddr),
	}

	switch cfg.Store {
	case StoreMemory, StoreDir, StoreS3, StoreRedis:
	default:
		return nil, fmt.Errorf("DARTS_STORE: unknown store %q", cfg.Store)
	}

	if v := os.Getenv("DARTS_S3_GZIP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("DARTS_S3_GZIP: %w", err)
		}
		cfg.S3Gzip = b
	}
	if v := os.Getenv("DARTS_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("DARTS_SESSION_TTL: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("DARTS_SESSION_TTL: negative duration %v", d)
		}
		cfg.SessionTTL = d
	}
	if v := strings.TrimSpace(os.Getenv("DISCORD_PUBLIC_KEY")); v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("DISCORD_PUBLIC_KEY: %w", err)
		}
		cfg.DiscordPublicKey = key
	}

	return cfg, nil
}
