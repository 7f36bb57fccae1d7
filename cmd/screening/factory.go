package main

import (
	"fmt"
	"log/slog"
	"os"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/amparo-health/screening/internal/logging"
	"github.com/amparo-health/screening/pkg/adapters/memory"
	redisadapter "github.com/amparo-health/screening/pkg/adapters/redis"
	"github.com/amparo-health/screening/pkg/catalog"
	"github.com/amparo-health/screening/pkg/persistence/middleware"
	"github.com/amparo-health/screening/pkg/ports"
	"github.com/amparo-health/screening/pkg/session"
)

// encryptionKeyEnv names the env var carrying the 32-byte AES-256 key.
// Keys stay out of flags so they never land in shell history or ps output.
const encryptionKeyEnv = "SCREENING_ENCRYPTION_KEY"

func loggerFromFlags(cmd *cobra.Command, json bool) *slog.Logger {
	levelStr, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}
	if json {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

func catalogFromFlags(cmd *cobra.Command) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("definitions")
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

// sessionManagerFromFlags builds the persistence stack: a Redis or
// in-memory store, wrapped with the configured data-protection
// middlewares, behind a session manager (with a distributed lock when
// Redis is available).
func sessionManagerFromFlags(cmd *cobra.Command, logger *slog.Logger) (*session.Manager, error) {
	addr, _ := cmd.Flags().GetString("redis")
	password, _ := cmd.Flags().GetString("redis-password")
	db, _ := cmd.Flags().GetInt("redis-db")
	ttl, _ := cmd.Flags().GetDuration("session-ttl")
	piiPatterns, _ := cmd.Flags().GetStringSlice("pii-mask")

	var store ports.StateStore
	var opts []session.Option

	if addr != "" {
		client := backend.NewClient(&backend.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		})
		store = redisadapter.NewFromClient(client, redisadapter.WithTTL(ttl))
		opts = append(opts, session.WithLocker(redisadapter.NewLocker(client, "screening:session:")))
	} else {
		store = memory.NewStore()
	}

	var mws []middleware.Middleware
	if key := os.Getenv(encryptionKeyEnv); key != "" {
		if len(key) != 32 {
			return nil, fmt.Errorf("%s must be exactly 32 bytes, got %d", encryptionKeyEnv, len(key))
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: []byte(key),
		}))
	}
	if len(piiPatterns) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(piiPatterns))
	}
	store = middleware.Chain(store, mws...)

	opts = append(opts, session.WithLogger(logger))
	return session.NewManager(store, opts...), nil
}
