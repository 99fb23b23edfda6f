// Package store persists player profiles, round history, and settings. It is
// a collaborator of the game core, not part of it: the round service hands it
// finished-round values and never reads game state back out of it.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// Store wraps DB access.
type Store struct {
	Pool *pgxpool.Pool
}

func New(dsn string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

// Bootstrap creates the schema when missing.
func (s *Store) Bootstrap(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS player_profile (
			player_address VARCHAR(256) PRIMARY KEY,
			username VARCHAR(64) NOT NULL DEFAULT '',
			xp BIGINT NOT NULL DEFAULT 0,
			points BIGINT NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			total_games INTEGER NOT NULL DEFAULT 0,
			wins INTEGER NOT NULL DEFAULT 0,
			losses INTEGER NOT NULL DEFAULT 0,
			blackjacks INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS game_history (
			id VARCHAR(32) PRIMARY KEY,
			player_address VARCHAR(256) NOT NULL,
			game_mode VARCHAR(20) NOT NULL,
			bet_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			result VARCHAR(20) NOT NULL,
			payout DOUBLE PRECISION NOT NULL DEFAULT 0,
			xp_earned INTEGER NOT NULL DEFAULT 0,
			points_earned INTEGER NOT NULL DEFAULT 0,
			player_hand VARCHAR(256) NOT NULL DEFAULT '',
			dealer_hand VARCHAR(256) NOT NULL DEFAULT '',
			stake_reference VARCHAR(256) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS game_history_player_idx
			ON game_history (player_address, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS player_settings (
			player_address VARCHAR(256) PRIMARY KEY,
			sound_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			music_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			dealer_style VARCHAR(50) NOT NULL DEFAULT 'even_tempered',
			table_theme VARCHAR(50) NOT NULL DEFAULT 'neon',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
