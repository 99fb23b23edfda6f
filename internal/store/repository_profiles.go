package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// GetOrCreateProfile returns the profile for the address, creating a fresh
// one (100 starting points, level 1) on first sight.
func (s *Store) GetOrCreateProfile(ctx context.Context, playerAddress string) (*Profile, error) {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO player_profile (player_address, xp, points, level)
		 VALUES ($1, 0, 100, 1)
		 ON CONFLICT (player_address) DO NOTHING`, playerAddress)
	if err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, playerAddress)
}

func (s *Store) GetProfile(ctx context.Context, playerAddress string) (*Profile, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT player_address, username, xp, points, level, total_games, wins, losses, blackjacks, created_at
		 FROM player_profile WHERE player_address = $1`, playerAddress)
	var p Profile
	err := row.Scan(&p.PlayerAddress, &p.Username, &p.XP, &p.Points, &p.Level,
		&p.TotalGames, &p.Wins, &p.Losses, &p.Blackjacks, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ApplyRoundResult bumps the aggregate counters after a finished round.
// Level is derived from total XP: one level per 1000 XP.
func (s *Store) ApplyRoundResult(ctx context.Context, playerAddress, result string, xpEarned, pointsEarned int) error {
	wins, losses, blackjacks := 0, 0, 0
	switch result {
	case "player_won":
		wins = 1
	case "player_blackjack":
		wins = 1
		blackjacks = 1
	case "dealer_won":
		losses = 1
	}
	_, err := s.Pool.Exec(ctx,
		`UPDATE player_profile SET
			xp = xp + $2,
			points = points + $3,
			total_games = total_games + 1,
			wins = wins + $4,
			losses = losses + $5,
			blackjacks = blackjacks + $6,
			level = FLOOR((xp + $2) / 1000) + 1
		 WHERE player_address = $1`,
		playerAddress, xpEarned, pointsEarned, wins, losses, blackjacks)
	return err
}

// Leaderboard lists profiles by total XP, best first.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT player_address, username, xp, points, level, total_games, wins, losses, blackjacks, created_at
		 FROM player_profile ORDER BY xp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.PlayerAddress, &p.Username, &p.XP, &p.Points, &p.Level,
			&p.TotalGames, &p.Wins, &p.Losses, &p.Blackjacks, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
