package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// RecordRound appends one finished round to the history and returns its id.
func (s *Store) RecordRound(ctx context.Context, rec RoundRecord) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO game_history
			(id, player_address, game_mode, bet_amount, result, payout,
			 xp_earned, points_earned, player_hand, dealer_hand, stake_reference)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, rec.PlayerAddress, rec.GameMode, rec.BetAmount, rec.Result, rec.Payout,
		rec.XPEarned, rec.PointsEarned, rec.PlayerHand, rec.DealerHand, rec.StakeReference)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListHistory returns the player's most recent rounds, newest first.
func (s *Store) ListHistory(ctx context.Context, playerAddress string, limit int) ([]RoundRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT id, player_address, game_mode, bet_amount, result, payout,
			xp_earned, points_earned, player_hand, dealer_hand, stake_reference, created_at
		 FROM game_history
		 WHERE player_address = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, playerAddress, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RoundRecord
	for rows.Next() {
		var r RoundRecord
		if err := rows.Scan(&r.ID, &r.PlayerAddress, &r.GameMode, &r.BetAmount, &r.Result, &r.Payout,
			&r.XPEarned, &r.PointsEarned, &r.PlayerHand, &r.DealerHand, &r.StakeReference, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetSettings loads table preferences, falling back to defaults when the
// player has never saved any.
func (s *Store) GetSettings(ctx context.Context, playerAddress string) (*Settings, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT player_address, sound_enabled, music_enabled, dealer_style, table_theme, updated_at
		 FROM player_settings WHERE player_address = $1`, playerAddress)
	var st Settings
	err := row.Scan(&st.PlayerAddress, &st.SoundEnabled, &st.MusicEnabled, &st.DealerStyle, &st.TableTheme, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (s *Store) SaveSettings(ctx context.Context, st Settings) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO player_settings (player_address, sound_enabled, music_enabled, dealer_style, table_theme, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (player_address) DO UPDATE SET
			sound_enabled = EXCLUDED.sound_enabled,
			music_enabled = EXCLUDED.music_enabled,
			dealer_style = EXCLUDED.dealer_style,
			table_theme = EXCLUDED.table_theme,
			updated_at = now()`,
		st.PlayerAddress, st.SoundEnabled, st.MusicEnabled, st.DealerStyle, st.TableTheme)
	return err
}
