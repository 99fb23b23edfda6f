package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"minimorph-blackjack/internal/store"

	"github.com/go-chi/chi/v5"
)

type PublicHandlers struct {
	store *store.Store
}

func NewPublicHandlers(st *store.Store) *PublicHandlers {
	return &PublicHandlers{store: st}
}

type ProfileItem struct {
	PlayerAddress string `json:"player_address"`
	Username      string `json:"username,omitempty"`
	XP            int64  `json:"xp"`
	Points        int64  `json:"points"`
	Level         int    `json:"level"`
	TotalGames    int    `json:"total_games"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Blackjacks    int    `json:"blackjacks"`
}

type LeaderboardResponse struct {
	Items []LeaderboardItem `json:"items"`
}

type LeaderboardItem struct {
	Rank int `json:"rank"`
	ProfileItem
}

type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
}

type HistoryItem struct {
	ID             string    `json:"id"`
	GameMode       string    `json:"game_mode"`
	BetAmount      float64   `json:"bet_amount"`
	Result         string    `json:"result"`
	Payout         float64   `json:"payout"`
	XPEarned       int       `json:"xp_earned"`
	PointsEarned   int       `json:"points_earned"`
	PlayerHand     string    `json:"player_hand"`
	DealerHand     string    `json:"dealer_hand"`
	StakeReference string    `json:"stake_reference,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type SettingsPayload struct {
	SoundEnabled bool   `json:"sound_enabled"`
	MusicEnabled bool   `json:"music_enabled"`
	DealerStyle  string `json:"dealer_style"`
	TableTheme   string `json:"table_theme"`
}

func profileItem(p *store.Profile) ProfileItem {
	return ProfileItem{
		PlayerAddress: p.PlayerAddress,
		Username:      p.Username,
		XP:            p.XP,
		Points:        p.Points,
		Level:         p.Level,
		TotalGames:    p.TotalGames,
		Wins:          p.Wins,
		Losses:        p.Losses,
		Blackjacks:    p.Blackjacks,
	}
}

func (h *PublicHandlers) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := chi.URLParam(r, "player_address")
		p, err := h.store.GetProfile(r.Context(), addr)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "profile_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(profileItem(p))
	}
}

func (h *PublicHandlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := ParseLimit(r, 10, 100)
		profiles, err := h.store.Leaderboard(r.Context(), limit)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		out := make([]LeaderboardItem, 0, len(profiles))
		for i, p := range profiles {
			out = append(out, LeaderboardItem{Rank: i + 1, ProfileItem: profileItem(&p)})
		}
		_ = json.NewEncoder(w).Encode(LeaderboardResponse{Items: out})
	}
}

func (h *PublicHandlers) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := chi.URLParam(r, "player_address")
		limit := ParseLimit(r, 20, 100)
		recs, err := h.store.ListHistory(r.Context(), addr, limit)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		out := make([]HistoryItem, 0, len(recs))
		for _, rec := range recs {
			out = append(out, HistoryItem{
				ID:             rec.ID,
				GameMode:       rec.GameMode,
				BetAmount:      rec.BetAmount,
				Result:         rec.Result,
				Payout:         rec.Payout,
				XPEarned:       rec.XPEarned,
				PointsEarned:   rec.PointsEarned,
				PlayerHand:     rec.PlayerHand,
				DealerHand:     rec.DealerHand,
				StakeReference: rec.StakeReference,
				CreatedAt:      rec.CreatedAt,
			})
		}
		_ = json.NewEncoder(w).Encode(HistoryResponse{Items: out})
	}
}

// Settings falls back to the defaults for players who never saved any.
func (h *PublicHandlers) Settings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := chi.URLParam(r, "player_address")
		st, err := h.store.GetSettings(r.Context(), addr)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
				return
			}
			st = &store.Settings{
				PlayerAddress: addr,
				SoundEnabled:  true,
				MusicEnabled:  true,
				DealerStyle:   "even_tempered",
				TableTheme:    "neon",
			}
		}
		_ = json.NewEncoder(w).Encode(SettingsPayload{
			SoundEnabled: st.SoundEnabled,
			MusicEnabled: st.MusicEnabled,
			DealerStyle:  st.DealerStyle,
			TableTheme:   st.TableTheme,
		})
	}
}

func (h *PublicHandlers) SaveSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := chi.URLParam(r, "player_address")
		var payload SettingsPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		err := h.store.SaveSettings(r.Context(), store.Settings{
			PlayerAddress: addr,
			SoundEnabled:  payload.SoundEnabled,
			MusicEnabled:  payload.MusicEnabled,
			DealerStyle:   payload.DealerStyle,
			TableTheme:    payload.TableTheme,
		})
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(payload)
	}
}
