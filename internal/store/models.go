package store

import "time"

type Profile struct {
	PlayerAddress string
	Username      string
	XP            int64
	Points        int64
	Level         int
	TotalGames    int
	Wins          int
	Losses        int
	Blackjacks    int
	CreatedAt     time.Time
}

type RoundRecord struct {
	ID             string
	PlayerAddress  string
	GameMode       string
	BetAmount      float64
	Result         string
	Payout         float64
	XPEarned       int
	PointsEarned   int
	PlayerHand     string
	DealerHand     string
	StakeReference string
	CreatedAt      time.Time
}

type Settings struct {
	PlayerAddress string
	SoundEnabled  bool
	MusicEnabled  bool
	DealerStyle   string
	TableTheme    string
	UpdatedAt     time.Time
}
