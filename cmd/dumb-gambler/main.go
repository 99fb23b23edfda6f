package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

type view struct {
	RoundID  string `json:"round_id"`
	Snapshot struct {
		State       string `json:"state"`
		PlayerValue int    `json:"player_value"`
	} `json:"snapshot"`
	DealerLine string `json:"dealer_line"`
	Result     *struct {
		Payout       float64 `json:"payout"`
		NetProfit    float64 `json:"net_profit"`
		XPEarned     int     `json:"xp_earned"`
		PointsEarned int     `json:"points_earned"`
	} `json:"result"`
}

func main() {
	baseURL := getenv("SERVER_URL", "http://localhost:8080")
	bet, _ := strconv.ParseFloat(getenv("BET", "5"), 64)
	rounds, _ := strconv.Atoi(getenv("ROUNDS", "10"))
	stake := getenv("STAKE", "") == "1"

	client := &http.Client{Timeout: 30 * time.Second}
	total := 0.0
	for i := 0; i < rounds; i++ {
		profit, err := playRound(client, baseURL, bet, stake)
		if err != nil {
			log.Fatal(err)
		}
		total += profit
		log.Printf("round %d: net %+.1f (session %+.1f)", i+1, profit, total)
		time.Sleep(time.Second)
	}
	log.Printf("done: %d rounds, session net %+.1f", rounds, total)
}

// playRound hits on anything under 17 and stands otherwise, which is roughly
// how the house plays. It is not a strategy, it is traffic.
func playRound(client *http.Client, baseURL string, bet float64, stake bool) (float64, error) {
	v, err := post(client, baseURL+"/api/rounds", map[string]any{"bet": bet, "stake": stake})
	if err != nil {
		return 0, err
	}
	log.Printf("dealer: %s", v.DealerLine)

	for v.Snapshot.State == "playing" {
		action := "stand"
		if v.Snapshot.PlayerValue < 17 {
			action = "hit"
		}
		v, err = post(client, fmt.Sprintf("%s/api/rounds/%s/%s", baseURL, v.RoundID, action), nil)
		if err != nil {
			return 0, err
		}
	}
	log.Printf("outcome: %s (value %d)", v.Snapshot.State, v.Snapshot.PlayerValue)
	if v.Result == nil {
		return 0, fmt.Errorf("round %s ended without a result", v.RoundID)
	}
	return v.Result.NetProfit, nil
}

func post(client *http.Client, url string, body any) (*view, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	resp, err := client.Post(url, "application/json", &buf)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("%s: %d %s", url, resp.StatusCode, apiErr.Error)
	}
	var v view
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
