package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apptable "minimorph-blackjack/internal/app/table"
	"minimorph-blackjack/internal/game"
	"minimorph-blackjack/internal/wager"
)

func postJSON(t *testing.T, mux http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) *apptable.RoundView {
	t.Helper()
	var view apptable.RoundView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return &view
}

func TestRoundLifecycleOverHTTP(t *testing.T) {
	mux := NewRouter(apptable.NewService(nil, nil, 0), nil)

	rec := postJSON(t, mux, "/api/rounds", apptable.StartRequest{Bet: 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, body %s", rec.Code, rec.Body.String())
	}
	view := decodeView(t, rec)
	if view.RoundID == "" {
		t.Fatal("round id is empty")
	}
	if len(view.Snapshot.PlayerHand) != 2 {
		t.Fatalf("opening deal = %d player cards, want 2", len(view.Snapshot.PlayerHand))
	}
	if view.DealerLine == "" {
		t.Fatal("dealer said nothing at the deal")
	}

	if view.Snapshot.State == game.StatePlaying {
		if !view.Snapshot.DealerHiddenCard {
			t.Fatal("hole card exposed mid-round")
		}
		if len(view.Snapshot.DealerHand) != 1 {
			t.Fatalf("dealer shows %d cards mid-round, want only the up-card", len(view.Snapshot.DealerHand))
		}
		rec = postJSON(t, mux, "/api/rounds/"+view.RoundID+"/stand", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("stand status = %d, body %s", rec.Code, rec.Body.String())
		}
		view = decodeView(t, rec)
	}

	switch view.Snapshot.State {
	case game.StatePlayerWon, game.StatePlayerBlackjack, game.StateDealerWon, game.StatePush:
	default:
		t.Fatalf("state = %s, want terminal", view.Snapshot.State)
	}
	if view.Result == nil {
		t.Fatal("terminal view has no result")
	}
	if view.Snapshot.DealerHiddenCard {
		t.Fatal("hole card still hidden after the round")
	}
	if len(view.Snapshot.DealerHand) < 2 {
		t.Fatalf("dealer shows %d cards after the round, want the full hand", len(view.Snapshot.DealerHand))
	}

	// The terminal response carried the result; the round no longer exists.
	rec = postJSON(t, mux, "/api/rounds/"+view.RoundID+"/hit", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("hit after terminal status = %d, want 404", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rounds/"+view.RoundID, nil)
	getRec := httptest.NewRecorder()
	mux.ServeHTTP(getRec, req)
	if getRec.Code != http.StatusNotFound {
		t.Fatalf("get after terminal status = %d, want 404", getRec.Code)
	}
}

func TestStartRoundRejectsBadRequests(t *testing.T) {
	mux := NewRouter(apptable.NewService(nil, nil, 10), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rounds", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d, want 400", rec.Code)
	}

	tests := []struct {
		name string
		req  apptable.StartRequest
		code int
	}{
		{"oversized bet", apptable.StartRequest{Bet: 1000}, http.StatusBadRequest},
		{"negative bet", apptable.StartRequest{Bet: -1}, http.StatusBadRequest},
		{"unknown mode", apptable.StartRequest{Mode: "tournament"}, http.StatusBadRequest},
		{"unknown personality", apptable.StartRequest{Personality: "grumpy"}, http.StatusBadRequest},
		{"stake without ledger", apptable.StartRequest{Bet: 5, Stake: true}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, mux, "/api/rounds", tt.req)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.code, rec.Body.String())
			}
		})
	}
}

func TestUnknownRoundIs404(t *testing.T) {
	mux := NewRouter(apptable.NewService(nil, nil, 0), nil)
	for _, path := range []string{
		"/api/rounds/missing/hit",
		"/api/rounds/missing/stand",
		"/api/rounds/missing/double",
		"/api/rounds/missing/split",
	} {
		rec := postJSON(t, mux, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d, want 404", path, rec.Code)
		}
	}
}

func TestRoundErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
		body string
	}{
		{apptable.ErrRoundNotFound, http.StatusNotFound, "round_not_found"},
		{apptable.ErrInvalidAction, http.StatusConflict, "invalid_action"},
		{game.ErrSplitNotImplemented, http.StatusNotImplemented, "split_not_implemented"},
		{&wager.InsufficientFundsError{Required: 10}, http.StatusPaymentRequired, "insufficient_funds"},
		{fmt.Errorf("wrap: %w", wager.ErrLedgerOperationFailed), http.StatusBadGateway, "ledger_failed"},
		{wager.ErrLedgerTimeout, http.StatusBadGateway, "ledger_failed"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeRoundError(rec, tt.err)
		if rec.Code != tt.code {
			t.Fatalf("%v: status = %d, want %d", tt.err, rec.Code, tt.code)
		}
		var payload map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if payload["error"] != tt.body {
			t.Fatalf("%v: code = %q, want %q", tt.err, payload["error"], tt.body)
		}
	}
}

func TestInsufficientFundsCarriesRequiredAmount(t *testing.T) {
	rec := httptest.NewRecorder()
	writeRoundError(rec, &wager.InsufficientFundsError{Required: 10})
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", rec.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if payload["error"] != "insufficient_funds" {
		t.Fatalf("code = %v, want insufficient_funds", payload["error"])
	}
	if payload["required"] != 10.0 {
		t.Fatalf("required = %v, want 10; the client needs it to offer a smaller bet", payload["required"])
	}
}

func TestHealthzWithoutStore(t *testing.T) {
	mux := NewRouter(apptable.NewService(nil, nil, 0), nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["ok"] != true || payload["db"] != "disabled" {
		t.Fatalf("payload = %v, want ok with db disabled", payload)
	}
}
