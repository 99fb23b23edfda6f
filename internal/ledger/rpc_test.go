package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeNode struct {
	commands []string
	respond  func(command string) (bool, string, any)
}

func (n *fakeNode) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Command string `json:"command"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		n.commands = append(n.commands, req.Command)
		status, errMsg, resp := true, "", any(nil)
		if n.respond != nil {
			status, errMsg, resp = n.respond(req.Command)
		}
		out := map[string]any{"status": status, "error": errMsg}
		if resp != nil {
			out["response"] = resp
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

func TestSpendableCoinsFiltersToken(t *testing.T) {
	node := &fakeNode{respond: func(command string) (bool, string, any) {
		if !strings.HasPrefix(command, "coins") {
			t.Fatalf("unexpected command %q", command)
		}
		return true, "", []map[string]string{
			{"coinid": "0xC1", "amount": "5", "tokenid": "0x00"},
			{"coinid": "0xC2", "amount": "12.5", "tokenid": "0xFEED"},
			{"coinid": "0xC3", "amount": "40", "tokenid": "0x00"},
		}
	}}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	c := NewRPCClient(srv.URL, time.Second)
	coins, err := c.SpendableCoins(context.Background(), "0x00")
	if err != nil {
		t.Fatalf("SpendableCoins: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("got %d coins, want 2", len(coins))
	}
	if coins[0].ID != "0xC1" || coins[0].Amount != 5 {
		t.Fatalf("first coin = %+v", coins[0])
	}
	if coins[1].ID != "0xC3" || coins[1].Amount != 40 {
		t.Fatalf("second coin = %+v", coins[1])
	}
}

func TestReceiveAddress(t *testing.T) {
	node := &fakeNode{respond: func(command string) (bool, string, any) {
		return true, "", map[string]string{"miniaddress": "MxPLAYER"}
	}}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	c := NewRPCClient(srv.URL, time.Second)
	addr, err := c.ReceiveAddress(context.Background())
	if err != nil {
		t.Fatalf("ReceiveAddress: %v", err)
	}
	if addr != "MxPLAYER" {
		t.Fatalf("address = %q, want MxPLAYER", addr)
	}
}

func TestBuildTransactionIssuesCreateInputOutput(t *testing.T) {
	node := &fakeNode{}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	c := NewRPCClient(srv.URL, time.Second)
	draftID, err := c.BuildTransaction(context.Background(), []string{"0xC1"}, []Output{
		{Address: "MxHOUSE", Amount: 10},
		{Address: "MxPLAYER", Amount: 2.5},
	})
	if err != nil {
		t.Fatalf("BuildTransaction: %v", err)
	}
	if draftID == "" {
		t.Fatal("empty draft id")
	}
	if len(node.commands) != 4 {
		t.Fatalf("node saw %d commands, want txncreate+txninput+2 txnoutput", len(node.commands))
	}
	if !strings.HasPrefix(node.commands[0], "txncreate id:"+draftID) {
		t.Fatalf("first command = %q", node.commands[0])
	}
	if !strings.Contains(node.commands[1], "coinid:0xC1") {
		t.Fatalf("input command = %q", node.commands[1])
	}
	if !strings.Contains(node.commands[2], "address:MxHOUSE amount:10") {
		t.Fatalf("output command = %q", node.commands[2])
	}
	if !strings.Contains(node.commands[3], "address:MxPLAYER amount:2.5") {
		t.Fatalf("change command = %q", node.commands[3])
	}
}

func TestSignRejectionMapsToSigningFailed(t *testing.T) {
	node := &fakeNode{respond: func(command string) (bool, string, any) {
		if strings.HasPrefix(command, "txnsign") {
			return false, "key locked", nil
		}
		return true, "", nil
	}}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	c := NewRPCClient(srv.URL, time.Second)
	if _, err := c.Sign(context.Background(), "txn-1"); !errors.Is(err, ErrSigningFailed) {
		t.Fatalf("err = %v, want ErrSigningFailed", err)
	}
}

func TestBroadcastReturnsTxPowID(t *testing.T) {
	node := &fakeNode{respond: func(command string) (bool, string, any) {
		return true, "", map[string]string{"txpowid": "0xPOW"}
	}}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	c := NewRPCClient(srv.URL, time.Second)
	id, err := c.Broadcast(context.Background(), "txn-1")
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if id != "0xPOW" {
		t.Fatalf("broadcast id = %q, want 0xPOW", id)
	}
}

func TestBroadcastRejectionMapsToBroadcastFailed(t *testing.T) {
	node := &fakeNode{respond: func(command string) (bool, string, any) {
		return false, "mempool full", nil
	}}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	c := NewRPCClient(srv.URL, time.Second)
	if _, err := c.Broadcast(context.Background(), "txn-1"); !errors.Is(err, ErrBroadcastFailed) {
		t.Fatalf("err = %v, want ErrBroadcastFailed", err)
	}
}

func TestUnreachableNodeIsUnavailable(t *testing.T) {
	c := NewRPCClient("http://127.0.0.1:1", 200*time.Millisecond)
	if _, err := c.ReceiveAddress(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
