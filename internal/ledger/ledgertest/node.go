// Package ledgertest provides an in-memory ledger.Client for tests: a
// scriptable wallet with coins, an address, and per-step failure injection.
package ledgertest

import (
	"context"
	"fmt"
	"sync"

	"minimorph-blackjack/internal/ledger"
)

type Draft struct {
	Inputs  []string
	Outputs []ledger.Output
	Signed  bool
}

type Node struct {
	mu sync.Mutex

	Address string
	coins   []ledger.Coin

	FailCoins     error
	FailAddress   error
	FailBuild     error
	FailSign      bool
	FailBroadcast bool

	drafts     map[string]*Draft
	Broadcasts []Draft

	nextDraft     int
	nextBroadcast int
}

func NewNode(address string, coins ...ledger.Coin) *Node {
	return &Node{
		Address: address,
		coins:   append([]ledger.Coin{}, coins...),
		drafts:  map[string]*Draft{},
	}
}

func (n *Node) SetCoins(coins ...ledger.Coin) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.coins = append([]ledger.Coin{}, coins...)
}

func (n *Node) SpendableCoins(_ context.Context, tokenID string) ([]ledger.Coin, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailCoins != nil {
		return nil, n.FailCoins
	}
	out := make([]ledger.Coin, 0, len(n.coins))
	for _, c := range n.coins {
		if tokenID == "" || c.TokenID == tokenID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (n *Node) ReceiveAddress(_ context.Context) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailAddress != nil {
		return "", n.FailAddress
	}
	return n.Address, nil
}

func (n *Node) BuildTransaction(_ context.Context, inputs []string, outputs []ledger.Output) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailBuild != nil {
		return "", n.FailBuild
	}
	n.nextDraft++
	id := fmt.Sprintf("draft-%d", n.nextDraft)
	n.drafts[id] = &Draft{
		Inputs:  append([]string{}, inputs...),
		Outputs: append([]ledger.Output{}, outputs...),
	}
	return id, nil
}

func (n *Node) Sign(_ context.Context, draftID string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailSign {
		return "", ledger.ErrSigningFailed
	}
	d, ok := n.drafts[draftID]
	if !ok {
		return "", fmt.Errorf("%w: unknown draft %s", ledger.ErrSigningFailed, draftID)
	}
	d.Signed = true
	return draftID, nil
}

func (n *Node) Broadcast(_ context.Context, signedID string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailBroadcast {
		return "", ledger.ErrBroadcastFailed
	}
	d, ok := n.drafts[signedID]
	if !ok || !d.Signed {
		return "", fmt.Errorf("%w: draft %s not signed", ledger.ErrBroadcastFailed, signedID)
	}
	n.Broadcasts = append(n.Broadcasts, *d)
	n.nextBroadcast++
	return fmt.Sprintf("0xPOW%d", n.nextBroadcast), nil
}

// LastBroadcast returns the most recently posted transaction, or nil.
func (n *Node) LastBroadcast() *Draft {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Broadcasts) == 0 {
		return nil
	}
	d := n.Broadcasts[len(n.Broadcasts)-1]
	return &d
}

// BroadcastCount reports how many transactions reached the network.
func (n *Node) BroadcastCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Broadcasts)
}
