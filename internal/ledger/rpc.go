package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RPCClient talks to a Minima-style node over its HTTP command endpoint.
// Every Client call maps onto one or more node commands; the node itself
// holds the wallet and does the signing.
type RPCClient struct {
	endpoint string
	inner    *http.Client
}

func NewRPCClient(endpoint string, timeout time.Duration) *RPCClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RPCClient{
		endpoint: endpoint,
		inner:    &http.Client{Timeout: timeout},
	}
}

type commandRequest struct {
	Command string `json:"command"`
}

type commandResponse struct {
	Status   bool            `json:"status"`
	Error    string          `json:"error"`
	Response json.RawMessage `json:"response"`
}

func (c *RPCClient) cmd(ctx context.Context, command string, out any) error {
	raw, err := json.Marshal(commandRequest{Command: command})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.inner.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: node returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var cr commandResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !cr.Status {
		return fmt.Errorf("command %q rejected: %s", firstWord(command), cr.Error)
	}
	if out != nil && len(cr.Response) > 0 {
		if err := json.Unmarshal(cr.Response, out); err != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}
	return nil
}

func (c *RPCClient) SpendableCoins(ctx context.Context, tokenID string) ([]Coin, error) {
	var rows []struct {
		CoinID   string `json:"coinid"`
		Amount   string `json:"amount"`
		Sendable string `json:"sendable"`
		TokenID  string `json:"tokenid"`
	}
	if err := c.cmd(ctx, "coins relevant:true sendable:true", &rows); err != nil {
		return nil, err
	}
	out := make([]Coin, 0, len(rows))
	for _, row := range rows {
		if tokenID != "" && row.TokenID != tokenID {
			continue
		}
		amount, err := parseAmount(row.Amount)
		if err != nil {
			continue
		}
		out = append(out, Coin{ID: row.CoinID, Amount: amount, TokenID: row.TokenID})
	}
	return out, nil
}

func (c *RPCClient) ReceiveAddress(ctx context.Context) (string, error) {
	var resp struct {
		MiniAddress string `json:"miniaddress"`
	}
	if err := c.cmd(ctx, "getaddress", &resp); err != nil {
		return "", err
	}
	return resp.MiniAddress, nil
}

func (c *RPCClient) BuildTransaction(ctx context.Context, inputs []string, outputs []Output) (string, error) {
	draftID := newDraftID()
	if err := c.cmd(ctx, fmt.Sprintf("txncreate id:%s", draftID), nil); err != nil {
		return "", err
	}
	for _, coinID := range inputs {
		if err := c.cmd(ctx, fmt.Sprintf("txninput id:%s coinid:%s", draftID, coinID), nil); err != nil {
			return "", err
		}
	}
	for _, out := range outputs {
		command := fmt.Sprintf("txnoutput id:%s address:%s amount:%s", draftID, out.Address, formatAmount(out.Amount))
		if err := c.cmd(ctx, command, nil); err != nil {
			return "", err
		}
	}
	return draftID, nil
}

func (c *RPCClient) Sign(ctx context.Context, draftID string) (string, error) {
	if err := c.cmd(ctx, fmt.Sprintf("txnsign id:%s publickey:auto", draftID), nil); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	// txnbasics attaches the MMR proofs and scripts needed before posting.
	if err := c.cmd(ctx, fmt.Sprintf("txnbasics id:%s", draftID), nil); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	return draftID, nil
}

func (c *RPCClient) Broadcast(ctx context.Context, signedID string) (string, error) {
	var resp struct {
		TxPowID string `json:"txpowid"`
	}
	if err := c.cmd(ctx, fmt.Sprintf("txnpost id:%s", signedID), &resp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBroadcastFailed, err)
	}
	if resp.TxPowID == "" {
		return "pending", nil
	}
	return resp.TxPowID, nil
}

var (
	draftEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	draftEntropyMu sync.Mutex
)

func newDraftID() string {
	draftEntropyMu.Lock()
	defer draftEntropyMu.Unlock()
	return "txn-" + ulid.MustNew(ulid.Timestamp(time.Now()), draftEntropy).String()
}

func firstWord(command string) string {
	for i := 0; i < len(command); i++ {
		if command[i] == ' ' {
			return command[:i]
		}
	}
	return command
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// Minima amounts are decimal strings; trailing zeros are harmless.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
