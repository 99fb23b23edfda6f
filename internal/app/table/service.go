package table

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"minimorph-blackjack/internal/dealer"
	"minimorph-blackjack/internal/game"
	"minimorph-blackjack/internal/store"
	"minimorph-blackjack/internal/wager"
)

// Service orchestrates one blackjack round per ticket: stake first, then
// deal, then player actions until the engine goes terminal, then the
// settlement and reward legs. Rounds live in memory only while in play; a
// round is dropped the moment its terminal result is handed back, and the
// store keeps the durable record.
type Service struct {
	saga   *wager.Saga  // nil disables staked play
	store  *store.Store // nil disables profiles and history
	maxBet float64

	mu     sync.Mutex
	rounds map[string]*session

	// newRound is swapped by tests to deal rigged decks.
	newRound func(game.Config) (*game.Round, error)
}

// session serializes all access to its round; the service map lock only
// guards registration and lookup.
type session struct {
	mu          sync.Mutex
	id          string
	round       *game.Round
	ticket      *wager.StakeTicket
	personality dealer.Personality
	player      string
	result      *RoundResult
}

func NewService(saga *wager.Saga, st *store.Store, maxBet float64) *Service {
	return &Service{
		saga:     saga,
		store:    st,
		maxBet:   maxBet,
		rounds:   make(map[string]*session),
		newRound: game.NewRound,
	}
}

// StartRound places the stake before a single card moves. If the ledger
// rejects the stake there is no round to clean up; if the deal fails after
// the stake broadcast, the coins have already moved and the error says so
// rather than pretending to roll back.
func (s *Service) StartRound(ctx context.Context, req StartRequest) (*RoundView, error) {
	personality, err := dealer.ParsePersonality(req.Personality)
	if err != nil {
		return nil, err
	}
	if s.maxBet > 0 && req.Bet > s.maxBet {
		return nil, ErrBetTooLarge
	}
	if req.Bet < 0 {
		return nil, game.ErrInvalidBet
	}
	switch game.Mode(req.Mode) {
	case "", game.ModeSolo, game.ModePvP:
	default:
		return nil, game.ErrInvalidMode
	}

	var ticket *wager.StakeTicket
	if req.Stake && req.Bet > 0 {
		if s.saga == nil {
			return nil, ErrStakingDisabled
		}
		ticket, err = s.saga.PlaceStake(ctx, req.Bet)
		if err != nil {
			return nil, err
		}
	}

	round, err := s.newRound(game.Config{Bet: req.Bet, Mode: game.Mode(req.Mode)})
	if err != nil {
		if ticket != nil {
			log.Error().Err(err).Str("stake_ref", ticket.Reference).
				Msg("deal failed after stake broadcast, stake is not recoverable")
		}
		return nil, err
	}

	sess := &session{
		id:          store.NewID(),
		round:       round,
		ticket:      ticket,
		personality: personality,
		player:      req.PlayerAddress,
	}

	// A blackjack at the deal settles right away and is never registered:
	// the caller already holds the whole outcome.
	if round.Terminal() {
		s.finish(ctx, sess)
		return s.view(sess, dealer.OutcomeEvent(round.State())), nil
	}

	s.mu.Lock()
	s.rounds[sess.id] = sess
	s.mu.Unlock()

	return s.view(sess, dealer.EventDeal), nil
}

func (s *Service) Hit(ctx context.Context, roundID string) (*RoundView, error) {
	return s.act(ctx, roundID, dealer.EventHit, (*game.Round).Hit)
}

func (s *Service) Stand(ctx context.Context, roundID string) (*RoundView, error) {
	return s.act(ctx, roundID, dealer.EventStand, (*game.Round).Stand)
}

func (s *Service) Double(ctx context.Context, roundID string) (*RoundView, error) {
	return s.act(ctx, roundID, dealer.EventDouble, (*game.Round).Double)
}

// Split is accepted by the router but the engine always refuses it: on a
// real pair the caller gets ErrSplitNotImplemented, otherwise the move is
// simply invalid.
func (s *Service) Split(ctx context.Context, roundID string) (*RoundView, error) {
	sess, err := s.lookup(roundID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	snap, err := sess.round.Split()
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrInvalidAction
	}
	return s.view(sess, dealer.EventDeal), nil
}

func (s *Service) GetRound(roundID string) (*RoundView, error) {
	sess, err := s.lookup(roundID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	event := dealer.EventDeal
	if sess.round.Terminal() {
		event = dealer.OutcomeEvent(sess.round.State())
	}
	return s.view(sess, event), nil
}

func (s *Service) act(ctx context.Context, roundID string, event dealer.Event, move func(*game.Round) *game.Snapshot) (*RoundView, error) {
	sess, err := s.lookup(roundID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if move(sess.round) == nil {
		return nil, ErrInvalidAction
	}
	if sess.round.Terminal() {
		s.finish(ctx, sess)
		s.retire(sess)
		event = dealer.OutcomeEvent(sess.round.State())
	}
	return s.view(sess, event), nil
}

// retire drops a finished session from the map. Its result travels back with
// the terminal response; later lookups get ErrRoundNotFound.
func (s *Service) retire(sess *session) {
	s.mu.Lock()
	delete(s.rounds, sess.id)
	s.mu.Unlock()
}

func (s *Service) lookup(roundID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.rounds[roundID]
	if !ok {
		return nil, ErrRoundNotFound
	}
	return sess, nil
}

// finish runs the settlement and reward legs exactly once per round. The
// outcome is fixed by the time it runs, so a caller hanging up must not
// abort the payout; the saga's per-step timeouts still bound every call.
func (s *Service) finish(ctx context.Context, sess *session) {
	ctx = context.WithoutCancel(ctx)
	round := sess.round
	payout := round.Payout()
	result := &RoundResult{
		Payout:    payout,
		NetProfit: round.NetProfit(),
	}

	if sess.ticket != nil && sess.ticket.Status == wager.StatusPlaced {
		settlement, err := s.saga.Settle(ctx, sess.ticket, round.State(), payout)
		if err != nil {
			log.Error().Err(err).
				Str("round_id", sess.id).
				Float64("payout", payout).
				Msg("payout settlement failed")
			result.SettlementError = err.Error()
		}
		result.Settlement = settlement
	}

	staked := sess.ticket != nil && sess.ticket.Status != wager.StatusRejected
	rw := rewardsFor(round.State(), round.Bet(), round.Mode(), staked)
	result.XPEarned = rw.XP
	result.PointsEarned = rw.Points

	sess.result = result
	s.record(ctx, sess)
}

// record persists the outcome best-effort. A dead database must not turn a
// finished round into an error for the player.
func (s *Service) record(ctx context.Context, sess *session) {
	if s.store == nil || sess.player == "" {
		return
	}
	round := sess.round
	if _, err := s.store.GetOrCreateProfile(ctx, sess.player); err != nil {
		log.Error().Err(err).Str("player", sess.player).Msg("profile lookup failed")
		return
	}
	rec := store.RoundRecord{
		PlayerAddress: sess.player,
		GameMode:      string(round.Mode()),
		BetAmount:     round.Bet(),
		Result:        string(round.State()),
		Payout:        sess.result.Payout,
		XPEarned:      sess.result.XPEarned,
		PointsEarned:  sess.result.PointsEarned,
		PlayerHand:    handString(round.PlayerCards()),
		DealerHand:    handString(round.DealerCards()),
	}
	if sess.ticket != nil {
		rec.StakeReference = sess.ticket.Reference
	}
	if _, err := s.store.RecordRound(ctx, rec); err != nil {
		log.Error().Err(err).Str("round_id", sess.id).Msg("history record failed")
	}
	if err := s.store.ApplyRoundResult(ctx, sess.player, string(round.State()), sess.result.XPEarned, sess.result.PointsEarned); err != nil {
		log.Error().Err(err).Str("player", sess.player).Msg("profile update failed")
	}
}

func (s *Service) view(sess *session, event dealer.Event) *RoundView {
	round := sess.round
	snap := round.Snapshot()
	return &RoundView{
		RoundID:    sess.id,
		Snapshot:   snap,
		DealerMood: dealer.MoodFor(sess.personality, round.State(), snap.PlayerValue),
		DealerLine: dealer.Line(sess.personality, event),
		Stake:      sess.ticket,
		Result:     sess.result,
	}
}

func handString(cards []game.Card) string {
	return strings.Join(game.HandStrings(cards), " ")
}
