package table

import "errors"

var (
	ErrRoundNotFound   = errors.New("round_not_found")
	ErrInvalidAction   = errors.New("invalid_action")
	ErrBetTooLarge     = errors.New("bet_too_large")
	ErrStakingDisabled = errors.New("staking_disabled")
)
