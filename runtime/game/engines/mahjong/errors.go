package mahjong

import (
	"errors"
	"fmt"
)

var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrInvalidTile   = errors.New("invalid tile")
	ErrRuleViolation = errors.New("rule violation")
	ErrEngineFault   = errors.New("engine fault")
)

var (
	ErrWrongPhase       = fmt.Errorf("%w: action not allowed in current phase", ErrNotYourTurn)
	ErrAlreadyResponded = fmt.Errorf("%w: already responded", ErrNotYourTurn)

	ErrFuriten            = fmt.Errorf("%w: furiten", ErrRuleViolation)
	ErrNoYaku             = fmt.Errorf("%w: no yaku", ErrRuleViolation)
	ErrNotWinning         = fmt.Errorf("%w: hand is not complete", ErrRuleViolation)
	ErrNotTenpai          = fmt.Errorf("%w: discard does not leave tenpai", ErrRuleViolation)
	ErrInsufficientPoints = fmt.Errorf("%w: insufficient points", ErrRuleViolation)
	ErrAlreadyRiichi      = fmt.Errorf("%w: already riichi", ErrRuleViolation)
	ErrHandOpen           = fmt.Errorf("%w: hand is open", ErrRuleViolation)
	ErrTooLateForRiichi   = fmt.Errorf("%w: not enough tiles left for riichi", ErrRuleViolation)
	ErrRiichiLocked       = fmt.Errorf("%w: hand is locked after riichi", ErrRuleViolation)
	ErrCallNotAvailable   = fmt.Errorf("%w: call not available", ErrRuleViolation)
	ErrKanLimit           = fmt.Errorf("%w: kan limit reached", ErrRuleViolation)

	ErrTileConservation = fmt.Errorf("%w: tile conservation broken", ErrEngineFault)

	errStaleEvent = errors.New("stale event")
)
