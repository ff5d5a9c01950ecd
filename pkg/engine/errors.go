package engine

import "errors"

var (
	ErrOutOfTurn         = errors.New("not your turn")
	ErrIllegalPhase      = errors.New("action not valid in current phase")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotOwned          = errors.New("property not owned by you")
	ErrAlreadyOwned      = errors.New("property already owned")
	ErrUnevenDevelopment = errors.New("uneven development")
	ErrGameOver          = errors.New("game is over")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrBadDestination    = errors.New("destination not in candidate set")
	ErrNoSuchTrade       = errors.New("no such trade")
)
