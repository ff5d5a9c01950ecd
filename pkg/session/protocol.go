package session

import (
	"encoding/json"
	"errors"
)

var (
	ErrRoomNotFound          = errors.New("room not found")
	ErrRoomExists            = errors.New("room already exists")
	ErrDuplicateSubscription = errors.New("handlers already attached for this membership")
	ErrStaleGeneration       = errors.New("stale membership generation")
	ErrNotInRoom             = errors.New("participant not in room")
	ErrBadCommand            = errors.New("malformed command")
)

// Command types accepted inside a running game. Everything else is
// rejected at the protocol boundary before reaching the engine.
const (
	CmdRoll         = "roll"
	CmdBuy          = "buy"
	CmdPass         = "pass"
	CmdDevelop      = "develop"
	CmdUndevelop    = "undevelop"
	CmdMortgage     = "mortgage"
	CmdUnmortgage   = "unmortgage"
	CmdProposeTrade = "propose-trade"
	CmdAcceptTrade  = "accept-trade"
	CmdRejectTrade  = "reject-trade"
	CmdEndTurn      = "end-turn"
	CmdBid          = "bid"
	CmdPassBid      = "pass-bid"
	CmdUseBusTicket = "use-bus-ticket"
	CmdPayJail      = "pay-jail"
	CmdUseJailCard  = "use-jail-card"
	CmdChooseGift   = "choose-gift"
	CmdChooseDest   = "choose-dest"
)

// Envelope is the one wire shape for every in-game command.
type Envelope struct {
	Room        string          `json:"game_id"`
	Participant string          `json:"user_id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// Payload shapes per command type. Decoded with DisallowUnknownFields
// off; missing required fields are caught per-command.

type SpacePayload struct {
	Space int `json:"space"`
}

type BidPayload struct {
	Amount int `json:"amount"`
}

type GiftPayload struct {
	Ticket bool `json:"ticket"`
}

type TradePayload struct {
	To      string      `json:"to"`
	TradeID string      `json:"trade_id"`
	Offer   BundleShape `json:"offer"`
	Request BundleShape `json:"request"`
}

type BundleShape struct {
	Cash      int   `json:"cash"`
	Spaces    []int `json:"spaces"`
	JailCards int   `json:"jail_cards"`
}

// Rejection is what the issuing participant gets back when a command
// fails; the room state is untouched.
type Rejection struct {
	Reason string `json:"reason"`
}
