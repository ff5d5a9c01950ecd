package engine

import "fmt"

// EventType names the broadcast channel an event is emitted on. The
// session layer forwards these verbatim to every client of the room,
// exactly once per applied command.
type EventType string

const (
	EvtPositions      EventType = "positions-updated"
	EvtOwnership      EventType = "ownership-updated"
	EvtDevelopment    EventType = "development-updated"
	EvtTurnChanged    EventType = "turn-changed"
	EvtAuctionStarted EventType = "auction-started"
	EvtBidUpdated     EventType = "bid-updated"
	EvtAuctionEnded   EventType = "auction-ended"
	EvtTradeProposed  EventType = "trade-proposed"
	EvtTradeCompleted EventType = "trade-completed"
	EvtTradeRejected  EventType = "trade-rejected"
	EvtMessage        EventType = "game-message"
	EvtGameOver       EventType = "game-over"
)

type Event struct {
	Type    EventType
	Payload map[string]interface{}

	// Private restricts delivery to two participants (trades). Empty
	// means broadcast to the whole room.
	Private []string
}

func message(format string, args ...interface{}) Event {
	return Event{Type: EvtMessage, Payload: map[string]interface{}{
		"text": fmt.Sprintf(format, args...),
	}}
}

func positions(p *Player) Event {
	return Event{Type: EvtPositions, Payload: map[string]interface{}{
		"player": p.ID,
		"pos":    p.Pos,
		"bal":    p.Cash,
	}}
}

func ownership(s *Space) Event {
	owner := ""
	if s.Owner != nil {
		owner = s.Owner.ID
	}
	return Event{Type: EvtOwnership, Payload: map[string]interface{}{
		"space":     s.Index,
		"owner":     owner,
		"mortgaged": s.Mortgaged,
	}}
}

func development(s *Space) Event {
	return Event{Type: EvtDevelopment, Payload: map[string]interface{}{
		"space": s.Index,
		"level": int(s.Level),
		"depot": s.HasDepot,
	}}
}

func turnChanged(p *Player) Event {
	return Event{Type: EvtTurnChanged, Payload: map[string]interface{}{
		"player": p.ID,
	}}
}
