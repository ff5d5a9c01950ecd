package engine

import "fmt"

// TradeBundle is one direction of a trade: cash, board indexes of
// properties, and get-out-of-jail-free cards.
type TradeBundle struct {
	Cash      int   `json:"cash"`
	Spaces    []int `json:"spaces"`
	JailCards int   `json:"jail_cards"`
}

// Trade is an outstanding proposal between two players. Only its two
// parties ever see it, and it never advances the turn.
type Trade struct {
	ID      string
	From    *Player
	To      *Player
	Offer   TradeBundle // what From gives
	Request TradeBundle // what From wants back
}

func (g *Game) bundleValid(p *Player, b TradeBundle) bool {
	if b.Cash < 0 || b.Cash > p.Cash || b.JailCards < 0 || b.JailCards > p.JailCards {
		return false
	}
	for _, idx := range b.Spaces {
		if idx < 0 || idx >= g.Board.Size() {
			return false
		}
		s := g.Board.At(idx)
		if s.Owner != p || s.Level != LevelNone || s.HasDepot {
			return false
		}
	}
	return true
}

// ProposeTrade registers a proposal. Validation repeats at acceptance,
// so state drift between propose and accept cannot corrupt anything.
func (g *Game) ProposeTrade(pid, toID string, offer, request TradeBundle) ([]Event, error) {
	from, err := g.requirePlayer(pid)
	if err != nil {
		return nil, err
	}
	to := g.PlayerByID(toID)
	if to == nil || to == from {
		return nil, ErrUnknownPlayer
	}
	if !g.bundleValid(from, offer) {
		return nil, ErrNotOwned
	}
	g.tradeSeq++
	t := &Trade{
		ID:      fmt.Sprintf("trade-%d", g.tradeSeq),
		From:    from,
		To:      to,
		Offer:   offer,
		Request: request,
	}
	g.trades[t.ID] = t
	return []Event{{
		Type: EvtTradeProposed,
		Payload: map[string]interface{}{
			"trade":   t.ID,
			"from":    from.ID,
			"to":      to.ID,
			"offer":   offer,
			"request": request,
		},
		Private: []string{from.ID, to.ID},
	}}, nil
}

// AcceptTrade performs both transfers atomically: everything is
// re-validated first, then applied with no failure path in between.
func (g *Game) AcceptTrade(pid, tradeID string) ([]Event, error) {
	p, err := g.requirePlayer(pid)
	if err != nil {
		return nil, err
	}
	t, ok := g.trades[tradeID]
	if !ok {
		return nil, ErrNoSuchTrade
	}
	if t.To != p {
		return nil, ErrOutOfTurn
	}
	if !g.bundleValid(t.From, t.Offer) || !g.bundleValid(t.To, t.Request) {
		delete(g.trades, tradeID)
		return nil, ErrInsufficientFunds
	}

	events := []Event{message("%s and %s completed a trade", t.From.Username, t.To.Username)}
	events = append(events, g.transferBundle(t.From, t.To, t.Offer)...)
	events = append(events, g.transferBundle(t.To, t.From, t.Request)...)
	events = append(events, positions(t.From), positions(t.To))
	delete(g.trades, tradeID)
	events = append(events, Event{
		Type: EvtTradeCompleted,
		Payload: map[string]interface{}{
			"trade": t.ID,
			"from":  t.From.ID,
			"to":    t.To.ID,
		},
		Private: []string{t.From.ID, t.To.ID},
	})
	return events, nil
}

func (g *Game) transferBundle(from, to *Player, b TradeBundle) []Event {
	from.Cash -= b.Cash
	to.Cash += b.Cash
	from.JailCards -= b.JailCards
	to.JailCards += b.JailCards
	var events []Event
	for _, idx := range b.Spaces {
		s := g.Board.At(idx)
		s.Owner = to
		events = append(events, ownership(s))
	}
	return events
}

// RejectTrade drops a proposal. Either party may reject.
func (g *Game) RejectTrade(pid, tradeID string) ([]Event, error) {
	p, err := g.requirePlayer(pid)
	if err != nil {
		return nil, err
	}
	t, ok := g.trades[tradeID]
	if !ok {
		return nil, ErrNoSuchTrade
	}
	if t.From != p && t.To != p {
		return nil, ErrOutOfTurn
	}
	delete(g.trades, tradeID)
	return []Event{{
		Type:    EvtTradeRejected,
		Payload: map[string]interface{}{"trade": t.ID},
		Private: []string{t.From.ID, t.To.ID},
	}}, nil
}

// rejectTradesOf auto-rejects every proposal a leaving player is part
// of.
func (g *Game) rejectTradesOf(p *Player) []Event {
	var events []Event
	for id, t := range g.trades {
		if t.From == p || t.To == p {
			delete(g.trades, id)
			events = append(events, Event{
				Type:    EvtTradeRejected,
				Payload: map[string]interface{}{"trade": t.ID},
				Private: []string{t.From.ID, t.To.ID},
			})
		}
	}
	return events
}
