package engine

// drawFrom draws, announces and applies one card. Jail-free cards stay
// with the player until used; everything else is discarded immediately.
func (g *Game) drawFrom(d *Deck, p *Player, diceTotal int) []Event {
	card, ok := d.Draw()
	if !ok {
		return nil
	}
	events := []Event{message("%s drew: %s", p.Username, card.Text)}
	if card.Action != CardJailFree {
		d.Discard(card)
	}
	return append(events, g.applyCard(p, card, diceTotal)...)
}

func (g *Game) applyCard(p *Player, card Card, diceTotal int) []Event {
	switch card.Action {
	case CardCollect:
		p.Cash += card.Amount
		return []Event{positions(p)}
	case CardPay:
		return g.charge(p, card.Amount, nil)
	case CardAdvance:
		events := g.moveBy(p, card.Amount)
		return append(events, g.land(p, diceTotal)...)
	case CardMoveTo:
		events := g.moveTo(p, card.Amount)
		return append(events, g.land(p, diceTotal)...)
	case CardGoToJail:
		return g.sendToJail(p)
	case CardJailFree:
		p.JailCards++
		return nil
	case CardBusTicket:
		p.BusTickets++
		return nil
	case CardExpireTickets:
		for _, q := range g.Players {
			q.BusTickets = 0
		}
		return nil
	case CardCollectEach:
		// charge may bankrupt a payer and reslice g.Players, so walk a copy.
		var events []Event
		for _, q := range append([]*Player(nil), g.Players...) {
			if q == p || q.Bankrupt {
				continue
			}
			events = append(events, g.charge(q, card.Amount, p)...)
			if g.Phase == PhaseGameOver {
				break
			}
		}
		return events
	case CardPayEach:
		var events []Event
		for _, q := range append([]*Player(nil), g.Players...) {
			if q == p || q.Bankrupt || p.Bankrupt {
				continue
			}
			events = append(events, g.charge(p, card.Amount, q)...)
			if g.Phase == PhaseGameOver {
				break
			}
		}
		return events
	case CardRepairs:
		levels := 0
		for _, s := range g.Board.Properties(p) {
			levels += int(s.Level)
		}
		if levels == 0 {
			return nil
		}
		return g.charge(p, levels*card.Amount, nil)
	}
	return nil
}
