package engine

// Auction is an open-outcry auction over one space. Every non-bankrupt
// player starts in; passing drops a player out for good. The last
// player standing with the high bid wins, and an auction with no bids
// leaves the space unowned.
type Auction struct {
	Space  *Space
	Bid    int
	Bidder *Player
	in     map[string]bool
}

func (g *Game) startAuction(s *Space) []Event {
	g.Phase = PhaseAwaitAuction
	g.auction = &Auction{Space: s, in: make(map[string]bool)}
	for _, p := range g.Players {
		g.auction.in[p.ID] = true
	}
	return []Event{
		{Type: EvtAuctionStarted, Payload: map[string]interface{}{
			"space": s.Index,
			"name":  s.Name,
		}},
		message("%s goes up for auction", s.Name),
	}
}

// Bid raises the auction. Any remaining participant may bid; the
// out-of-turn rule does not apply inside an auction.
func (g *Game) Bid(pid string, amount int) ([]Event, error) {
	p, err := g.requirePlayer(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitAuction || g.auction == nil {
		return nil, ErrIllegalPhase
	}
	a := g.auction
	if !a.in[p.ID] {
		return nil, ErrIllegalPhase
	}
	if amount <= a.Bid || amount > p.Cash {
		return nil, ErrInsufficientFunds
	}
	a.Bid = amount
	a.Bidder = p
	return []Event{{Type: EvtBidUpdated, Payload: map[string]interface{}{
		"space":  a.Space.Index,
		"bid":    amount,
		"bidder": p.ID,
	}}}, nil
}

// PassBid drops a participant out of the auction, settling it once one
// remains.
func (g *Game) PassBid(pid string) ([]Event, error) {
	p, err := g.requirePlayer(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitAuction || g.auction == nil {
		return nil, ErrIllegalPhase
	}
	if !g.auction.in[p.ID] {
		return nil, ErrIllegalPhase
	}
	return g.auctionDrop(p), nil
}

func (g *Game) auctionDrop(p *Player) []Event {
	a := g.auction
	if a == nil || !a.in[p.ID] {
		return nil
	}
	delete(a.in, p.ID)
	if a.Bidder == p {
		// The high bidder walking away voids their bid.
		a.Bidder = nil
		a.Bid = 0
	}
	return g.settleAuction()
}

// settleAuction closes the auction when at most one participant is
// left, or when only the high bidder remains.
func (g *Game) settleAuction() []Event {
	a := g.auction
	remaining := len(a.in)
	if remaining > 1 {
		return nil
	}
	if remaining == 1 && a.Bidder == nil {
		// One player left but no bid yet; they may still bid or pass.
		return nil
	}

	g.auction = nil
	g.Phase = PhaseAwaitRoll
	if a.Bidder == nil {
		return []Event{
			{Type: EvtAuctionEnded, Payload: map[string]interface{}{
				"space": a.Space.Index,
				"sold":  false,
			}},
			message("Nobody bid on %s", a.Space.Name),
		}
	}
	// Funds were checked at bid time, but a trade accepted mid-auction
	// can drain the winner below the bid. charge settles the shortfall
	// and, in the worst case, takes the lot back via bankruptcy.
	a.Space.Owner = a.Bidder
	events := []Event{
		{Type: EvtAuctionEnded, Payload: map[string]interface{}{
			"space":  a.Space.Index,
			"sold":   true,
			"winner": a.Bidder.ID,
			"bid":    a.Bid,
		}},
		ownership(a.Space),
		message("%s won %s at auction for %d", a.Bidder.Username, a.Space.Name, a.Bid),
	}
	return append(events, g.charge(a.Bidder, a.Bid, nil)...)
}
