package engine

// Strategy decides the next command for a player whose seat is driven
// by the machine. Implementations inspect the game read-only and issue
// at most one command per call.
type Strategy interface {
	Act(g *Game, pid string) ([]Event, error)
}

// DefaultStrategy rolls, buys whatever it can afford, passes on
// everything else and ends the turn. The baseline opponent.
type DefaultStrategy struct{}

func (DefaultStrategy) Act(g *Game, pid string) ([]Event, error) {
	p := g.PlayerByID(pid)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	switch g.Phase {
	case PhaseAwaitBuy:
		if g.Current() == p && g.pendingBuy != nil && p.Cash >= g.pendingBuy.Price {
			return g.Buy(pid)
		}
		return g.Pass(pid)
	case PhaseAwaitAuction:
		return g.PassBid(pid)
	case PhaseAwaitGift:
		return g.ChooseGift(pid, false)
	case PhaseAwaitDestination:
		if dest := g.Board.NearestUnowned(p.Pos); dest >= 0 {
			return g.ChooseDestination(pid, dest)
		}
		return g.ChooseDestination(pid, (p.Pos+1)%g.Board.Size())
	}
	if g.Current() != p {
		return nil, ErrOutOfTurn
	}
	if !g.hasRolled {
		return g.Roll(pid)
	}
	return g.EndTurn(pid)
}
