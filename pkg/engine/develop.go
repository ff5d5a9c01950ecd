package engine

// groupLevels returns the min and max development level across a color
// group.
func (b *Board) groupLevels(group string) (min, max DevLevel) {
	spaces := b.Group(group)
	min, max = spaces[0].Level, spaces[0].Level
	for _, s := range spaces[1:] {
		if s.Level < min {
			min = s.Level
		}
		if s.Level > max {
			max = s.Level
		}
	}
	return min, max
}

// Develop builds one level on a property, or the depot on a railroad.
// Properties require the full color group, an unmortgaged group, funds,
// and even building. A railroad takes at most one depot.
func (g *Game) Develop(pid string, idx int) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitRoll {
		return nil, ErrIllegalPhase
	}
	if idx < 0 || idx >= g.Board.Size() {
		return nil, ErrBadDestination
	}
	s := g.Board.At(idx)
	if !s.Ownable() || s.Owner != p {
		return nil, ErrNotOwned
	}
	if s.Type == SpaceRailroad {
		if s.HasDepot || s.Mortgaged {
			return nil, ErrIllegalPhase
		}
		if p.Cash < s.BuildCost {
			return nil, ErrInsufficientFunds
		}
		p.Cash -= s.BuildCost
		s.HasDepot = true
		return []Event{
			message("%s built a depot on %s", p.Username, s.Name),
			development(s),
			positions(p),
		}, nil
	}
	if s.Type != SpaceProperty {
		return nil, ErrNotOwned
	}
	held, total := g.Board.groupHeld(p, s.Group)
	if held != total {
		return nil, ErrUnevenDevelopment
	}
	for _, gs := range g.Board.Group(s.Group) {
		if gs.Mortgaged {
			return nil, ErrUnevenDevelopment
		}
	}
	if s.Level >= LevelSkyscraper {
		return nil, ErrIllegalPhase
	}
	min, _ := g.Board.groupLevels(s.Group)
	if s.Level > min {
		return nil, ErrUnevenDevelopment
	}
	if p.Cash < s.BuildCost {
		return nil, ErrInsufficientFunds
	}
	p.Cash -= s.BuildCost
	s.Level++
	return []Event{
		message("%s built on %s", p.Username, s.Name),
		development(s),
		positions(p),
	}, nil
}

// Undevelop sells one level back at half the build cost, with the
// symmetric even-selling constraint.
func (g *Game) Undevelop(pid string, idx int) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitRoll {
		return nil, ErrIllegalPhase
	}
	if idx < 0 || idx >= g.Board.Size() {
		return nil, ErrBadDestination
	}
	s := g.Board.At(idx)
	if !s.Ownable() || s.Owner != p {
		return nil, ErrNotOwned
	}
	if s.Type == SpaceRailroad {
		if !s.HasDepot {
			return nil, ErrIllegalPhase
		}
		s.HasDepot = false
		p.Cash += s.BuildCost / 2
		return []Event{
			message("%s sold the depot on %s", p.Username, s.Name),
			development(s),
			positions(p),
		}, nil
	}
	if s.Type != SpaceProperty {
		return nil, ErrNotOwned
	}
	if s.Level == LevelNone {
		return nil, ErrIllegalPhase
	}
	_, max := g.Board.groupLevels(s.Group)
	if s.Level < max {
		return nil, ErrUnevenDevelopment
	}
	s.Level--
	p.Cash += s.BuildCost / 2
	return []Event{
		message("%s sold a building on %s", p.Username, s.Name),
		development(s),
		positions(p),
	}, nil
}

// Mortgage frees up cash against an undeveloped holding.
func (g *Game) Mortgage(pid string, idx int) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitRoll {
		return nil, ErrIllegalPhase
	}
	if idx < 0 || idx >= g.Board.Size() {
		return nil, ErrBadDestination
	}
	s := g.Board.At(idx)
	if !s.Ownable() || s.Owner != p {
		return nil, ErrNotOwned
	}
	if s.Mortgaged || s.Level != LevelNone || s.HasDepot {
		return nil, ErrIllegalPhase
	}
	s.Mortgaged = true
	p.Cash += s.MortgageValue()
	return []Event{
		message("%s mortgaged %s", p.Username, s.Name),
		ownership(s),
		positions(p),
	}, nil
}

// Unmortgage lifts a mortgage for its value plus ten percent.
func (g *Game) Unmortgage(pid string, idx int) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitRoll {
		return nil, ErrIllegalPhase
	}
	if idx < 0 || idx >= g.Board.Size() {
		return nil, ErrBadDestination
	}
	s := g.Board.At(idx)
	if !s.Ownable() || s.Owner != p {
		return nil, ErrNotOwned
	}
	if !s.Mortgaged {
		return nil, ErrIllegalPhase
	}
	cost := s.MortgageValue() + s.MortgageValue()/10
	if p.Cash < cost {
		return nil, ErrInsufficientFunds
	}
	p.Cash -= cost
	s.Mortgaged = false
	return []Event{
		message("%s unmortgaged %s", p.Username, s.Name),
		ownership(s),
		positions(p),
	}, nil
}
