package engine

// Snapshot types are the read-only view handed to clients. Mirrors
// rebuild their local copy from these plus the broadcast events and
// never mutate authoritative state.

type PlayerSnapshot struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Cash       int    `json:"bal"`
	Pos        int    `json:"pos"`
	InJail     bool   `json:"jail"`
	BusTickets int    `json:"bus_tickets"`
	JailCards  int    `json:"jail_cards"`
}

type SpaceSnapshot struct {
	Index     int       `json:"index"`
	Name      string    `json:"name"`
	Type      SpaceType `json:"type"`
	Group     string    `json:"group,omitempty"`
	Price     int       `json:"price,omitempty"`
	Owner     string    `json:"owner,omitempty"`
	Mortgaged bool      `json:"mortgaged,omitempty"`
	Level     int       `json:"level,omitempty"`
	Depot     bool      `json:"depot,omitempty"`
}

type Snapshot struct {
	Players []PlayerSnapshot `json:"players"`
	Spaces  []SpaceSnapshot  `json:"spaces"`
	Turn    string           `json:"turn"`
	Phase   Phase            `json:"phase"`
	Winner  string           `json:"winner,omitempty"`
}

func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{Phase: g.Phase}
	if len(g.Players) > 0 {
		snap.Turn = g.Current().ID
	}
	if g.Winner != nil {
		snap.Winner = g.Winner.ID
	}
	for _, p := range g.Players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:         p.ID,
			Username:   p.Username,
			Cash:       p.Cash,
			Pos:        p.Pos,
			InJail:     p.InJail,
			BusTickets: p.BusTickets,
			JailCards:  p.JailCards,
		})
	}
	for _, s := range g.Board.Spaces {
		ss := SpaceSnapshot{
			Index: s.Index,
			Name:  s.Name,
			Type:  s.Type,
			Group: s.Group,
			Price: s.Price,
			Level: int(s.Level),
			Depot: s.HasDepot,
		}
		if s.Owner != nil {
			ss.Owner = s.Owner.ID
			ss.Mortgaged = s.Mortgaged
		}
		snap.Spaces = append(snap.Spaces, ss)
	}
	return snap
}
