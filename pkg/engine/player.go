package engine

// Player is one economic actor. Cash may go negative mid-resolution but
// is settled (liquidation or bankruptcy) before the command returns.
type Player struct {
	ID       string
	Username string

	Cash int
	Pos  int

	InJail    bool
	JailTurns int // consecutive failed escape rolls, 0-3
	Doubles   int // consecutive doubles this turn, 0-3

	BusTickets int
	JailCards  int

	Bankrupt bool
}

const (
	StartingCash = 1500
	GoBonus      = 200
	JailFine     = 50
)

// Properties returns the spaces a player currently holds. Ownership
// lives on the space; this is the back-reference scan.
func (b *Board) Properties(p *Player) []*Space {
	var out []*Space
	for _, s := range b.Spaces {
		if s.Owner == p {
			out = append(out, s)
		}
	}
	return out
}

// liquidValue is the cash a player could still raise: mortgage value of
// unmortgaged holdings plus half of everything built on them.
func (b *Board) liquidValue(p *Player) int {
	total := 0
	for _, s := range b.Spaces {
		if s.Owner != p {
			continue
		}
		if !s.Mortgaged {
			total += s.MortgageValue()
		}
		total += int(s.Level) * s.BuildCost / 2
		if s.HasDepot {
			total += s.BuildCost / 2
		}
	}
	return total
}
