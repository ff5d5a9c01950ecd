package engine

type SpaceType string

const (
	SpaceGo           SpaceType = "go"
	SpaceProperty     SpaceType = "property"
	SpaceRailroad     SpaceType = "railroad"
	SpaceUtility      SpaceType = "utility"
	SpaceTax          SpaceType = "tax"
	SpaceChance       SpaceType = "chance"
	SpaceChest        SpaceType = "chest"
	SpaceJail         SpaceType = "jail"
	SpaceGoToJail     SpaceType = "go-to-jail"
	SpaceFreeParking  SpaceType = "free-parking"
	SpaceAuction      SpaceType = "auction"
	SpaceBusTicket    SpaceType = "bus-ticket"
	SpaceBirthdayGift SpaceType = "birthday-gift"
)

// DevLevel is the ordinal improvement state of a property. Houses,
// hotel and skyscraper are mutually exclusive by construction.
type DevLevel int

const (
	LevelNone DevLevel = iota
	LevelOne
	LevelTwo
	LevelThree
	LevelFour
	LevelHotel
	LevelSkyscraper
)

// SpaceConfig is the persisted shape of one board square, loaded once
// at session creation.
type SpaceConfig struct {
	Name      string    `json:"name"`
	Type      SpaceType `json:"type"`
	Group     string    `json:"group"`
	Price     int       `json:"price"`
	Rent      []int     `json:"rent"` // indexed by DevLevel
	BuildCost int       `json:"build_cost"`
	Amount    int       `json:"amount"` // tax debit / fixed payload
}

// Space is one board square. Index is fixed at setup; owner, mortgage
// and development level are the only mutable fields.
type Space struct {
	Index     int
	Name      string
	Type      SpaceType
	Group     string
	Price     int
	Rent      []int
	BuildCost int
	Amount    int

	Owner     *Player
	Mortgaged bool
	Level     DevLevel
	HasDepot  bool // railroads only, doubles rent on this space
}

func (s *Space) Ownable() bool {
	switch s.Type {
	case SpaceProperty, SpaceRailroad, SpaceUtility:
		return true
	}
	return false
}

// MortgageValue is half the purchase price.
func (s *Space) MortgageValue() int {
	return s.Price / 2
}

func (s *Space) rentAt(level DevLevel) int {
	if int(level) < len(s.Rent) {
		return s.Rent[level]
	}
	if len(s.Rent) == 0 {
		return 0
	}
	return s.Rent[len(s.Rent)-1]
}

type Board struct {
	Spaces []*Space
}

func NewBoard(configs []SpaceConfig) *Board {
	b := &Board{}
	for i, cfg := range configs {
		b.Spaces = append(b.Spaces, &Space{
			Index:     i,
			Name:      cfg.Name,
			Type:      cfg.Type,
			Group:     cfg.Group,
			Price:     cfg.Price,
			Rent:      cfg.Rent,
			BuildCost: cfg.BuildCost,
			Amount:    cfg.Amount,
		})
	}
	return b
}

func (b *Board) Size() int {
	return len(b.Spaces)
}

func (b *Board) At(idx int) *Space {
	return b.Spaces[idx%len(b.Spaces)]
}

// Group returns every space sharing a color group tag.
func (b *Board) Group(group string) []*Space {
	var out []*Space
	for _, s := range b.Spaces {
		if s.Group != "" && s.Group == group {
			out = append(out, s)
		}
	}
	return out
}

// CountOwned counts spaces of one type held by a player. Used for
// railroad and utility rent tiers.
func (b *Board) CountOwned(owner *Player, typ SpaceType) int {
	n := 0
	for _, s := range b.Spaces {
		if s.Type == typ && s.Owner == owner {
			n++
		}
	}
	return n
}

// groupHeld counts how many spaces of the group the owner holds.
func (b *Board) groupHeld(owner *Player, group string) (held, total int) {
	for _, s := range b.Group(group) {
		total++
		if s.Owner == owner {
			held++
		}
	}
	return held, total
}

func (b *Board) indexOf(typ SpaceType) int {
	for _, s := range b.Spaces {
		if s.Type == typ {
			return s.Index
		}
	}
	return 0
}

// NearestUnowned walks forward from a position to the next ownable
// space without an owner. Returns -1 when every ownable space is held.
func (b *Board) NearestUnowned(from int) int {
	for step := 1; step <= len(b.Spaces); step++ {
		s := b.At(from + step)
		if s.Ownable() && s.Owner == nil {
			return s.Index
		}
	}
	return -1
}

// RentContext carries what variant rent formulas need beyond the space
// itself.
type RentContext struct {
	Board     *Board
	DiceTotal int
}

// CalculateRent implements the per-variant rent rules. Mortgaged
// spaces and unowned spaces charge nothing.
func (s *Space) CalculateRent(ctx RentContext) int {
	if s.Owner == nil || s.Mortgaged {
		return 0
	}
	switch s.Type {
	case SpaceProperty:
		return s.propertyRent(ctx.Board)
	case SpaceRailroad:
		owned := ctx.Board.CountOwned(s.Owner, SpaceRailroad)
		rent := 25 * (1 << (owned - 1))
		if s.HasDepot {
			rent *= 2
		}
		return rent
	case SpaceUtility:
		owned := ctx.Board.CountOwned(s.Owner, SpaceUtility)
		multiplier := 4
		if owned == 2 {
			multiplier = 10
		} else if owned >= 3 {
			multiplier = 20
		}
		return ctx.DiceTotal * multiplier
	}
	return 0
}

func (s *Space) propertyRent(b *Board) int {
	if s.Level > LevelNone {
		return s.rentAt(s.Level)
	}
	held, total := b.groupHeld(s.Owner, s.Group)
	base := s.rentAt(LevelNone)
	switch {
	case held == total:
		return base * 3
	case held == total-1:
		return base * 2
	default:
		return base
	}
}
