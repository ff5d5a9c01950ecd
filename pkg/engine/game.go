package engine

import (
	"math/rand"
)

// Phase is the turn state machine position. Sub-phases suspend the
// turn until a resumption command arrives; waiting is a state, never a
// blocked goroutine.
type Phase string

const (
	PhaseAwaitRoll        Phase = "await-roll"
	PhaseAwaitBuy         Phase = "await-buy"
	PhaseAwaitAuction     Phase = "await-auction"
	PhaseAwaitGift        Phase = "await-gift"
	PhaseAwaitDestination Phase = "await-destination"
	PhaseGameOver         Phase = "game-over"
)

type PlayerInfo struct {
	ID       string
	Username string
}

type Config struct {
	Spaces  []SpaceConfig
	Chance  []Card
	Chest   []Card
	Bus     []Card
	Players []PlayerInfo
	Roller  Roller
	Seed    int64
}

// Game is the authoritative rule engine for one room. It is not safe
// for concurrent use; the owning session serializes every command.
type Game struct {
	Players []*Player // turn order
	Turn    int
	Phase   Phase
	Board   *Board

	Chance *Deck
	Chest  *Deck
	Bus    *Deck

	Winner *Player

	roller    Roller
	hasRolled bool

	pendingBuy  *Space
	pendingGift *Player
	auction     *Auction

	trades   map[string]*Trade
	tradeSeq int
}

func NewGame(cfg Config) *Game {
	rng := rand.New(rand.NewSource(cfg.Seed))
	roller := cfg.Roller
	if roller == nil {
		roller = NewRoller(cfg.Seed)
	}
	g := &Game{
		Phase:  PhaseAwaitRoll,
		Board:  NewBoard(cfg.Spaces),
		Chance: NewDeck(cfg.Chance, rng),
		Chest:  NewDeck(cfg.Chest, rng),
		Bus:    NewDeck(cfg.Bus, rng),
		roller: roller,
		trades: make(map[string]*Trade),
	}
	for _, info := range cfg.Players {
		g.Players = append(g.Players, &Player{
			ID:       info.ID,
			Username: info.Username,
			Cash:     StartingCash,
		})
	}
	return g
}

func (g *Game) Current() *Player {
	return g.Players[g.Turn]
}

func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// requireTurn is the anti-cheat gate: every turn-bound command passes
// through it before touching state.
func (g *Game) requireTurn(pid string) (*Player, error) {
	if g.Phase == PhaseGameOver {
		return nil, ErrGameOver
	}
	p := g.PlayerByID(pid)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if p != g.Current() {
		return nil, ErrOutOfTurn
	}
	return p, nil
}

func (g *Game) requirePlayer(pid string) (*Player, error) {
	if g.Phase == PhaseGameOver {
		return nil, ErrGameOver
	}
	p := g.PlayerByID(pid)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	return p, nil
}

// Roll resolves one dice throw for the current player, including jail
// escapes, the speed die and the full landing chain.
func (g *Game) Roll(pid string) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitRoll || g.hasRolled {
		return nil, ErrIllegalPhase
	}

	roll := g.roller.Roll()

	if p.InJail {
		return g.rollInJail(p, roll)
	}

	if roll.Triples() {
		// Move-anywhere: player picks any destination, no extra roll.
		g.Phase = PhaseAwaitDestination
		g.hasRolled = true
		p.Doubles = 0
		return []Event{message("%s rolled triple %ds and may move anywhere", p.Username, roll.D1)}, nil
	}

	var events []Event
	if roll.Doubles() {
		p.Doubles++
		if p.Doubles >= 3 {
			g.hasRolled = true
			events = append(events, message("%s rolled three doubles in a row", p.Username))
			events = append(events, g.sendToJail(p)...)
			return events, nil
		}
	} else {
		p.Doubles = 0
		g.hasRolled = true
	}

	if roll.Speed == SpeedBus {
		p.BusTickets++
		events = append(events, message("%s picked up a bus ticket", p.Username))
	}

	events = append(events, message("%s rolled %d and %d", p.Username, roll.D1, roll.D2))
	events = append(events, g.moveBy(p, roll.Total())...)
	events = append(events, g.land(p, roll.Total())...)

	if roll.Speed == SpeedMover && g.Phase == PhaseAwaitRoll && !p.Bankrupt {
		if dest := g.Board.NearestUnowned(p.Pos); dest >= 0 {
			events = append(events, message("%s is carried to the nearest unowned property", p.Username))
			events = append(events, g.moveTo(p, dest)...)
			events = append(events, g.land(p, roll.Total())...)
		}
	}
	return events, nil
}

func (g *Game) rollInJail(p *Player, roll Roll) ([]Event, error) {
	var events []Event
	if roll.Doubles() {
		p.InJail = false
		p.JailTurns = 0
		g.hasRolled = true // doubles from jail grant no extra roll
		events = append(events, message("%s rolled doubles and leaves jail", p.Username))
		events = append(events, g.moveBy(p, roll.Total())...)
		events = append(events, g.land(p, roll.Total())...)
		return events, nil
	}
	p.JailTurns++
	g.hasRolled = true
	if p.JailTurns >= 3 {
		// Third failed escape forces the fine and release.
		events = append(events, message("%s pays the %d fine and leaves jail", p.Username, JailFine))
		events = append(events, g.charge(p, JailFine, nil)...)
		if p.Bankrupt {
			return events, nil
		}
		p.InJail = false
		p.JailTurns = 0
		events = append(events, g.moveBy(p, roll.Total())...)
		events = append(events, g.land(p, roll.Total())...)
		return events, nil
	}
	events = append(events, message("%s failed to roll out of jail (%d/3)", p.Username, p.JailTurns))
	return events, nil
}

// moveBy advances a player, crediting the Go bonus on wrap-around.
func (g *Game) moveBy(p *Player, dist int) []Event {
	old := p.Pos
	p.Pos = (p.Pos + dist) % g.Board.Size()
	var events []Event
	if p.Pos <= old {
		p.Cash += GoBonus
		events = append(events, message("%s passed Go and collects %d", p.Username, GoBonus))
	}
	events = append(events, positions(p))
	return events
}

// moveTo teleport-moves forward to an index, wrap rules included.
func (g *Game) moveTo(p *Player, dest int) []Event {
	dist := dest - p.Pos
	if dist <= 0 {
		dist += g.Board.Size()
	}
	return g.moveBy(p, dist)
}

// land dispatches the landing behavior of the space under the player.
func (g *Game) land(p *Player, diceTotal int) []Event {
	s := g.Board.At(p.Pos)
	switch s.Type {
	case SpaceProperty, SpaceRailroad, SpaceUtility:
		return g.landOwnable(p, s, diceTotal)
	case SpaceTax:
		events := []Event{message("%s pays %d %s", p.Username, s.Amount, s.Name)}
		return append(events, g.charge(p, s.Amount, nil)...)
	case SpaceGoToJail:
		return g.sendToJail(p)
	case SpaceChance:
		return g.drawFrom(g.Chance, p, diceTotal)
	case SpaceChest:
		return g.drawFrom(g.Chest, p, diceTotal)
	case SpaceBusTicket:
		return g.drawFrom(g.Bus, p, diceTotal)
	case SpaceBirthdayGift:
		g.Phase = PhaseAwaitGift
		g.pendingGift = p
		return []Event{message("%s landed on %s and must choose a gift", p.Username, s.Name)}
	case SpaceAuction:
		if dest := g.Board.NearestUnowned(p.Pos); dest >= 0 {
			return g.startAuction(g.Board.At(dest))
		}
		return nil
	}
	// Go, Jail (just visiting), FreeParking: nothing to resolve.
	return nil
}

func (g *Game) landOwnable(p *Player, s *Space, diceTotal int) []Event {
	if s.Owner == nil {
		if p.Cash >= s.Price {
			g.Phase = PhaseAwaitBuy
			g.pendingBuy = s
			return []Event{message("%s may buy %s for %d", p.Username, s.Name, s.Price)}
		}
		// Cannot afford: straight to auction.
		return g.startAuction(s)
	}
	if s.Owner == p {
		return nil
	}
	rent := s.CalculateRent(RentContext{Board: g.Board, DiceTotal: diceTotal})
	if rent == 0 {
		return nil
	}
	events := []Event{message("%s pays %d rent to %s", p.Username, rent, s.Owner.Username)}
	return append(events, g.charge(p, rent, s.Owner)...)
}

func (g *Game) sendToJail(p *Player) []Event {
	p.Pos = g.Board.indexOf(SpaceJail)
	p.InJail = true
	p.JailTurns = 0
	p.Doubles = 0
	g.hasRolled = true // jail ends the move chain
	return []Event{
		message("%s goes to jail", p.Username),
		positions(p),
	}
}

// Buy resolves a pending purchase offer.
func (g *Game) Buy(pid string) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitBuy || g.pendingBuy == nil {
		return nil, ErrIllegalPhase
	}
	s := g.pendingBuy
	if p.Cash < s.Price {
		return nil, ErrInsufficientFunds
	}
	p.Cash -= s.Price
	s.Owner = p
	g.pendingBuy = nil
	g.Phase = PhaseAwaitRoll
	return []Event{
		message("%s bought %s for %d", p.Username, s.Name, s.Price),
		ownership(s),
		positions(p),
	}, nil
}

// Pass declines a purchase offer, which routes the space to auction.
func (g *Game) Pass(pid string) ([]Event, error) {
	_, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitBuy || g.pendingBuy == nil {
		return nil, ErrIllegalPhase
	}
	s := g.pendingBuy
	g.pendingBuy = nil
	g.Phase = PhaseAwaitRoll
	return g.startAuction(s), nil
}

// ChooseDestination resumes the move-anywhere sub-phase. Rent and
// purchase resolution are skipped for this single move.
func (g *Game) ChooseDestination(pid string, dest int) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitDestination {
		return nil, ErrIllegalPhase
	}
	if dest < 0 || dest >= g.Board.Size() {
		return nil, ErrBadDestination
	}
	g.Phase = PhaseAwaitRoll
	events := g.moveTo(p, dest)
	return append(events, message("%s moved straight to %s", p.Username, g.Board.At(dest).Name)), nil
}

// ChooseGift resumes the birthday-gift sub-phase.
func (g *Game) ChooseGift(pid string, wantTicket bool) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitGift || g.pendingGift != p {
		return nil, ErrIllegalPhase
	}
	g.pendingGift = nil
	g.Phase = PhaseAwaitRoll
	gift := g.Board.At(p.Pos).Amount
	if wantTicket {
		p.BusTickets++
		return []Event{message("%s took a bus ticket as a gift", p.Username)}, nil
	}
	p.Cash += gift
	return []Event{message("%s took %d as a gift", p.Username, gift), positions(p)}, nil
}

// BusCandidates lists where a bus ticket can take a player: forward
// along the current side of the board, up to and including the corner.
func (g *Game) BusCandidates(pos int) []int {
	side := g.Board.Size() / 4
	var out []int
	for step := 1; step <= side; step++ {
		idx := (pos + step) % g.Board.Size()
		out = append(out, idx)
		if idx%side == 0 {
			break
		}
	}
	return out
}

// UseBusTicket spends a ticket to move without rolling. Valid before
// the roll on the holder's turn.
func (g *Game) UseBusTicket(pid string, dest int) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitRoll || g.hasRolled {
		return nil, ErrIllegalPhase
	}
	if p.BusTickets <= 0 {
		return nil, ErrIllegalPhase
	}
	valid := false
	for _, idx := range g.BusCandidates(p.Pos) {
		if idx == dest {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrBadDestination
	}
	p.BusTickets--
	g.hasRolled = true
	// Utility rent needs a dice total even when nobody rolled to get
	// there, so the ride throws the two plain dice for resolution.
	r := g.roller.Roll()
	events := []Event{message("%s rides the bus", p.Username)}
	events = append(events, g.moveTo(p, dest)...)
	return append(events, g.land(p, r.D1+r.D2)...), nil
}

// PayJail buys release before rolling.
func (g *Game) PayJail(pid string) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitRoll || g.hasRolled || !p.InJail {
		return nil, ErrIllegalPhase
	}
	if p.Cash < JailFine {
		return nil, ErrInsufficientFunds
	}
	p.Cash -= JailFine
	p.InJail = false
	p.JailTurns = 0
	return []Event{message("%s paid %d to leave jail", p.Username, JailFine), positions(p)}, nil
}

// UseJailCard spends a get-out-of-jail-free card. The card returns to
// the chance discard pile.
func (g *Game) UseJailCard(pid string) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitRoll || g.hasRolled || !p.InJail {
		return nil, ErrIllegalPhase
	}
	if p.JailCards <= 0 {
		return nil, ErrIllegalPhase
	}
	p.JailCards--
	g.Chance.Discard(Card{Text: "Get out of jail free", Action: CardJailFree})
	p.InJail = false
	p.JailTurns = 0
	return []Event{message("%s used a get out of jail free card", p.Username)}, nil
}

// EndTurn hands the turn to the next player. Rejected while any
// sub-phase is pending.
func (g *Game) EndTurn(pid string) ([]Event, error) {
	p, err := g.requireTurn(pid)
	if err != nil {
		return nil, err
	}
	if g.Phase != PhaseAwaitRoll || !g.hasRolled {
		return nil, ErrIllegalPhase
	}
	p.Doubles = 0
	g.advanceTurn()
	return []Event{turnChanged(g.Current())}, nil
}

func (g *Game) advanceTurn() {
	g.hasRolled = false
	g.Turn = (g.Turn + 1) % len(g.Players)
}

// charge debits a player, force-liquidating holdings to cover the debt
// and declaring bankruptcy when they cannot. A nil creditor is the
// bank.
func (g *Game) charge(p *Player, amount int, creditor *Player) []Event {
	p.Cash -= amount
	if creditor != nil {
		creditor.Cash += amount
	}
	var events []Event
	if p.Cash < 0 && p.Cash+g.Board.liquidValue(p) >= 0 {
		// Only fire-sale when it can actually cover the debt; a doomed
		// player's assets go back to the bank intact.
		events = append(events, g.liquidate(p)...)
	}
	if p.Cash < 0 {
		if creditor != nil {
			events = append(events, positions(creditor))
		}
		events = append(events, g.bankrupt(p)...)
	} else {
		events = append(events, positions(p))
		if creditor != nil {
			events = append(events, positions(creditor))
		}
	}
	return events
}

// liquidate sells buildings back and mortgages holdings until the
// player is solvent or nothing is left.
func (g *Game) liquidate(p *Player) []Event {
	var events []Event
	for _, s := range g.Board.Properties(p) {
		if p.Cash < 0 && s.HasDepot {
			s.HasDepot = false
			p.Cash += s.BuildCost / 2
			events = append(events, development(s))
		}
		for p.Cash < 0 && s.Level > LevelNone {
			s.Level--
			p.Cash += s.BuildCost / 2
			events = append(events, development(s))
		}
	}
	for _, s := range g.Board.Properties(p) {
		if p.Cash >= 0 {
			break
		}
		if !s.Mortgaged && s.Level == LevelNone {
			s.Mortgaged = true
			p.Cash += s.MortgageValue()
			events = append(events, ownership(s))
		}
	}
	return events
}

// bankrupt removes a player: holdings revert to the bank, the turn
// order renormalizes, and a last survivor wins the game.
func (g *Game) bankrupt(p *Player) []Event {
	events := []Event{message("%s is bankrupt", p.Username)}
	for _, s := range g.Board.Properties(p) {
		s.Owner = nil
		s.Level = LevelNone
		s.Mortgaged = false
		s.HasDepot = false
		events = append(events, ownership(s))
	}
	p.Bankrupt = true

	idx := -1
	for i, q := range g.Players {
		if q == p {
			idx = i
			break
		}
	}
	wasCurrent := idx == g.Turn
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	if idx < g.Turn {
		g.Turn--
	}
	if g.Turn >= len(g.Players) {
		g.Turn = 0
	}
	if wasCurrent {
		// Removal hands the turn to whoever now sits at the index. A
		// running auction keeps the floor until it settles.
		g.hasRolled = false
		g.pendingBuy = nil
		if g.auction == nil {
			g.Phase = PhaseAwaitRoll
		}
	}

	events = append(events, g.dropFromPending(p)...)

	if len(g.Players) == 1 {
		g.Phase = PhaseGameOver
		g.Winner = g.Players[0]
		events = append(events, Event{Type: EvtGameOver, Payload: map[string]interface{}{
			"winner": g.Winner.ID,
		}})
		return events
	}
	if wasCurrent {
		events = append(events, turnChanged(g.Current()))
	}
	return events
}

// Resign handles a disconnect or explicit forfeit: pending decisions
// involving the player resolve deterministically before removal.
func (g *Game) Resign(pid string) ([]Event, error) {
	if g.Phase == PhaseGameOver {
		return nil, ErrGameOver
	}
	p := g.PlayerByID(pid)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	var events []Event
	if g.Phase == PhaseAwaitBuy && g.pendingBuy != nil && p == g.Current() {
		// Buy offer auto-routes to auction without the leaver.
		s := g.pendingBuy
		g.pendingBuy = nil
		g.Phase = PhaseAwaitRoll
		events = append(events, g.startAuction(s)...)
	}
	events = append(events, g.rejectTradesOf(p)...)
	events = append(events, g.bankrupt(p)...)
	return events, nil
}

// dropFromPending resolves any sub-phase that was waiting on a player
// who is no longer in the game.
func (g *Game) dropFromPending(p *Player) []Event {
	var events []Event
	if g.auction != nil {
		events = append(events, g.auctionDrop(p)...)
	}
	if g.pendingGift == p {
		// Defaults to the cash gift path, minus the gift.
		g.pendingGift = nil
		if g.Phase == PhaseAwaitGift {
			g.Phase = PhaseAwaitRoll
		}
	}
	events = append(events, g.rejectTradesOf(p)...)
	return events
}
