package engine

import "math/rand"

type CardAction string

const (
	CardCollect       CardAction = "collect" // bank pays Amount
	CardPay           CardAction = "pay"     // player pays Amount to bank
	CardAdvance       CardAction = "advance" // move Amount spaces forward
	CardMoveTo        CardAction = "move-to" // move to board index Amount, Go bonus on wrap
	CardGoToJail      CardAction = "go-jail" // straight to jail
	CardJailFree      CardAction = "jail-free"
	CardBusTicket     CardAction = "bus-ticket"
	CardExpireTickets CardAction = "expire-tickets" // every player loses all bus tickets
	CardCollectEach   CardAction = "collect-each"   // every other player pays Amount
	CardPayEach       CardAction = "pay-each"       // pay Amount to every other player
	CardRepairs       CardAction = "repairs"        // pay Amount per development level held
)

// Card is an immutable effect descriptor. The engine interprets Action
// when the card is drawn.
type Card struct {
	Text   string     `json:"text"`
	Action CardAction `json:"action"`
	Amount int        `json:"amount"`
}

// Deck is a draw pile plus a discard pile. Drawn cards are discarded by
// the caller once applied; when the draw pile runs out, the discard
// pile is reshuffled back in, so no card is ever duplicated or lost.
type Deck struct {
	draw    []Card
	discard []Card
	rng     *rand.Rand
}

func NewDeck(cards []Card, rng *rand.Rand) *Deck {
	d := &Deck{
		draw: append([]Card(nil), cards...),
		rng:  rng,
	}
	d.shuffle()
	return d
}

// Fisher-Yates over the draw pile.
func (d *Deck) shuffle() {
	for i := len(d.draw) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	}
}

func (d *Deck) Draw() (Card, bool) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return Card{}, false
		}
		d.draw = d.discard
		d.discard = nil
		d.shuffle()
	}
	card := d.draw[0]
	d.draw = d.draw[1:]
	return card, true
}

func (d *Deck) Discard(c Card) {
	d.discard = append(d.discard, c)
}

// Size counts both piles.
func (d *Deck) Size() int {
	return len(d.draw) + len(d.discard)
}
