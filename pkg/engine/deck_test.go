package engine

import (
	"math/rand"
	"testing"
)

func TestDeckReshufflesDiscardOnExhaustion(t *testing.T) {
	cards := []Card{
		{Text: "a", Action: CardCollect, Amount: 10},
		{Text: "b", Action: CardPay, Amount: 10},
		{Text: "c", Action: CardCollect, Amount: 20},
		{Text: "d", Action: CardPay, Amount: 20},
	}
	d := NewDeck(cards, rand.New(rand.NewSource(1)))

	seen := make(map[string]int)
	for i := 0; i < len(cards)+1; i++ {
		card, ok := d.Draw()
		if !ok {
			t.Fatalf("draw %d failed, want a card after reshuffle", i+1)
		}
		seen[card.Text]++
		d.Discard(card)
	}

	if d.Size() != len(cards) {
		t.Fatalf("deck size = %d after draws, want %d", d.Size(), len(cards))
	}
	total := 0
	for _, n := range seen {
		total += n
	}
	if total != len(cards)+1 {
		t.Fatalf("drew %d cards, want %d", total, len(cards)+1)
	}
	// First pass must have yielded each card exactly once.
	for _, c := range cards {
		if seen[c.Text] == 0 {
			t.Fatalf("card %q was dropped across the reshuffle", c.Text)
		}
	}
}

func TestDeckEmptyWithoutDiscard(t *testing.T) {
	d := NewDeck(nil, rand.New(rand.NewSource(1)))
	if _, ok := d.Draw(); ok {
		t.Fatal("draw from empty deck succeeded")
	}
}
