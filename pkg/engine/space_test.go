package engine

import "testing"

// rentBoard builds one color group of three plus railroads and
// utilities to exercise every rent tier.
func rentBoard() *Board {
	return NewBoard([]SpaceConfig{
		{Name: "Go", Type: SpaceGo},
		{Name: "P1", Type: SpaceProperty, Group: "red", Price: 100, Rent: []int{2, 10, 30, 90, 160, 250, 350}, BuildCost: 50},
		{Name: "P2", Type: SpaceProperty, Group: "red", Price: 100, Rent: []int{2, 10, 30, 90, 160, 250, 350}, BuildCost: 50},
		{Name: "P3", Type: SpaceProperty, Group: "red", Price: 120, Rent: []int{4, 20, 60, 180, 320, 450, 600}, BuildCost: 50},
		{Name: "R1", Type: SpaceRailroad, Price: 200},
		{Name: "R2", Type: SpaceRailroad, Price: 200},
		{Name: "R3", Type: SpaceRailroad, Price: 200},
		{Name: "R4", Type: SpaceRailroad, Price: 200},
		{Name: "U1", Type: SpaceUtility, Price: 150},
		{Name: "U2", Type: SpaceUtility, Price: 150},
		{Name: "U3", Type: SpaceUtility, Price: 150},
	})
}

func TestPropertyRentMultipliers(t *testing.T) {
	owner := &Player{ID: "a"}

	tests := []struct {
		name  string
		owned []int // indexes given to owner
		level DevLevel
		want  int
	}{
		{name: "base rent with one of group", owned: []int{1}, want: 2},
		{name: "all but one doubles", owned: []int{1, 2}, want: 4},
		{name: "full group triples undeveloped", owned: []int{1, 2, 3}, want: 6},
		{name: "one house uses schedule", owned: []int{1, 2, 3}, level: LevelOne, want: 10},
		{name: "four houses", owned: []int{1, 2, 3}, level: LevelFour, want: 160},
		{name: "hotel", owned: []int{1, 2, 3}, level: LevelHotel, want: 250},
		{name: "skyscraper", owned: []int{1, 2, 3}, level: LevelSkyscraper, want: 350},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := rentBoard()
			for _, idx := range tt.owned {
				b.At(idx).Owner = owner
			}
			b.At(1).Level = tt.level
			got := b.At(1).CalculateRent(RentContext{Board: b})
			if got != tt.want {
				t.Fatalf("rent = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRailroadRent(t *testing.T) {
	owner := &Player{ID: "a"}
	tests := []struct {
		owned int
		depot bool
		want  int
	}{
		{owned: 1, want: 25},
		{owned: 2, want: 50},
		{owned: 3, want: 100},
		{owned: 4, want: 200},
		{owned: 2, depot: true, want: 100},
	}
	for _, tt := range tests {
		b := rentBoard()
		for i := 0; i < tt.owned; i++ {
			b.At(4 + i).Owner = owner
		}
		b.At(4).HasDepot = tt.depot
		got := b.At(4).CalculateRent(RentContext{Board: b})
		if got != tt.want {
			t.Fatalf("railroad rent with %d owned (depot=%v) = %d, want %d",
				tt.owned, tt.depot, got, tt.want)
		}
	}
}

func TestUtilityRent(t *testing.T) {
	owner := &Player{ID: "a"}
	tests := []struct {
		owned int
		dice  int
		want  int
	}{
		{owned: 1, dice: 7, want: 28},
		{owned: 2, dice: 7, want: 70},
		{owned: 3, dice: 7, want: 140},
	}
	for _, tt := range tests {
		b := rentBoard()
		for i := 0; i < tt.owned; i++ {
			b.At(8 + i).Owner = owner
		}
		got := b.At(8).CalculateRent(RentContext{Board: b, DiceTotal: tt.dice})
		if got != tt.want {
			t.Fatalf("utility rent with %d owned = %d, want %d", tt.owned, got, tt.want)
		}
	}
}

func TestMortgagedSpaceChargesNothing(t *testing.T) {
	b := rentBoard()
	owner := &Player{ID: "a"}
	b.At(1).Owner = owner
	b.At(1).Mortgaged = true
	if got := b.At(1).CalculateRent(RentContext{Board: b}); got != 0 {
		t.Fatalf("mortgaged rent = %d, want 0", got)
	}
}
