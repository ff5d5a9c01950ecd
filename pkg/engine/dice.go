package engine

import "math/rand"

// SpeedFace is the third die. Numeric faces add to the move distance,
// the bus face grants a bus ticket and the mover face sends the player
// to the nearest unowned ownable space.
type SpeedFace int

const (
	SpeedOne   SpeedFace = 1
	SpeedTwo   SpeedFace = 2
	SpeedThree SpeedFace = 3
	SpeedBus   SpeedFace = -1
	SpeedMover SpeedFace = -2
)

type Roll struct {
	D1, D2 int
	Speed  SpeedFace
}

func (r Roll) Doubles() bool {
	return r.D1 == r.D2
}

// Triples is the "move anywhere" match: both dice and a numeric speed
// face all showing the same value.
func (r Roll) Triples() bool {
	return r.Doubles() && int(r.Speed) == r.D1
}

// Total is the numeric move distance. Non-numeric speed faces
// contribute nothing.
func (r Roll) Total() int {
	total := r.D1 + r.D2
	if r.Speed > 0 {
		total += int(r.Speed)
	}
	return total
}

type Roller interface {
	Roll() Roll
}

type randRoller struct {
	rng *rand.Rand
}

func NewRoller(seed int64) Roller {
	return &randRoller{rng: rand.New(rand.NewSource(seed))}
}

var speedFaces = [6]SpeedFace{SpeedOne, SpeedTwo, SpeedThree, SpeedBus, SpeedBus, SpeedMover}

func (r *randRoller) Roll() Roll {
	return Roll{
		D1:    r.rng.Intn(6) + 1,
		D2:    r.rng.Intn(6) + 1,
		Speed: speedFaces[r.rng.Intn(6)],
	}
}
