package session

import (
	"encoding/json"
	"testing"

	"github.com/tycoonhq/tycoon-backend/pkg/engine"
)

type recorded struct {
	room    string
	user    string
	event   string
	payload string
}

type fakeBroadcaster struct {
	room    []recorded
	private []recorded
}

func (f *fakeBroadcaster) ToRoom(room, event, payload string) {
	f.room = append(f.room, recorded{room: room, event: event, payload: payload})
}

func (f *fakeBroadcaster) ToParticipant(room, participant, event, payload string) {
	f.private = append(f.private, recorded{room: room, user: participant, event: event, payload: payload})
}

func (f *fakeBroadcaster) countRoom(event string) int {
	n := 0
	for _, r := range f.room {
		if r.event == event {
			n++
		}
	}
	return n
}

type fixedRoller struct {
	roll engine.Roll
}

func (f fixedRoller) Roll() engine.Roll { return f.roll }

func testSpaces() []engine.SpaceConfig {
	return []engine.SpaceConfig{
		{Name: "Go", Type: engine.SpaceGo, Amount: 200},
		{Name: "Harbor Lane", Type: engine.SpaceProperty, Group: "brown", Price: 60, Rent: []int{2, 10, 30, 90, 160, 250}, BuildCost: 50},
		{Name: "Dock Street", Type: engine.SpaceProperty, Group: "brown", Price: 60, Rent: []int{2, 10, 30, 90, 160, 250}, BuildCost: 50},
		{Name: "Income Tax", Type: engine.SpaceTax, Amount: 100},
		{Name: "Jail", Type: engine.SpaceJail},
		{Name: "Mill Road", Type: engine.SpaceProperty, Group: "lightblue", Price: 100, Rent: []int{6, 30, 90, 270, 400, 550}, BuildCost: 50},
		{Name: "North Station", Type: engine.SpaceRailroad, Price: 200},
		{Name: "Free Parking", Type: engine.SpaceFreeParking},
	}
}

func newTestSession(roll engine.Roll, ids ...string) (*Session, *fakeBroadcaster) {
	var infos []engine.PlayerInfo
	for _, id := range ids {
		infos = append(infos, engine.PlayerInfo{ID: id, Username: id})
	}
	g := engine.NewGame(engine.Config{
		Spaces:  testSpaces(),
		Players: infos,
		Roller:  fixedRoller{roll: roll},
		Seed:    1,
	})
	bc := &fakeBroadcaster{}
	s := New("ROOM1", g, bc)
	for _, id := range ids {
		gen := s.Join(id)
		if err := s.Attach(id, gen); err != nil {
			panic(err)
		}
	}
	return s, bc
}

func env(user, typ string, payload interface{}) Envelope {
	e := Envelope{Room: "ROOM1", Participant: user, Type: typ}
	if payload != nil {
		raw, _ := json.Marshal(payload)
		e.Payload = raw
	}
	return e
}

func TestHandleRejectsOutOfTurnWithoutEvents(t *testing.T) {
	s, bc := newTestSession(engine.Roll{D1: 1, D2: 2, Speed: engine.SpeedBus}, "a", "b")

	if err := s.Handle(env("b", CmdRoll, nil)); err != engine.ErrOutOfTurn {
		t.Fatalf("err = %v, want ErrOutOfTurn", err)
	}
	if len(bc.room)+len(bc.private) != 0 {
		t.Fatalf("rejected command emitted %d events", len(bc.room)+len(bc.private))
	}
}

func TestHandleRejectsMalformedCommands(t *testing.T) {
	s, _ := newTestSession(engine.Roll{D1: 1, D2: 2, Speed: engine.SpeedBus}, "a", "b")

	tests := []struct {
		name string
		env  Envelope
	}{
		{name: "unknown type", env: env("a", "teleport", nil)},
		{name: "missing payload", env: env("a", CmdDevelop, nil)},
		{name: "trade without target", env: env("a", CmdProposeTrade, TradePayload{})},
		{name: "accept without id", env: env("a", CmdAcceptTrade, TradePayload{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Handle(tt.env); err != ErrBadCommand {
				t.Fatalf("err = %v, want ErrBadCommand", err)
			}
		})
	}
}

func TestHandleRejectsStrangers(t *testing.T) {
	s, _ := newTestSession(engine.Roll{D1: 1, D2: 2, Speed: engine.SpeedBus}, "a", "b")
	if err := s.Handle(env("ghost", CmdRoll, nil)); err != ErrNotInRoom {
		t.Fatalf("err = %v, want ErrNotInRoom", err)
	}
}

func TestRollAfterReconnectEmitsPositionsOnce(t *testing.T) {
	s, bc := newTestSession(engine.Roll{D1: 1, D2: 3, Speed: engine.SpeedBus}, "a", "b")

	// Reconnect: a new generation replaces the old subscription.
	gen2 := s.Join("a")
	if err := s.Attach("a", gen2); err != nil {
		t.Fatalf("reattach after reconnect: %v", err)
	}
	if s.Attached("a", gen2-1) {
		t.Fatal("stale generation still attached")
	}

	if err := s.Handle(env("a", CmdRoll, nil)); err != nil {
		t.Fatalf("roll: %v", err)
	}
	// A second roll (e.g. replayed by a stale connection) is rejected
	// and emits nothing.
	if err := s.Handle(env("a", CmdRoll, nil)); err != engine.ErrIllegalPhase {
		t.Fatalf("second roll err = %v, want ErrIllegalPhase", err)
	}
	if n := bc.countRoom(string(engine.EvtPositions)); n != 1 {
		t.Fatalf("positions-updated emitted %d times, want 1", n)
	}
}

func TestAttachGuards(t *testing.T) {
	s, _ := newTestSession(engine.Roll{D1: 1, D2: 2, Speed: engine.SpeedBus}, "a", "b")

	gen := s.Join("a")
	if err := s.Attach("a", gen); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := s.Attach("a", gen); err != ErrDuplicateSubscription {
		t.Fatalf("duplicate attach err = %v, want ErrDuplicateSubscription", err)
	}
	gen2 := s.Join("a")
	if err := s.Attach("a", gen); err != ErrStaleGeneration {
		t.Fatalf("stale attach err = %v, want ErrStaleGeneration", err)
	}
	if err := s.Attach("a", gen2); err != nil {
		t.Fatalf("fresh attach err = %v", err)
	}
	if err := s.Attach("stranger", 1); err != ErrNotInRoom {
		t.Fatalf("stranger attach err = %v, want ErrNotInRoom", err)
	}
}

func TestEventsBroadcastInOrder(t *testing.T) {
	// 1+3 lands on Jail (index 4): one message then one position
	// update, in engine order.
	s, bc := newTestSession(engine.Roll{D1: 1, D2: 3, Speed: engine.SpeedBus}, "a", "b")
	if err := s.Handle(env("a", CmdRoll, nil)); err != nil {
		t.Fatalf("roll: %v", err)
	}
	if len(bc.room) < 2 {
		t.Fatalf("want at least 2 events, got %d", len(bc.room))
	}
	if bc.room[0].event != string(engine.EvtMessage) {
		t.Fatalf("first event = %s, want game-message", bc.room[0].event)
	}
	last := bc.room[len(bc.room)-1]
	if last.event != string(engine.EvtPositions) {
		t.Fatalf("last event = %s, want positions-updated", last.event)
	}
}

func TestTradeEventsStayPrivate(t *testing.T) {
	s, bc := newTestSession(engine.Roll{D1: 1, D2: 2, Speed: engine.SpeedBus}, "a", "b", "c")

	payload := TradePayload{To: "b", Offer: BundleShape{Cash: 100}}
	if err := s.Handle(env("a", CmdProposeTrade, payload)); err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(bc.room) != 0 {
		t.Fatalf("trade-proposed leaked to the room: %+v", bc.room)
	}
	if len(bc.private) != 2 {
		t.Fatalf("trade-proposed delivered to %d participants, want 2", len(bc.private))
	}
	for _, r := range bc.private {
		if r.user != "a" && r.user != "b" {
			t.Fatalf("trade-proposed delivered to %s", r.user)
		}
	}
}

func TestLeaveDuringBuyOfferRoutesToAuction(t *testing.T) {
	s, bc := newTestSession(engine.Roll{D1: 2, D2: 3, Speed: engine.SpeedBus}, "a", "b")
	if err := s.Handle(env("a", CmdRoll, nil)); err != nil {
		t.Fatalf("roll: %v", err)
	}
	// a lands on Mill Road (5) and disconnects holding the buy offer.
	s.Leave("a")

	if bc.countRoom(string(engine.EvtAuctionStarted)) != 1 {
		t.Fatal("buy offer did not route to auction on disconnect")
	}
	if bc.countRoom(string(engine.EvtGameOver)) != 1 {
		t.Fatal("last remaining player did not win")
	}
	snap := s.Snapshot()
	if snap.Winner != "b" {
		t.Fatalf("winner = %q, want b", snap.Winner)
	}
}

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry()
	g := engine.NewGame(engine.Config{
		Spaces:  testSpaces(),
		Players: []engine.PlayerInfo{{ID: "a"}, {ID: "b"}},
		Seed:    1,
	})
	bc := &fakeBroadcaster{}

	s, err := reg.Create("R1", g, bc)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := reg.Create("R1", g, bc); err != ErrRoomExists {
		t.Fatalf("duplicate create err = %v, want ErrRoomExists", err)
	}
	got, err := reg.Get("R1")
	if err != nil || got != s {
		t.Fatalf("get = %v, %v", got, err)
	}
	if _, err := reg.Get("nope"); err != ErrRoomNotFound {
		t.Fatalf("missing room err = %v, want ErrRoomNotFound", err)
	}

	s.Join("a")
	s.Join("b")
	reg.Leave("R1", "a")
	reg.Leave("R1", "b")
	if _, err := reg.Get("R1"); err != ErrRoomNotFound {
		t.Fatal("empty room was not destroyed")
	}
}
