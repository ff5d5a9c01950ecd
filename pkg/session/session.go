package session

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tycoonhq/tycoon-backend/pkg/engine"
)

// Broadcaster delivers one event to a room or to a single participant.
// The socket layer implements it; tests use a recording fake.
type Broadcaster interface {
	ToRoom(room string, event string, payload string)
	ToParticipant(room string, participant string, event string, payload string)
}

type membership struct {
	generation int // bumped on every (re)join
	attached   int // generation whose handlers are live, 0 = none
}

// Session owns the one authoritative engine of a room. Every command
// is validated and applied under one mutex, so a room never has two
// mutations in flight; separate rooms proceed independently.
type Session struct {
	Code string

	mu      sync.Mutex
	game    *engine.Game
	members map[string]*membership

	bc  Broadcaster
	log *logrus.Entry
}

func New(code string, game *engine.Game, bc Broadcaster) *Session {
	return &Session{
		Code:    code,
		game:    game,
		members: make(map[string]*membership),
		bc:      bc,
		log:     logrus.WithField("room", code),
	}
}

// Join registers a participant (or re-registers on reconnect) and
// returns the membership generation the caller must present when
// attaching handlers.
func (s *Session) Join(participant string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[participant]
	if !ok {
		m = &membership{}
		s.members[participant] = m
	}
	m.generation++
	return m.generation
}

// Attach marks a membership generation's handlers as live. Attaching
// for a stale generation is a no-op; attaching twice for the live one
// is the duplicate-subscription defect and is rejected. A fresh
// generation replaces the previous attachment, so a reconnect can
// never leave two handler sets applying the same command.
func (s *Session) Attach(participant string, generation int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[participant]
	if !ok {
		return ErrNotInRoom
	}
	if generation < m.generation {
		return ErrStaleGeneration
	}
	if m.attached == generation {
		return ErrDuplicateSubscription
	}
	m.attached = generation
	return nil
}

// Attached reports whether a given generation currently owns the
// participant's handler slot.
func (s *Session) Attached(participant string, generation int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[participant]
	return ok && m.attached == generation
}

// Snapshot returns the current read-only game view.
func (s *Session) Snapshot() engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// Empty reports whether nobody is left in the room.
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members) == 0
}

// Leave handles a disconnect: pending decisions resolve
// deterministically and the participant is removed from the game.
func (s *Session) Leave(participant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[participant]; !ok {
		return
	}
	delete(s.members, participant)
	events, err := s.game.Resign(participant)
	if err != nil {
		s.log.WithError(err).WithField("user", participant).Warn("resign on leave failed")
		return
	}
	s.emit(events)
}

// Handle validates and applies one command, then broadcasts the
// resulting events in order. On error nothing is emitted and the
// caller forwards the rejection to the issuer alone.
func (s *Session) Handle(env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[env.Participant]; !ok {
		return ErrNotInRoom
	}

	events, err := s.apply(env)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user": env.Participant,
			"type": env.Type,
		}).WithError(err).Info("command rejected")
		return err
	}
	s.emit(events)
	return nil
}

func (s *Session) apply(env Envelope) ([]engine.Event, error) {
	pid := env.Participant
	switch env.Type {
	case CmdRoll:
		return s.game.Roll(pid)
	case CmdBuy:
		return s.game.Buy(pid)
	case CmdPass:
		return s.game.Pass(pid)
	case CmdEndTurn:
		return s.game.EndTurn(pid)
	case CmdPayJail:
		return s.game.PayJail(pid)
	case CmdUseJailCard:
		return s.game.UseJailCard(pid)
	case CmdPassBid:
		return s.game.PassBid(pid)
	case CmdDevelop, CmdUndevelop, CmdMortgage, CmdUnmortgage, CmdUseBusTicket, CmdChooseDest:
		var p SpacePayload
		if err := decode(env.Payload, &p); err != nil {
			return nil, err
		}
		switch env.Type {
		case CmdDevelop:
			return s.game.Develop(pid, p.Space)
		case CmdUndevelop:
			return s.game.Undevelop(pid, p.Space)
		case CmdMortgage:
			return s.game.Mortgage(pid, p.Space)
		case CmdUnmortgage:
			return s.game.Unmortgage(pid, p.Space)
		case CmdUseBusTicket:
			return s.game.UseBusTicket(pid, p.Space)
		default:
			return s.game.ChooseDestination(pid, p.Space)
		}
	case CmdBid:
		var p BidPayload
		if err := decode(env.Payload, &p); err != nil {
			return nil, err
		}
		return s.game.Bid(pid, p.Amount)
	case CmdChooseGift:
		var p GiftPayload
		if err := decode(env.Payload, &p); err != nil {
			return nil, err
		}
		return s.game.ChooseGift(pid, p.Ticket)
	case CmdProposeTrade:
		var p TradePayload
		if err := decode(env.Payload, &p); err != nil {
			return nil, err
		}
		if p.To == "" {
			return nil, ErrBadCommand
		}
		return s.game.ProposeTrade(pid, p.To,
			engine.TradeBundle(p.Offer), engine.TradeBundle(p.Request))
	case CmdAcceptTrade, CmdRejectTrade:
		var p TradePayload
		if err := decode(env.Payload, &p); err != nil {
			return nil, err
		}
		if p.TradeID == "" {
			return nil, ErrBadCommand
		}
		if env.Type == CmdAcceptTrade {
			return s.game.AcceptTrade(pid, p.TradeID)
		}
		return s.game.RejectTrade(pid, p.TradeID)
	}
	return nil, ErrBadCommand
}

func decode(raw json.RawMessage, into interface{}) error {
	if raw == nil {
		return ErrBadCommand
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return ErrBadCommand
	}
	return nil
}

// emit broadcasts events in the exact order the engine produced them.
// Private events go only to their named participants.
func (s *Session) emit(events []engine.Event) {
	for _, e := range events {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			s.log.WithError(err).Error("event marshal failed")
			continue
		}
		if len(e.Private) > 0 {
			for _, pid := range e.Private {
				s.bc.ToParticipant(s.Code, pid, string(e.Type), string(payload))
			}
			continue
		}
		s.bc.ToRoom(s.Code, string(e.Type), string(payload))
	}
}
