package socket

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/tycoonhq/tycoon-backend/app/models"
	"github.com/tycoonhq/tycoon-backend/pkg/engine"
	"github.com/tycoonhq/tycoon-backend/pkg/session"
	"github.com/tycoonhq/tycoon-backend/platform/board"
	"github.com/tycoonhq/tycoon-backend/platform/cache"
	"github.com/tycoonhq/tycoon-backend/platform/database"
	"github.com/tycoonhq/tycoon-backend/platform/queries"
)

// clientLink pins one participant of one room to exactly one live
// socket and its membership generation. Reconnects replace the link;
// a second subscription attempt from the same socket is rejected
// instead of silently doubling the handlers.
type clientLink struct {
	sid        string
	conn       socketio.Conn
	generation int
}

type gameServer struct {
	io *socketio.Server

	mu    sync.Mutex
	links map[string]map[string]*clientLink // room -> user -> link
}

// ToRoom broadcasts one event to every client of a room.
func (gs *gameServer) ToRoom(room, event, payload string) {
	gs.io.BroadcastToRoom("/", room, event, payload)
}

// ToParticipant delivers a private event (trade traffic) to one
// participant only.
func (gs *gameServer) ToParticipant(room, participant, event, payload string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if users, ok := gs.links[room]; ok {
		if link, ok := users[participant]; ok {
			link.conn.Emit(event, payload)
		}
	}
}

func (gs *gameServer) link(room, user string) (*clientLink, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	users, ok := gs.links[room]
	if !ok {
		return nil, false
	}
	l, ok := users[user]
	return l, ok
}

func (gs *gameServer) setLink(room, user string, l *clientLink) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.links[room] == nil {
		gs.links[room] = make(map[string]*clientLink)
	}
	gs.links[room][user] = l
}

func (gs *gameServer) dropLink(room, user string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if users, ok := gs.links[room]; ok {
		delete(users, user)
		if len(users) == 0 {
			delete(gs.links, room)
		}
	}
}

// userBySid finds which participant of a room a socket id belongs to.
func (gs *gameServer) userBySid(room, sid string) (string, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	for user, link := range gs.links[room] {
		if link.sid == sid {
			return user, true
		}
	}
	return "", false
}

func CreateSocketIOServer(registry *session.Registry) {
	server, err := socketio.NewServer(nil)
	if err != nil {
		panic(err)
	}

	layout, err := board.Load(board.Dir())
	if err != nil {
		logrus.WithError(err).Fatal("board layout load failed")
	}

	gs := &gameServer{
		io:    server,
		links: make(map[string]map[string]*clientLink),
	}

	db := database.PostgreSQLConnection()
	defer db.Close()

	pool := cache.CreateRedisPool()
	defer pool.Close()

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		return nil
	})

	server.OnEvent("/", "join-game", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		room, user := result["game_id"], result["user_id"]
		if room == "" || user == "" {
			reject(s, "game_id and user_id are required")
			return
		}
		if !queries.VerifyGame(room, db) {
			reject(s, "Invalid game")
			return
		}

		conn := pool.Get()
		defer conn.Close()

		if sess, err := registry.Get(room); err == nil {
			// Game already running: reconnect path.
			if prev, ok := gs.link(room, user); ok && prev.sid == s.ID() {
				// Same socket subscribing twice is the duplicate-handler
				// defect; refuse instead of double-applying commands.
				if err := sess.Attach(user, prev.generation); err != nil {
					reject(s, err.Error())
					return
				}
			}
			gen := sess.Join(user)
			if err := sess.Attach(user, gen); err != nil {
				reject(s, err.Error())
				return
			}
			gs.setLink(room, user, &clientLink{sid: s.ID(), conn: s, generation: gen})
			s.Join(room)
			emitSnapshot(s, sess)
			return
		}

		// Lobby path. A room flagged live in Redis but absent from the
		// registry belongs to a previous process; nobody new may join it.
		if queries.IsLive(room, conn) {
			reject(s, "Game already in progress")
			return
		}
		userRow, err := queries.GetUserData(user, db)
		if err != nil {
			reject(s, "User retrieval failed")
			return
		}
		err = queries.CreatePlayer(models.Player{
			Game_id:  room,
			User_id:  user,
			Username: userRow.Email,
		}, db, conn)
		if err != nil {
			reject(s, "Failed creating player")
			return
		}

		gs.setLink(room, user, &clientLink{sid: s.ID(), conn: s})
		s.Join(room)
		server.BroadcastToRoom("/", room, "player-join", userRow.Email)
		logrus.WithFields(logrus.Fields{"room": room, "user": user}).Info("player joined")
	})

	server.OnEvent("/", "leave-game", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		room, user := result["game_id"], result["user_id"]

		conn := pool.Get()
		defer conn.Close()

		s.Leave(room)
		gs.dropLink(room, user)
		registry.Leave(room, user)
		queries.RemovePlayer(user, room, db, conn)
		server.BroadcastToRoom("/", room, "player-left", user)
	})

	server.OnEvent("/", "start-game", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		room, user := result["game_id"], result["user_id"]

		game, err := queries.GetGame(room, db)
		if err != nil {
			reject(s, "Invalid game")
			return
		}
		if game.Host != user {
			reject(s, "Only the host can start the game")
			return
		}

		conn := pool.Get()
		defer conn.Close()

		roster, err := queries.Roster(room, db, conn)
		if err != nil || len(roster) < 2 {
			reject(s, "Unable to start game")
			return
		}

		var infos []engine.PlayerInfo
		for _, p := range roster {
			infos = append(infos, engine.PlayerInfo{ID: p.User_id, Username: p.Username})
		}
		g := engine.NewGame(engine.Config{
			Spaces:  layout.Spaces,
			Chance:  layout.Chance,
			Chest:   layout.Chest,
			Bus:     layout.Bus,
			Players: infos,
			Seed:    time.Now().UnixNano(),
		})
		sess, err := registry.Create(room, g, gs)
		if err != nil {
			reject(s, "Game already started")
			return
		}
		for _, p := range roster {
			gen := sess.Join(p.User_id)
			sess.Attach(p.User_id, gen)
			gs.mu.Lock()
			if link, ok := gs.links[room][p.User_id]; ok {
				link.generation = gen
			}
			gs.mu.Unlock()
		}
		queries.MarkInProgress(room, db, conn)

		snap, _ := json.Marshal(sess.Snapshot())
		server.BroadcastToRoom("/", room, "game-start", string(snap))
		turn, _ := json.Marshal(map[string]string{"player": g.Current().ID})
		server.BroadcastToRoom("/", room, "turn-changed", string(turn))
		logrus.WithField("room", room).Info("game started")
	})

	server.OnEvent("/", "command", func(s socketio.Conn, jsonStr string) {
		var env session.Envelope
		if err := json.Unmarshal([]byte(jsonStr), &env); err != nil {
			reject(s, session.ErrBadCommand.Error())
			return
		}
		if env.Room == "" || env.Participant == "" || env.Type == "" {
			reject(s, session.ErrBadCommand.Error())
			return
		}
		link, ok := gs.link(env.Room, env.Participant)
		if !ok || link.sid != s.ID() {
			// Command from a socket that no longer owns the membership.
			reject(s, session.ErrDuplicateSubscription.Error())
			return
		}
		sess, err := registry.Get(env.Room)
		if err != nil {
			reject(s, err.Error())
			return
		}
		if err := sess.Handle(env); err != nil {
			reject(s, err.Error())
		}
	})

	server.OnEvent("/", "get-state", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		if sess, err := registry.Get(result["game_id"]); err == nil {
			emitSnapshot(s, sess)
		}
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		logrus.WithError(e).Warn("socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		conn := pool.Get()
		defer conn.Close()
		for _, room := range s.Rooms() {
			user, ok := gs.userBySid(room, s.ID())
			if !ok {
				continue
			}
			gs.dropLink(room, user)
			registry.Leave(room, user)
			queries.RemovePlayer(user, room, db, conn)
			server.BroadcastToRoom("/", room, "player-left", user)
		}
		s.LeaveAll()
	})

	go server.Serve()
	defer server.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{corsOrigin()},
		AllowCredentials: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	http.ListenAndServe(":8000", c.Handler(mux))
}

func reject(s socketio.Conn, reason string) {
	payload, _ := json.Marshal(session.Rejection{Reason: reason})
	s.Emit("rejection", string(payload))
}

func emitSnapshot(s socketio.Conn, sess *session.Session) {
	snap, err := json.Marshal(sess.Snapshot())
	if err != nil {
		return
	}
	s.Emit("game-state", string(snap))
}

func corsOrigin() string {
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:3000"
}
