package models

// Player is one roster row: a user sitting in a room. Live game state
// (cash, position, holdings) belongs to the rule engine, not here.
type Player struct {
	User_id  string `json:"user_id"`
	Game_id  string `json:"game_id"`
	Username string `json:"username"`
}
