package models

// Game is one room row. Status moves open -> in progress and the row
// is deleted when the room dies.
type Game struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Host   string `json:"host"`
}

const (
	GameOpen       = "open"
	GameInProgress = "in progress"
)

type GameCreateDto struct {
	Name string `json:"name"`
}

type VerifyGameDto struct {
	Code string `query:"code"`
}
