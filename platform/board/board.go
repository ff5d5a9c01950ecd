package board

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/tycoonhq/tycoon-backend/pkg/engine"
)

// Layout is everything a session needs from disk: the ordered space
// descriptors plus the three decks. Loaded once at session creation
// and immutable for the game's lifetime.
type Layout struct {
	Spaces []engine.SpaceConfig
	Chance []engine.Card
	Chest  []engine.Card
	Bus    []engine.Card
}

// Dir resolves the board data directory, BOARD_DIR env or the default.
func Dir() string {
	if dir := os.Getenv("BOARD_DIR"); dir != "" {
		return dir
	}
	return "platform/board"
}

func Load(dir string) (*Layout, error) {
	var layout Layout
	if err := readJSON(filepath.Join(dir, "board.json"), &layout.Spaces); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "chance.json"), &layout.Chance); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "chest.json"), &layout.Chest); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "bus.json"), &layout.Bus); err != nil {
		return nil, err
	}
	return &layout, nil
}

func readJSON(path string, into interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, into)
}
