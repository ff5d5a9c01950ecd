package queries

import (
	"fmt"

	"github.com/go-pg/pg/v10"
	"github.com/gomodule/redigo/redis"
	"github.com/sirupsen/logrus"
	"github.com/tycoonhq/tycoon-backend/app/models"
	"github.com/tycoonhq/tycoon-backend/platform/cache"
)

// Room bookkeeping shared between the HTTP controllers and the socket
// layer: Postgres holds the durable rows (users, games, roster),
// Redis holds the join order and the live flag.

func VerifyGame(id string, db *pg.DB) bool {
	game := &models.Game{Id: id}
	return db.Model(game).WherePK().Select() == nil
}

func GetGame(id string, db *pg.DB) (*models.Game, error) {
	game := &models.Game{Id: id}
	if err := db.Model(game).WherePK().Select(); err != nil {
		return nil, err
	}
	return game, nil
}

func GetUserData(userID string, db *pg.DB) (*models.User, error) {
	user := &models.User{Id: userID}
	if err := db.Model(user).WherePK().Select(); err != nil {
		return nil, err
	}
	return user, nil
}

func CreatePlayer(player models.Player, db *pg.DB, conn redis.Conn) error {
	if _, err := db.Model(&player).Insert(); err != nil {
		return err
	}
	return cache.RPush(conn, orderKey(player.Game_id), player.User_id)
}

func RemovePlayer(userID, gameID string, db *pg.DB, conn redis.Conn) error {
	player := new(models.Player)
	if _, err := db.Model(player).
		Where("user_id = ? and game_id = ?", userID, gameID).Delete(); err != nil {
		return err
	}
	if err := cache.LRem(conn, orderKey(gameID), userID); err != nil {
		return err
	}
	left, err := cache.LLen(conn, orderKey(gameID))
	if err == nil && left == 0 {
		CleanUp(gameID, db, conn)
	}
	return nil
}

// Roster returns the room's players in join order.
func Roster(gameID string, db *pg.DB, conn redis.Conn) ([]models.Player, error) {
	order, err := cache.LRange(conn, orderKey(gameID))
	if err != nil {
		return nil, err
	}
	var rows []models.Player
	if err := db.Model(&rows).Where("game_id = ?", gameID).Select(); err != nil {
		return nil, err
	}
	byID := make(map[string]models.Player, len(rows))
	for _, row := range rows {
		byID[row.User_id] = row
	}
	var players []models.Player
	for _, id := range order {
		if p, ok := byID[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

// MarkInProgress flips the room out of the open-games listing.
func MarkInProgress(gameID string, db *pg.DB, conn redis.Conn) error {
	game := &models.Game{Id: gameID}
	if _, err := db.Model(game).WherePK().
		Set("status = ?", models.GameInProgress).Update(); err != nil {
		return err
	}
	return cache.Set(conn, liveKey(gameID), "1")
}

func IsLive(gameID string, conn redis.Conn) bool {
	val, err := cache.Get(conn, liveKey(gameID))
	return err == nil && val == "1"
}

// CleanUp drops every trace of a room from both stores.
func CleanUp(gameID string, db *pg.DB, conn redis.Conn) {
	player := new(models.Player)
	game := new(models.Game)
	if _, err := db.Model(player).Where("game_id = ?", gameID).Delete(); err != nil {
		logrus.WithError(err).WithField("room", gameID).Warn("player cleanup failed")
	}
	if _, err := db.Model(game).Where("id = ?", gameID).Delete(); err != nil {
		logrus.WithError(err).WithField("room", gameID).Warn("game cleanup failed")
	}
	if err := cache.Del(conn, orderKey(gameID), liveKey(gameID)); err != nil {
		logrus.WithError(err).WithField("room", gameID).Warn("redis cleanup failed")
	}
}

func orderKey(gameID string) string {
	return fmt.Sprintf("%s.order", gameID)
}

func liveKey(gameID string) string {
	return fmt.Sprintf("%s.live", gameID)
}
