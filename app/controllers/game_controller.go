package controllers

import (
	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/tycoonhq/tycoon-backend/app/models"
	"github.com/tycoonhq/tycoon-backend/pkg"
	"github.com/tycoonhq/tycoon-backend/platform/database"
)

// CreateGame opens a room and returns its short code. The creator is
// recorded as host; only the host may start the game.
func CreateGame(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	gameCreateDto := new(models.GameCreateDto)
	if err := c.BodyParser(gameCreateDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	host, _ := claims["user_id"].(string)

	game := &models.Game{
		Id:     pkg.RandString(8),
		Name:   gameCreateDto.Name,
		Status: models.GameOpen,
		Host:   host,
	}
	if _, err := db.Model(game).Insert(); err != nil {
		logrus.WithError(err).Error("game insert failed")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(fiber.Map{"id": game.Id})
}

// GetAllAvailGames lists rooms still waiting for players.
func GetAllAvailGames(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	var games []models.Game
	if err := db.Model(&games).Where("status = ?", models.GameOpen).Select(); err != nil {
		logrus.WithError(err).Error("game listing failed")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(games)
}

// VerifyGame reports whether a room code refers to a joinable room.
func VerifyGame(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	verifyGameDto := new(models.VerifyGameDto)
	if err := c.QueryParser(verifyGameDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	game := &models.Game{Id: verifyGameDto.Code}
	if err := db.Model(game).WherePK().Select(); err != nil {
		return c.JSON(fiber.Map{"status": false})
	}
	return c.JSON(fiber.Map{"status": game.Status == models.GameOpen})
}
