package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tycoonhq/tycoon-backend/app/controllers"
)

// GameRoutes are JWT-protected; registered after the auth middleware.
func GameRoutes(a *fiber.App) {
	route := a.Group("/game")

	route.Post("/create", controllers.CreateGame)
	route.Get("/verify", controllers.VerifyGame)
	route.Get("/all", controllers.GetAllAvailGames)
}
