package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/tycoonhq/tycoon-backend/app/controllers"
	"github.com/tycoonhq/tycoon-backend/pkg/routes"
	"github.com/tycoonhq/tycoon-backend/pkg/session"
	"github.com/tycoonhq/tycoon-backend/platform/logging"
	socket "github.com/tycoonhq/tycoon-backend/platform/sockets"
)

func main() {
	logging.Init()

	app := fiber.New()
	app.Use(cors.New())

	routes.AuthRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: controllers.JWTSecret(),
	}))

	app.Get("/user/cur", controllers.Cur)
	routes.GameRoutes(app)

	registry := session.NewRegistry()
	go socket.CreateSocketIOServer(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4101"
	}
	app.Listen(":" + port)
}
