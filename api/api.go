package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress string) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName: "Atma Chethana Counselling API",
		}),
		listenAddress: listenAddress,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}

func (s *APIServer) Run() error {
	log.Printf("Starting API server, listening on %s", s.listenAddress)

	return s.app.Listen(s.listenAddress)
}
