package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fourmaq/nfe-robot/internal/application/dispatch"
)

// RouterDeps dependências dos handlers de observabilidade.
type RouterDeps struct {
	AppName    string
	Dispatcher *dispatch.Dispatcher
}

// Router registra as rotas do servidor de observabilidade. O robô não expõe
// API de negócio: o HTTP existe para health check e acompanhamento dos ciclos.
func Router(app *fiber.App, deps RouterDeps) {
	h := newStatusHandler(deps.AppName, deps.Dispatcher)

	app.Get("/health", h.Health)
	app.Get("/status", h.Status)
}
