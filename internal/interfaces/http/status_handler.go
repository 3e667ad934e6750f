package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fourmaq/nfe-robot/internal/application/dispatch"
)

type statusHandler struct {
	appName    string
	dispatcher *dispatch.Dispatcher
}

func newStatusHandler(appName string, dispatcher *dispatch.Dispatcher) *statusHandler {
	return &statusHandler{appName: appName, dispatcher: dispatcher}
}

// Health responde que o processo está de pé.
func (h *statusHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": h.appName})
}

// Status devolve o resumo do último ciclo de processamento concluído.
func (h *statusHandler) Status(c *fiber.Ctx) error {
	last := h.dispatcher.LastCycle()
	if last == nil {
		return c.JSON(fiber.Map{"service": h.appName, "last_cycle": nil})
	}
	return c.JSON(fiber.Map{"service": h.appName, "last_cycle": last})
}
