package dashboard

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты дашборда
func (s *DashboardService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	app.Get("/api/dashboard", s.GetDashboard, authMiddleware)
}
