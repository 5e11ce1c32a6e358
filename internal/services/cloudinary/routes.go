package cloudinary

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для загрузки изображений
func (s *CloudinaryService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	// Маршрут для получения параметров загрузки с клиента
	app.Get("/api/upload/params", s.GenerateUploadParams, authMiddleware)
}
