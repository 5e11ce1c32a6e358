package artwork

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API работ
func (s *ArtworkService) SetupRoutes(app *fiber.App, authMiddleware, optionalAuthMiddleware fiber.Handler) {
	api := app.Group("/api/artworks")

	// Публичные маршруты. Страница работы учитывает зрителя, если токен передан.
	api.Get("/recent", s.GetRecentArtworks)

	// Защищенные маршруты (требуют авторизации)
	api.Get("/my", s.GetMyArtworks, authMiddleware)
	api.Post("/", s.CreateArtwork, authMiddleware)

	// Маршрут для страницы работы
	api.Get("/:id", s.GetArtwork, optionalAuthMiddleware)
}
