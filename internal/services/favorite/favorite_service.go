package favorite

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/artswap-api/internal/config"
	"github.com/rajivgeraev/artswap-api/internal/db"
	"github.com/rajivgeraev/artswap-api/internal/middleware"
	"github.com/rajivgeraev/artswap-api/internal/repository"
	"github.com/rajivgeraev/artswap-api/internal/utils"
)

// FavoriteService представляет сервис для работы с избранными работами
type FavoriteService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	favorites  repository.Favorites
	artworks   repository.Artworks
}

// NewFavoriteService создает новый экземпляр FavoriteService
func NewFavoriteService(cfg *config.Config, favorites repository.Favorites, artworks repository.Artworks) *FavoriteService {
	return &FavoriteService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		favorites:  favorites,
		artworks:   artworks,
	}
}

// AddToFavorites добавляет работу в избранное
func (s *FavoriteService) AddToFavorites(c fiber.Ctx) error {
	userUUID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Извлекаем ID работы из запроса
	var requestData struct {
		ArtID string `json:"art_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.ArtID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID работы не указан"})
	}

	artUUID, err := uuid.Parse(requestData.ArtID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID работы"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, существует ли работа
	if _, err := s.artworks.GetByID(ctx, artUUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Работа не найдена"})
		}
		log.Printf("Ошибка проверки существования работы: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки работы"})
	}

	if err := s.favorites.Add(ctx, userUUID, artUUID); err != nil {
		log.Printf("Ошибка добавления в избранное: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка добавления в избранное"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// RemoveFromFavorites убирает работу из избранного
func (s *FavoriteService) RemoveFromFavorites(c fiber.Ctx) error {
	userUUID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	artUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID работы"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.favorites.Remove(ctx, userUUID, artUUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Работа не найдена в избранном"})
		}
		log.Printf("Ошибка удаления из избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления из избранного"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetFavorites возвращает избранные работы пользователя
func (s *FavoriteService) GetFavorites(c fiber.Ctx) error {
	userUUID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	artworks, err := s.favorites.ListArtworks(ctx, userUUID)
	if err != nil {
		log.Printf("Ошибка получения избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения избранного"})
	}

	return c.JSON(fiber.Map{
		"artworks": artworks,
		"count":    len(artworks),
	})
}

// CheckFavorite проверяет, находится ли работа в избранном
func (s *FavoriteService) CheckFavorite(c fiber.Ctx) error {
	userUUID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	artUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID работы"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	exists, err := s.favorites.Exists(ctx, userUUID, artUUID)
	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки избранного"})
	}

	return c.JSON(fiber.Map{"is_favorite": exists})
}

// currentUser извлекает ID текущего пользователя из контекста запроса
func currentUser(c fiber.Ctx) (uuid.UUID, error) {
	userID := c.Locals(middleware.UserIDKey).(string)
	return uuid.Parse(userID)
}
