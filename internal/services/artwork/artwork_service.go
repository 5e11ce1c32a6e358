package artwork

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/artswap-api/internal/config"
	"github.com/rajivgeraev/artswap-api/internal/db"
	"github.com/rajivgeraev/artswap-api/internal/middleware"
	"github.com/rajivgeraev/artswap-api/internal/models"
	"github.com/rajivgeraev/artswap-api/internal/repository"
	"github.com/rajivgeraev/artswap-api/internal/services/cloudinary"
	"github.com/rajivgeraev/artswap-api/internal/utils"
)

// allowedExtensions задает допустимые расширения файлов изображений
var allowedExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
}

// ImageUploader загружает изображение во внешнее хранилище
type ImageUploader interface {
	UploadImage(ctx context.Context, file io.Reader, fileName string) (*cloudinary.UploadedImage, error)
}

// ArtworkService представляет сервис для работы с цифровыми работами
type ArtworkService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	artworks   repository.Artworks
	users      repository.Users
	uploader   ImageUploader
}

// NewArtworkService создает новый экземпляр ArtworkService
func NewArtworkService(cfg *config.Config, artworks repository.Artworks, users repository.Users, uploader ImageUploader) *ArtworkService {
	return &ArtworkService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		artworks:   artworks,
		users:      users,
		uploader:   uploader,
	}
}

// allowedFile проверяет расширение файла по белому списку
func allowedFile(fileName string) bool {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(fileName[idx+1:])]
}

// CreateArtwork обрабатывает загрузку новой работы
func (s *ArtworkService) CreateArtwork(c fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	title := strings.TrimSpace(c.FormValue("title"))
	description := strings.TrimSpace(c.FormValue("description"))

	// Валидация обязательных полей
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название обязательно"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Добавьте файл изображения"})
	}

	// Белый список расширений проверяем до обращения к хранилищу
	if !allowedFile(fileHeader.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Недопустимый тип файла. Загрузите изображение (png, jpg, jpeg, gif)",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Ошибка открытия файла: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка чтения файла"})
	}
	defer file.Close()

	ctx, cancel := db.GetContext()
	defer cancel()

	uploaded, err := s.uploader.UploadImage(ctx, file, fileHeader.Filename)
	if err != nil {
		log.Printf("Ошибка загрузки изображения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки изображения"})
	}

	art := &models.Artwork{
		UserID:      userUUID,
		Title:       title,
		Description: description,
		ImageURL:    uploaded.URL,
		PreviewURL:  uploaded.PreviewURL,
		PublicID:    uploaded.PublicID,
	}

	if err := s.artworks.Create(ctx, art); err != nil {
		log.Printf("Ошибка сохранения работы: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения работы"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"art_id":  art.ID,
		"message": "Ваша работа загружена",
	})
}

// GetArtwork возвращает страницу работы. Для авторизованного зрителя,
// у которого есть свои работы и который не владеет этой, дополнительно
// возвращаются данные для формы предложения обмена.
func (s *ArtworkService) GetArtwork(c fiber.Ctx) error {
	artID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID работы"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	art, err := s.artworks.GetByID(ctx, artID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Работа не найдена"})
		}
		log.Printf("Ошибка получения работы: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения работы"})
	}

	// Информация о владельце
	if owner, err := s.users.GetByID(ctx, art.UserID); err == nil {
		art.Owner = owner.Public()
	}

	response := fiber.Map{
		"art":       art,
		"can_trade": false,
	}

	// Зритель известен только если передан валидный токен
	viewerID, ok := c.Locals(middleware.UserIDKey).(string)
	if ok && viewerID != "" {
		viewerUUID, err := uuid.Parse(viewerID)
		if err == nil && viewerUUID != art.UserID {
			viewerArt, err := s.artworks.ListByOwner(ctx, viewerUUID)
			if err != nil {
				log.Printf("Ошибка получения работ зрителя: %v", err)
			} else if len(viewerArt) > 0 {
				response["can_trade"] = true
				response["my_artworks"] = viewerArt
			}
		}
	}

	return c.JSON(response)
}

// GetRecentArtworks возвращает последние загруженные работы
func (s *ArtworkService) GetRecentArtworks(c fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "8"))
	if err != nil || limit <= 0 || limit > 50 {
		limit = 8
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	artworks, err := s.artworks.ListRecent(ctx, limit)
	if err != nil {
		log.Printf("Ошибка получения работ: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения работ"})
	}

	return c.JSON(fiber.Map{
		"artworks": artworks,
		"count":    len(artworks),
	})
}

// GetMyArtworks возвращает работы текущего пользователя
func (s *ArtworkService) GetMyArtworks(c fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	artworks, err := s.artworks.ListByOwner(ctx, userUUID)
	if err != nil {
		log.Printf("Ошибка получения работ: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения работ"})
	}

	return c.JSON(fiber.Map{
		"artworks": artworks,
		"count":    len(artworks),
	})
}
