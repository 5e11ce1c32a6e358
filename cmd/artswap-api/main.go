package main

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/rajivgeraev/artswap-api/internal/config"
	"github.com/rajivgeraev/artswap-api/internal/db"
	"github.com/rajivgeraev/artswap-api/internal/middleware"
	"github.com/rajivgeraev/artswap-api/internal/repository"
	"github.com/rajivgeraev/artswap-api/internal/services/artwork"
	"github.com/rajivgeraev/artswap-api/internal/services/auth"
	"github.com/rajivgeraev/artswap-api/internal/services/cloudinary"
	"github.com/rajivgeraev/artswap-api/internal/services/dashboard"
	"github.com/rajivgeraev/artswap-api/internal/services/favorite"
	"github.com/rajivgeraev/artswap-api/internal/services/trade"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Подключаемся к Redis для черного списка токенов
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Неверный REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("❌ Ошибка подключения к Redis: %v", err)
	}

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "ArtSwap API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём репозитории
	userRepo := repository.NewUserRepository(db.Pool)
	artworkRepo := repository.NewArtworkRepository(db.Pool)
	tradeRepo := repository.NewTradeRepository(db.Pool)
	favoriteRepo := repository.NewFavoriteRepository(db.Pool)

	// Создаём сервисы
	authService := auth.NewAuthService(cfg, userRepo, rdb)
	cloudinaryService, err := cloudinary.NewCloudinaryService(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации Cloudinary: %v", err)
	}
	artworkService := artwork.NewArtworkService(cfg, artworkRepo, userRepo, cloudinaryService)
	tradeService := trade.NewTradeService(cfg, tradeRepo, artworkRepo, userRepo)
	dashboardService := dashboard.NewDashboardService(cfg, artworkRepo, tradeRepo, userRepo)
	favoriteService := favorite.NewFavoriteService(cfg, favoriteRepo, artworkRepo)

	// Настраиваем middleware для аутентификации
	authMiddleware := middleware.AuthMiddleware(authService.GetJWTService(), rdb)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(authService.GetJWTService(), rdb)

	// Регистрируем маршруты
	authService.SetupRoutes(app, authMiddleware)
	artworkService.SetupRoutes(app, authMiddleware, optionalAuthMiddleware)
	tradeService.SetupRoutes(app, authMiddleware)
	dashboardService.SetupRoutes(app, authMiddleware)
	favoriteService.SetupRoutes(app, authMiddleware)
	cloudinaryService.SetupRoutes(app, authMiddleware)

	// Неизвестные маршруты
	app.Use(notFoundHandler)

	// Запускаем сервер
	log.Printf("✅ ArtSwap API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// notFoundHandler возвращает JSON ответ для неизвестных маршрутов
func notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Страница не найдена",
	})
}
