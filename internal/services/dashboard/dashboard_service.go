package dashboard

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/artswap-api/internal/config"
	"github.com/rajivgeraev/artswap-api/internal/db"
	"github.com/rajivgeraev/artswap-api/internal/middleware"
	"github.com/rajivgeraev/artswap-api/internal/models"
	"github.com/rajivgeraev/artswap-api/internal/repository"
	"github.com/rajivgeraev/artswap-api/internal/utils"
)

// historyLimit ограничивает размер истории обменов на дашборде
const historyLimit = 10

// DashboardService собирает данные дашборда пользователя
type DashboardService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	artworks   repository.Artworks
	trades     repository.Trades
	users      repository.Users
}

// NewDashboardService создает новый экземпляр DashboardService
func NewDashboardService(cfg *config.Config, artworks repository.Artworks, trades repository.Trades, users repository.Users) *DashboardService {
	return &DashboardService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		artworks:   artworks,
		trades:     trades,
		users:      users,
	}
}

// GetDashboard возвращает работы пользователя и его очереди обменов
func (s *DashboardService) GetDashboard(c fiber.Ctx) error {
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

	incoming, err := s.trades.ListPending(ctx, userUUID, true)
	if err != nil {
		log.Printf("Ошибка получения входящих предложений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложений обмена"})
	}

	outgoing, err := s.trades.ListPending(ctx, userUUID, false)
	if err != nil {
		log.Printf("Ошибка получения исходящих предложений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложений обмена"})
	}

	history, err := s.trades.ListResolved(ctx, userUUID, historyLimit)
	if err != nil {
		log.Printf("Ошибка получения истории обменов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения истории обменов"})
	}

	s.expandTrades(ctx, incoming)
	s.expandTrades(ctx, outgoing)
	s.expandTrades(ctx, history)

	return c.JSON(fiber.Map{
		"artworks":        artworks,
		"incoming_trades": incoming,
		"outgoing_trades": outgoing,
		"trade_history":   history,
	})
}

// expandTrades дополняет предложения информацией о работах и участниках
func (s *DashboardService) expandTrades(ctx context.Context, trades []models.Trade) {
	for i := range trades {
		trades[i].SenderArt = s.getArtworkInfo(ctx, trades[i].SenderArtID)
		trades[i].ReceiverArt = s.getArtworkInfo(ctx, trades[i].ReceiverArtID)
		trades[i].Sender = s.getUserInfo(ctx, trades[i].SenderID)
		trades[i].Receiver = s.getUserInfo(ctx, trades[i].ReceiverID)
	}
}

// getArtworkInfo получает информацию о работе
func (s *DashboardService) getArtworkInfo(ctx context.Context, artID uuid.UUID) *models.Artwork {
	art, err := s.artworks.GetByID(ctx, artID)
	if err != nil {
		log.Printf("Ошибка получения работы %s: %v", artID, err)
		return nil
	}
	return art
}

// getUserInfo получает информацию о пользователе
func (s *DashboardService) getUserInfo(ctx context.Context, userID uuid.UUID) *models.PublicUser {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}
	return user.Public()
}
