package trade

import (
	"context"
	"errors"
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

// tradeHistoryLimit ограничивает размер истории обменов в выдаче
const tradeHistoryLimit = 10

// TradeService представляет сервис для работы с обменами
type TradeService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	trades     repository.Trades
	artworks   repository.Artworks
	users      repository.Users
}

// NewTradeService создает новый экземпляр TradeService
func NewTradeService(cfg *config.Config, trades repository.Trades, artworks repository.Artworks, users repository.Users) *TradeService {
	return &TradeService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		trades:     trades,
		artworks:   artworks,
		users:      users,
	}
}

// CreateTrade создает новое предложение обмена
func (s *TradeService) CreateTrade(c fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	// Преобразуем userID в UUID
	senderID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		SenderArtID   string `json:"sender_art_id"`
		ReceiverArtID string `json:"receiver_art_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Проверка обязательных полей
	if requestData.SenderArtID == "" || requestData.ReceiverArtID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо указать ID работ для обмена"})
	}

	senderArtID, err := uuid.Parse(requestData.SenderArtID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предлагаемой работы"})
	}

	receiverArtID, err := uuid.Parse(requestData.ReceiverArtID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID запрашиваемой работы"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, что предлагаемая работа существует и принадлежит отправителю
	senderArt, err := s.artworks.GetByID(ctx, senderArtID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предлагаемая работа не найдена"})
		}
		log.Printf("Ошибка запроса предлагаемой работы: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки работы"})
	}

	if senderArt.UserID != senderID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы можете предлагать только свои работы"})
	}

	// Проверяем, что запрашиваемая работа существует и принадлежит другому пользователю
	receiverArt, err := s.artworks.GetByID(ctx, receiverArtID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Запрашиваемая работа не найдена"})
		}
		log.Printf("Ошибка запроса запрашиваемой работы: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки работы"})
	}

	if receiverArt.UserID == senderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вы не можете предложить обмен самому себе"})
	}

	// Проверяем, не существует ли уже такое же предложение в ожидании
	exists, err := s.trades.ExistsPending(ctx, senderID, receiverArt.UserID, senderArtID, receiverArtID)
	if err != nil {
		log.Printf("Ошибка проверки существующих предложений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки существующих обменов"})
	}

	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "У вас уже есть предложение обмена для этой работы"})
	}

	// Создаем предложение обмена
	trade := &models.Trade{
		SenderID:      senderID,
		ReceiverID:    receiverArt.UserID,
		SenderArtID:   senderArtID,
		ReceiverArtID: receiverArtID,
	}

	if err := s.trades.Create(ctx, trade); err != nil {
		log.Printf("Ошибка создания предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения предложения обмена"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"trade_id": trade.ID,
		"message":  "Предложение обмена отправлено",
	})
}

// AcceptTrade принимает предложение обмена
func (s *TradeService) AcceptTrade(c fiber.Ctx) error {
	return s.resolveTrade(c, models.TradeStatusAccepted)
}

// RejectTrade отклоняет предложение обмена
func (s *TradeService) RejectTrade(c fiber.Ctx) error {
	return s.resolveTrade(c, models.TradeStatusRejected)
}

// resolveTrade переводит предложение обмена в конечный статус.
// Принять или отклонить предложение может только его получатель, и только
// пока оно в ожидании. Переход выполняется условным обновлением, поэтому
// два одновременных запроса не разрешат одно предложение дважды.
func (s *TradeService) resolveTrade(c fiber.Ctx, status string) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	trade, err := s.trades.GetByID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	// Только получатель может принять или отклонить предложение
	if trade.ReceiverID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только получатель предложения может его принять или отклонить"})
	}

	if !trade.IsPending() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Предложение обмена уже не в ожидании"})
	}

	if err := s.trades.Resolve(ctx, tradeID, status); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			// Предложение разрешили между нашей проверкой и обновлением
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Предложение обмена уже не в ожидании"})
		}
		log.Printf("Ошибка обновления статуса предложения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления статуса предложения"})
	}

	var message string
	switch status {
	case models.TradeStatusAccepted:
		message = "Предложение обмена принято"
	case models.TradeStatusRejected:
		message = "Предложение обмена отклонено"
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  message,
		"trade_id": tradeID,
		"status":   status,
	})
}

// GetMyTrades возвращает входящие и исходящие предложения и историю обменов
func (s *TradeService) GetMyTrades(c fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	incoming, err := s.trades.ListPending(ctx, userUUID, true)
	if err != nil {
		log.Printf("Ошибка запроса входящих предложений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложений обмена"})
	}

	outgoing, err := s.trades.ListPending(ctx, userUUID, false)
	if err != nil {
		log.Printf("Ошибка запроса исходящих предложений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложений обмена"})
	}

	history, err := s.trades.ListResolved(ctx, userUUID, tradeHistoryLimit)
	if err != nil {
		log.Printf("Ошибка запроса истории обменов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения истории обменов"})
	}

	s.expandTrades(ctx, incoming)
	s.expandTrades(ctx, outgoing)
	s.expandTrades(ctx, history)

	return c.JSON(fiber.Map{
		"incoming": incoming,
		"outgoing": outgoing,
		"history":  history,
	})
}

// expandTrades дополняет предложения информацией о работах и участниках
func (s *TradeService) expandTrades(ctx context.Context, trades []models.Trade) {
	for i := range trades {
		trades[i].SenderArt = s.getArtworkInfo(ctx, trades[i].SenderArtID)
		trades[i].ReceiverArt = s.getArtworkInfo(ctx, trades[i].ReceiverArtID)
		trades[i].Sender = s.getUserInfo(ctx, trades[i].SenderID)
		trades[i].Receiver = s.getUserInfo(ctx, trades[i].ReceiverID)
	}
}

// getArtworkInfo получает информацию о работе
func (s *TradeService) getArtworkInfo(ctx context.Context, artID uuid.UUID) *models.Artwork {
	art, err := s.artworks.GetByID(ctx, artID)
	if err != nil {
		log.Printf("Ошибка получения работы %s: %v", artID, err)
		return nil
	}
	return art
}

// getUserInfo получает информацию о пользователе
func (s *TradeService) getUserInfo(ctx context.Context, userID uuid.UUID) *models.PublicUser {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}
	return user.Public()
}
