package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/artswap-api/internal/utils"
)

// UserIDKey ключ, под которым ID пользователя хранится в locals запроса
const UserIDKey = "userID"

// blacklistPrefix префикс ключей отозванных токенов в Redis
const blacklistPrefix = "blacklist:"

// BearerToken извлекает токен из заголовка Authorization
func BearerToken(c fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("отсутствует заголовок Authorization")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("неверный формат заголовка Authorization")
	}

	return parts[1], nil
}

// AuthMiddleware создаёт middleware для проверки JWT
func AuthMiddleware(jwtService *utils.JWTService, rdb *redis.Client) fiber.Handler {
	return func(c fiber.Ctx) error {
		tokenString, err := BearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		userID, err := resolveToken(c.Context(), jwtService, rdb, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		// Добавляем userID в контекст запроса
		c.Locals(UserIDKey, userID)

		return c.Next()
	}
}

// OptionalAuthMiddleware распознает пользователя, если токен передан,
// но пропускает запрос и без него
func OptionalAuthMiddleware(jwtService *utils.JWTService, rdb *redis.Client) fiber.Handler {
	return func(c fiber.Ctx) error {
		tokenString, err := BearerToken(c)
		if err == nil {
			if userID, err := resolveToken(c.Context(), jwtService, rdb, tokenString); err == nil {
				c.Locals(UserIDKey, userID)
			}
		}
		return c.Next()
	}
}

// resolveToken проверяет токен, черный список и возвращает ID пользователя
func resolveToken(ctx context.Context, jwtService *utils.JWTService, rdb *redis.Client, tokenString string) (string, error) {
	// Отозванные при выходе токены лежат в Redis до истечения срока
	exists, err := rdb.Exists(ctx, blacklistPrefix+tokenString).Result()
	if err == nil && exists > 0 {
		return "", errors.New("токен отозван")
	}

	userID, err := jwtService.ExtractUserID(tokenString)
	if err != nil {
		return "", err
	}

	// Проверяем, что userID является валидным UUID
	if _, err = uuid.Parse(userID); err != nil {
		return "", err
	}

	return userID, nil
}

// BlacklistToken помещает токен в черный список до истечения его срока
func BlacklistToken(ctx context.Context, jwtService *utils.JWTService, rdb *redis.Client, tokenString string) error {
	expiry, err := jwtService.TokenExpiry(tokenString)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, blacklistPrefix+tokenString, 1, time.Until(expiry)).Err()
}
