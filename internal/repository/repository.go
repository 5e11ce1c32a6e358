// Package repository содержит интерфейсы доступа к данным и их реализации на pgx.
// Связи между сущностями разрешаются явными запросами, без графа объектов.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rajivgeraev/artswap-api/internal/models"
)

// DB описывает операции пула соединений, которые используют репозитории
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ошибки уровня доступа к данным
var (
	ErrNotFound      = errors.New("запись не найдена")
	ErrNotPending    = errors.New("предложение обмена уже не в ожидании")
	ErrUsernameTaken = errors.New("имя пользователя уже занято")
	ErrEmailTaken    = errors.New("email уже используется")
)

// Users определяет операции над пользователями
type Users interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpsertTelegram(ctx context.Context, telegramID int64, username, firstName, photoURL string) (*models.User, error)
}

// Artworks определяет операции над работами
type Artworks interface {
	Create(ctx context.Context, art *models.Artwork) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artwork, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Artwork, error)
	ListRecent(ctx context.Context, limit int) ([]models.Artwork, error)
}

// Trades определяет операции над предложениями обмена
type Trades interface {
	Create(ctx context.Context, trade *models.Trade) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	ExistsPending(ctx context.Context, senderID, receiverID, senderArtID, receiverArtID uuid.UUID) (bool, error)
	Resolve(ctx context.Context, id uuid.UUID, status string) error
	ListPending(ctx context.Context, userID uuid.UUID, incoming bool) ([]models.Trade, error)
	ListResolved(ctx context.Context, userID uuid.UUID, limit int) ([]models.Trade, error)
}

// Favorites определяет операции над избранным
type Favorites interface {
	Add(ctx context.Context, userID, artID uuid.UUID) error
	Remove(ctx context.Context, userID, artID uuid.UUID) error
	Exists(ctx context.Context, userID, artID uuid.UUID) (bool, error)
	ListArtworks(ctx context.Context, userID uuid.UUID) ([]models.Artwork, error)
}
