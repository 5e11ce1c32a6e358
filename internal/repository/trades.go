package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rajivgeraev/artswap-api/internal/models"
)

// TradeRepository реализует Trades поверх PostgreSQL
type TradeRepository struct {
	pool DB
}

// NewTradeRepository создает новый экземпляр TradeRepository
func NewTradeRepository(pool DB) *TradeRepository {
	return &TradeRepository{pool: pool}
}

const selectTrade = `
	SELECT id, sender_id, receiver_id, sender_art_id, receiver_art_id,
	       status, created_at, updated_at
	FROM trades
`

// Create сохраняет новое предложение обмена со статусом pending
func (r *TradeRepository) Create(ctx context.Context, trade *models.Trade) error {
	trade.Status = models.TradeStatusPending
	return r.pool.QueryRow(ctx, `
		INSERT INTO trades (sender_id, receiver_id, sender_art_id, receiver_art_id, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, created_at, updated_at
	`, trade.SenderID, trade.ReceiverID, trade.SenderArtID, trade.ReceiverArtID).
		Scan(&trade.ID, &trade.CreatedAt, &trade.UpdatedAt)
}

// GetByID получает предложение обмена по ID
func (r *TradeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	trade, err := scanTrade(r.pool.QueryRow(ctx, selectTrade+` WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return trade, nil
}

// ExistsPending проверяет наличие идентичного предложения в ожидании
func (r *TradeRepository) ExistsPending(ctx context.Context, senderID, receiverID, senderArtID, receiverArtID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM trades
			WHERE sender_id = $1 AND receiver_id = $2
			  AND sender_art_id = $3 AND receiver_art_id = $4
			  AND status = 'pending'
		)
	`, senderID, receiverID, senderArtID, receiverArtID).Scan(&exists)
	return exists, err
}

// Resolve переводит предложение из pending в конечный статус.
// Обновление условное: если предложение уже не pending, возвращается
// ErrNotPending и ничего не меняется. При статусе accepted владельцы
// работ меняются местами в той же транзакции.
func (r *TradeRepository) Resolve(ctx context.Context, id uuid.UUID, status string) error {
	if !models.IsTerminalStatus(status) {
		return fmt.Errorf("недопустимый конечный статус: %s", status)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var senderID, receiverID, senderArtID, receiverArtID uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE trades
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
		RETURNING sender_id, receiver_id, sender_art_id, receiver_art_id
	`, status, id).Scan(&senderID, &receiverID, &senderArtID, &receiverArtID)

	if err != nil {
		if err == pgx.ErrNoRows {
			// Предложение существует, но уже разрешено другим запросом
			return ErrNotPending
		}
		return fmt.Errorf("ошибка при обновлении статуса: %w", err)
	}

	if status == models.TradeStatusAccepted {
		if err = swapOwner(ctx, tx, senderArtID, receiverID); err != nil {
			return err
		}
		if err = swapOwner(ctx, tx, receiverArtID, senderID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// swapOwner передает работу новому владельцу, запоминая прежнего
func swapOwner(ctx context.Context, tx pgx.Tx, artID, newOwnerID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE art_pieces
		SET original_creator_id = COALESCE(original_creator_id, user_id),
		    user_id = $1,
		    traded = TRUE
		WHERE id = $2
	`, newOwnerID, artID)
	if err != nil {
		return fmt.Errorf("ошибка при передаче работы %s: %w", artID, err)
	}
	return nil
}

// ListPending возвращает входящие или исходящие предложения в ожидании
func (r *TradeRepository) ListPending(ctx context.Context, userID uuid.UUID, incoming bool) ([]models.Trade, error) {
	column := "sender_id"
	if incoming {
		column = "receiver_id"
	}

	rows, err := r.pool.Query(ctx, selectTrade+`
		WHERE `+column+` = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTrades(rows)
}

// ListResolved возвращает историю разрешенных предложений участника
func (r *TradeRepository) ListResolved(ctx context.Context, userID uuid.UUID, limit int) ([]models.Trade, error) {
	rows, err := r.pool.Query(ctx, selectTrade+`
		WHERE (sender_id = $1 OR receiver_id = $1) AND status != 'pending'
		ORDER BY updated_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTrades(rows)
}

func scanTrade(row pgx.Row) (*models.Trade, error) {
	var trade models.Trade
	err := row.Scan(
		&trade.ID, &trade.SenderID, &trade.ReceiverID,
		&trade.SenderArtID, &trade.ReceiverArtID,
		&trade.Status, &trade.CreatedAt, &trade.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

func collectTrades(rows pgx.Rows) ([]models.Trade, error) {
	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, *trade)
	}
	return trades, rows.Err()
}
