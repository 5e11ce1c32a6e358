package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rajivgeraev/artswap-api/internal/models"
)

// FavoriteRepository реализует Favorites поверх PostgreSQL
type FavoriteRepository struct {
	pool DB
}

// NewFavoriteRepository создает новый экземпляр FavoriteRepository
func NewFavoriteRepository(pool DB) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

// Add добавляет работу в избранное. Повторное добавление не является ошибкой.
func (r *FavoriteRepository) Add(ctx context.Context, userID, artID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO favorites (user_id, art_piece_id)
		VALUES ($1, $2)
	`, userID, artID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil
	}
	return err
}

// Remove убирает работу из избранного
func (r *FavoriteRepository) Remove(ctx context.Context, userID, artID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND art_piece_id = $2
	`, userID, artID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists проверяет, находится ли работа в избранном пользователя
func (r *FavoriteRepository) Exists(ctx context.Context, userID, artID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND art_piece_id = $2)
	`, userID, artID).Scan(&exists)
	return exists, err
}

// ListArtworks возвращает избранные работы пользователя
func (r *FavoriteRepository) ListArtworks(ctx context.Context, userID uuid.UUID) ([]models.Artwork, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.user_id, a.original_creator_id, a.title, a.description,
		       a.image_url, a.preview_url, a.public_id, a.traded, a.created_at
		FROM art_pieces a
		JOIN favorites f ON f.art_piece_id = a.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectArtworks(rows)
}
