package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rajivgeraev/artswap-api/internal/models"
)

// ArtworkRepository реализует Artworks поверх PostgreSQL
type ArtworkRepository struct {
	pool DB
}

// NewArtworkRepository создает новый экземпляр ArtworkRepository
func NewArtworkRepository(pool DB) *ArtworkRepository {
	return &ArtworkRepository{pool: pool}
}

const selectArtwork = `
	SELECT id, user_id, original_creator_id, title, description,
	       image_url, preview_url, public_id, traded, created_at
	FROM art_pieces
`

// Create сохраняет новую работу
func (r *ArtworkRepository) Create(ctx context.Context, art *models.Artwork) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO art_pieces (user_id, title, description, image_url, preview_url, public_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, art.UserID, art.Title, art.Description, art.ImageURL, art.PreviewURL, art.PublicID).
		Scan(&art.ID, &art.CreatedAt)
}

// GetByID получает работу по ID
func (r *ArtworkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Artwork, error) {
	art, err := scanArtwork(r.pool.QueryRow(ctx, selectArtwork+` WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return art, nil
}

// ListByOwner возвращает работы пользователя, новые первыми
func (r *ArtworkRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Artwork, error) {
	rows, err := r.pool.Query(ctx, selectArtwork+`
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectArtworks(rows)
}

// ListRecent возвращает последние загруженные работы
func (r *ArtworkRepository) ListRecent(ctx context.Context, limit int) ([]models.Artwork, error) {
	rows, err := r.pool.Query(ctx, selectArtwork+`
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectArtworks(rows)
}

// scanArtwork читает строку art_pieces с учетом nullable полей
func scanArtwork(row pgx.Row) (*models.Artwork, error) {
	var art models.Artwork
	var originalCreatorID pgtype.UUID
	var description, previewURL, publicID pgtype.Text

	err := row.Scan(
		&art.ID, &art.UserID, &originalCreatorID, &art.Title, &description,
		&art.ImageURL, &previewURL, &publicID, &art.Traded, &art.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if originalCreatorID.Valid {
		id := uuid.UUID(originalCreatorID.Bytes)
		art.OriginalCreatorID = &id
	}
	if description.Valid {
		art.Description = description.String
	}
	if previewURL.Valid {
		art.PreviewURL = previewURL.String
	}
	if publicID.Valid {
		art.PublicID = publicID.String
	}

	return &art, nil
}

func collectArtworks(rows pgx.Rows) ([]models.Artwork, error) {
	var artworks []models.Artwork
	for rows.Next() {
		art, err := scanArtwork(rows)
		if err != nil {
			return nil, err
		}
		artworks = append(artworks, *art)
	}
	return artworks, rows.Err()
}
